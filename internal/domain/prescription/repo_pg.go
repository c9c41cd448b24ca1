package prescription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the SQLSTATE for a unique or primary-key conflict.
const pgUniqueViolation = "23505"

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type prescriptionRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &prescriptionRepoPG{pool: pool}
}

func (r *prescriptionRepoPG) conn(context.Context) queryable {
	return r.pool
}

const rxCols = `id, patient_name, patient_address, patient_phone, age, gender,
	bp, pulse, spo2, temp, weight, height, bmi,
	clinical_notes, diagnosis, advice, medication_data,
	doctor_name, doctor_reg_no, doctor_qualification, doctor_specialization,
	clinic_name, clinic_address, next_visit_date, approved_by_doctor,
	is_ai_generated, created_at`

func (r *prescriptionRepoPG) scanRx(row pgx.Row) (*Prescription, error) {
	var p Prescription
	var meds []byte
	err := row.Scan(&p.ID, &p.PatientName, &p.PatientAddress, &p.PatientPhone, &p.Age, &p.Gender,
		&p.BP, &p.Pulse, &p.SpO2, &p.Temp, &p.Weight, &p.Height, &p.BMI,
		&p.ClinicalNotes, &p.Diagnosis, &p.Advice, &meds,
		&p.DoctorName, &p.DoctorRegNo, &p.DoctorQualification, &p.DoctorSpecialization,
		&p.ClinicName, &p.ClinicAddress, &p.NextVisitDate, &p.ApprovedByDoctor,
		&p.IsAIGenerated, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if p.Medications, err = decodeMedications(meds); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prescriptionRepoPG) Create(ctx context.Context, p *Prescription) error {
	meds, err := encodeMedications(p.Medications)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO prescriptions (`+rxCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		p.ID, p.PatientName, p.PatientAddress, p.PatientPhone, p.Age, p.Gender,
		p.BP, p.Pulse, p.SpO2, p.Temp, p.Weight, p.Height, p.BMI,
		p.ClinicalNotes, p.Diagnosis, p.Advice, meds,
		p.DoctorName, p.DoctorRegNo, p.DoctorQualification, p.DoctorSpecialization,
		p.ClinicName, p.ClinicAddress, p.NextVisitDate, p.ApprovedByDoctor,
		p.IsAIGenerated, p.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	return err
}

func (r *prescriptionRepoPG) GetByID(ctx context.Context, id string) (*Prescription, error) {
	p, err := r.scanRx(r.conn(ctx).QueryRow(ctx, `SELECT `+rxCols+` FROM prescriptions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

func (r *prescriptionRepoPG) ListByPatientName(ctx context.Context, name string, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `lower(patient_name) = lower($1)`, name, limit, offset)
}

func (r *prescriptionRepoPG) SearchByDiagnosis(ctx context.Context, term string, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `diagnosis ILIKE '%' || $1 || '%'`, likeEscape(term), limit, offset)
}

func (r *prescriptionRepoPG) list(ctx context.Context, where, arg string, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prescriptions WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+rxCols+` FROM prescriptions WHERE `+where+` ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		arg, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := []*Prescription{}
	for rows.Next() {
		p, err := r.scanRx(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func encodeMedications(meds []Medication) ([]byte, error) {
	if meds == nil {
		meds = []Medication{}
	}
	b, err := json.Marshal(meds)
	if err != nil {
		return nil, fmt.Errorf("encode medication_data: %w", err)
	}
	return b, nil
}

func decodeMedications(raw []byte) ([]Medication, error) {
	meds := []Medication{}
	if len(raw) == 0 {
		return meds, nil
	}
	if err := json.Unmarshal(raw, &meds); err != nil {
		return nil, fmt.Errorf("decode medication_data: %w", err)
	}
	if meds == nil {
		meds = []Medication{}
	}
	return meds, nil
}

// likeEscape quotes the LIKE wildcards so a search term matches literally.
func likeEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
