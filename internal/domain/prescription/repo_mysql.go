package prescription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

type prescriptionRepoMySQL struct{ db *sql.DB }

// NewRepoMySQL returns a Repository backed by MySQL. The DSN used to open db
// must set parseTime=true.
func NewRepoMySQL(db *sql.DB) Repository {
	return &prescriptionRepoMySQL{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *prescriptionRepoMySQL) scanRx(row rowScanner) (*Prescription, error) {
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

func (r *prescriptionRepoMySQL) Create(ctx context.Context, p *Prescription) error {
	meds, err := encodeMedications(p.Medications)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prescriptions (`+rxCols+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.ID, p.PatientName, p.PatientAddress, p.PatientPhone, p.Age, p.Gender,
		p.BP, p.Pulse, p.SpO2, p.Temp, p.Weight, p.Height, p.BMI,
		p.ClinicalNotes, p.Diagnosis, p.Advice, meds,
		p.DoctorName, p.DoctorRegNo, p.DoctorQualification, p.DoctorSpecialization,
		p.ClinicName, p.ClinicAddress, p.NextVisitDate, p.ApprovedByDoctor,
		p.IsAIGenerated, p.CreatedAt)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	return err
}

func (r *prescriptionRepoMySQL) GetByID(ctx context.Context, id string) (*Prescription, error) {
	p, err := r.scanRx(r.db.QueryRowContext(ctx, `SELECT `+rxCols+` FROM prescriptions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, err
}

func (r *prescriptionRepoMySQL) ListByPatientName(ctx context.Context, name string, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `LOWER(patient_name) = LOWER(?)`, name, limit, offset)
}

func (r *prescriptionRepoMySQL) SearchByDiagnosis(ctx context.Context, term string, limit, offset int) ([]*Prescription, int, error) {
	return r.list(ctx, `LOWER(diagnosis) LIKE CONCAT('%', LOWER(?), '%')`, likeEscape(term), limit, offset)
}

func (r *prescriptionRepoMySQL) list(ctx context.Context, where, arg string, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prescriptions WHERE `+where, arg).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+rxCols+` FROM prescriptions WHERE `+where+` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
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
