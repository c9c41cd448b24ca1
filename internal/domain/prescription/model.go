package prescription

import (
	"fmt"
	"strings"
	"time"
)

// Prescription maps to the prescriptions table. Optional fields are pointers so
// that "absent" and "empty" survive a round trip through the API and storage.
type Prescription struct {
	ID string `db:"id" json:"id"`

	PatientName    string  `db:"patient_name" json:"patient_name"`
	PatientAddress *string `db:"patient_address" json:"patient_address,omitempty"`
	PatientPhone   *string `db:"patient_phone" json:"patient_phone,omitempty"`
	Age            *int    `db:"age" json:"age,omitempty"`
	Gender         *string `db:"gender" json:"gender,omitempty"`

	BP     *string `db:"bp" json:"bp,omitempty"`
	Pulse  *string `db:"pulse" json:"pulse,omitempty"`
	SpO2   *string `db:"spo2" json:"spo2,omitempty"`
	Temp   *string `db:"temp" json:"temp,omitempty"`
	Weight *string `db:"weight" json:"weight,omitempty"`
	Height *string `db:"height" json:"height,omitempty"`
	BMI    *string `db:"bmi" json:"bmi,omitempty"`

	ClinicalNotes *string `db:"clinical_notes" json:"clinical_notes,omitempty"`
	Diagnosis     *string `db:"diagnosis" json:"diagnosis,omitempty"`
	Advice        *string `db:"advice" json:"advice,omitempty"`

	Medications []Medication `db:"medication_data" json:"medication_data"`

	DoctorName           *string `db:"doctor_name" json:"doctor_name,omitempty"`
	DoctorRegNo          *string `db:"doctor_reg_no" json:"doctor_reg_no,omitempty"`
	DoctorQualification  *string `db:"doctor_qualification" json:"doctor_qualification,omitempty"`
	DoctorSpecialization *string `db:"doctor_specialization" json:"doctor_specialization,omitempty"`

	ClinicName    *string `db:"clinic_name" json:"clinic_name,omitempty"`
	ClinicAddress *string `db:"clinic_address" json:"clinic_address,omitempty"`

	NextVisitDate    *time.Time `db:"next_visit_date" json:"next_visit_date,omitempty"`
	ApprovedByDoctor *bool      `db:"approved_by_doctor" json:"approved_by_doctor"`
	IsAIGenerated    *bool      `db:"is_ai_generated" json:"is_ai_generated"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// Medication is one line of the prescribed medication list. The list order is
// the printed order.
type Medication struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration"`
}

// Validate checks the fields a record must carry before it is stored.
func (p *Prescription) Validate() error {
	if strings.TrimSpace(p.PatientName) == "" {
		return fmt.Errorf("%w: patient_name is required", ErrValidation)
	}
	if p.Age != nil && *p.Age < 0 {
		return fmt.Errorf("%w: age must not be negative", ErrValidation)
	}
	return nil
}

// ApplyDefaults fills the administrative fields that are set once, at creation.
func (p *Prescription) ApplyDefaults(now time.Time) {
	if p.ApprovedByDoctor == nil {
		p.ApprovedByDoctor = boolPtr(false)
	}
	if p.IsAIGenerated == nil {
		p.IsAIGenerated = boolPtr(true)
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.Medications == nil {
		p.Medications = []Medication{}
	}
}

// Filename is the suggested attachment name for the rendered document.
func (p *Prescription) Filename() string {
	return p.ID + ".pdf"
}

// StrVal dereferences an optional string field.
func StrVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func boolPtr(b bool) *bool { return &b }
