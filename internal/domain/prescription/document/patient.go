package document

import (
	"time"

	"github.com/sankatmochan/rx/internal/domain/prescription"
)

// patientFields returns the patient grid in print order. The address is
// returned separately because it spans the full width.
func patientFields(p *prescription.Prescription, issued time.Time) (cols []field, address field) {
	cols = []field{
		{Label: "PATIENT NAME", Value: orDash(&p.PatientName)},
		{Label: "DATE", Value: formatDate(issued)},
		{Label: "AGE / GENDER", Value: ageGender(p.Age, p.Gender)},
		{Label: "PHONE", Value: orDash(p.PatientPhone)},
	}
	address = field{Label: "ADDRESS", Value: orDash(p.PatientAddress)}
	return cols, address
}

func (d *doc) patientInfo(p *prescription.Prescription) {
	cols, address := patientFields(p, d.issued)
	st := gridStyle{Align: "L", LabelSize: 7, ValueSize: 10.5, ValueStyle: "B"}
	d.grid(cols, len(cols), st)
	d.pdf.Ln(d.theme.Gap / 2)
	d.grid([]field{address}, 1, st)
	d.sectionBreak("VITALS")
}
