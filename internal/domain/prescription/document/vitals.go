package document

import "github.com/sankatmochan/rx/internal/domain/prescription"

const vitalsPerRow = 4

func vitalFields(p *prescription.Prescription) []field {
	return []field{
		{Label: "BP (MMHG)", Value: orDash(p.BP)},
		{Label: "PULSE (BPM)", Value: orDash(p.Pulse)},
		{Label: "SPO2 (%)", Value: orDash(p.SpO2)},
		{Label: "TEMP (°F)", Value: orDash(p.Temp)},
		{Label: "WEIGHT (KG)", Value: orDash(p.Weight)},
		{Label: "HEIGHT (CM)", Value: orDash(p.Height)},
		{Label: "BMI", Value: orDash(p.BMI)},
		{Filler: true},
	}
}

func (d *doc) vitals(p *prescription.Prescription) {
	d.grid(vitalFields(p), vitalsPerRow, gridStyle{
		Shaded:     true,
		Align:      "C",
		LabelSize:  6.5,
		ValueSize:  11,
		ValueStyle: "B",
	})
	d.gap(1)
}
