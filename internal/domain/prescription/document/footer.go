package document

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sankatmochan/rx/internal/domain/prescription"
)

// line is one line of a signature column.
type line struct {
	Text  string
	Style string
	Size  float64
	Color RGB
	Rule  bool
}

const signatureRuleWidth = 55

func (d *doc) doctorColumn(p *prescription.Prescription) []line {
	name := prescription.StrVal(p.DoctorName)
	out := []line{
		{Text: "CONSULTING DOCTOR", Size: 7, Color: d.theme.Label},
		{Text: cases.Upper(language.Und).String(name), Style: "B", Size: 11, Color: d.theme.Text},
		{Text: "Reg No: " + orDash(p.DoctorRegNo), Size: 9, Color: d.theme.Text},
	}
	if q := prescription.StrVal(p.DoctorQualification); strings.TrimSpace(q) != "" {
		out = append(out, line{Text: q, Size: 9, Color: d.theme.Text})
	}
	if s := prescription.StrVal(p.DoctorSpecialization); strings.TrimSpace(s) != "" {
		out = append(out, line{Text: s, Size: 9, Color: d.theme.Label})
	}
	return append(out,
		line{Rule: true},
		line{Text: "Signature of " + name, Size: 8, Color: d.theme.Text},
		line{Text: "Date: " + formatDate(d.issued), Size: 7, Color: d.theme.Label},
	)
}

func (d *doc) platformColumn(p *prescription.Prescription) []line {
	return []line{
		{Text: d.brand.PlatformLabel, Size: 7, Color: d.theme.Label},
		{Text: "Patient: " + orDash(&p.PatientName), Style: "B", Size: 11, Color: d.theme.Text},
		{Rule: true},
		{Text: "Authorised Signatory", Size: 8, Color: d.theme.Text},
		{Text: "Date: " + formatDate(d.issued), Size: 7, Color: d.theme.Label},
	}
}

func (d *doc) columnHeight(lines []line) float64 {
	var h float64
	for _, l := range lines {
		if l.Rule {
			h += d.theme.Gap * 2
			continue
		}
		h += d.size(l.Size) * ptToMM * leading
	}
	return h
}

// column draws lines top-down from (x, y) and returns the bottom y.
func (d *doc) column(lines []line, x, y, w float64, align string) float64 {
	pdf := d.pdf
	for _, l := range lines {
		if l.Rule {
			y += d.theme.Gap * 1.5
			rx := x
			if align == "R" {
				rx = x + w - signatureRuleWidth
			}
			d.draw(d.theme.Text)
			pdf.SetLineWidth(0.3)
			pdf.Line(rx, y, rx+signatureRuleWidth, y)
			pdf.SetLineWidth(thinLine)
			y += d.theme.Gap / 2
			continue
		}
		lh := d.font(l.Style, l.Size, l.Color)
		pdf.SetXY(x, y)
		pdf.CellFormat(w, lh, d.tr(l.Text), "", 0, align, false, 0, "")
		y += lh
	}
	return y
}

// signatures draws the closing block: a theme-colour rule, the doctor and
// platform columns side by side, and the next visit date when one is set.
// The block is kept on one page.
func (d *doc) signatures(p *prescription.Prescription) {
	pdf := d.pdf
	left, right := d.doctorColumn(p), d.platformColumn(p)
	h := d.theme.Gap*3 + max(d.columnHeight(left), d.columnHeight(right))
	if p.NextVisitDate != nil {
		h += d.theme.Gap * 2
	}
	pdf.Ln(d.theme.Gap * 2)
	d.ensureSpace(h)

	d.rule(d.theme.Color, 0.6)
	y := pdf.GetY() + d.theme.Gap
	x, w := d.left(), d.contentWidth()
	half := w / 2
	bottom := max(d.column(left, x, y, half, "L"), d.column(right, x+half, y, half, "R"))
	pdf.SetXY(x, bottom)

	if p.NextVisitDate != nil {
		pdf.Ln(d.theme.Gap)
		lh := d.font("B", 10, d.theme.Color)
		pdf.CellFormat(w, lh, d.tr("Next Visit: "+formatDate(*p.NextVisitDate)), "", 1, "L", false, 0, "")
	}
}
