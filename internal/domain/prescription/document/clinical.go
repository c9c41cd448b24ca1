package document

import (
	"strings"

	"github.com/sankatmochan/rx/internal/domain/prescription"
)

func (d *doc) clinical(p *prescription.Prescription) {
	d.heading("PROBLEM STATEMENT / CLINICAL NOTES")
	d.body(orDash(p.ClinicalNotes))
	d.pdf.Ln(d.theme.Gap)

	w := d.contentWidth()
	lh := d.font("B", 12, d.theme.Text)
	d.pdf.MultiCell(w, lh, d.tr("Diagnosis: "+orDash(p.Diagnosis)), "", "L", false)

	advice := prescription.StrVal(p.Advice)
	if strings.TrimSpace(advice) == "" {
		return
	}
	d.pdf.Ln(d.theme.Gap)
	d.heading("ADVICE")
	d.body(advice)
}

func (d *doc) heading(text string) {
	lh := d.font("B", 8, d.theme.Color)
	d.ensureSpace(lh * 2)
	d.pdf.CellFormat(d.contentWidth(), lh, d.tr(text), "", 1, "L", false, 0, "")
	d.pdf.Ln(lh / 3)
}

// body prints free text with each line break starting a new paragraph.
func (d *doc) body(text string) {
	w := d.contentWidth()
	lh := d.font("", 10, d.theme.Text)
	for i, para := range paragraphs(text) {
		if i > 0 {
			d.pdf.Ln(lh / 3)
		}
		if strings.TrimSpace(para) == "" {
			d.pdf.Ln(lh)
			continue
		}
		d.pdf.MultiCell(w, lh, d.tr(para), "", "L", false)
	}
}
