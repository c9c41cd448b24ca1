package document

import (
	"github.com/sankatmochan/rx/internal/domain/prescription"
)

// identity is the clinic block printed under the banner.
type identity struct {
	Name, Contact, Address, PrescriptionID string
}

func (d *doc) identity(p *prescription.Prescription) identity {
	return identity{
		Name:           firstNonBlank(prescription.StrVal(p.ClinicName), d.brand.ClinicName),
		Contact:        d.brand.Contact,
		Address:        firstNonBlank(prescription.StrVal(p.ClinicAddress), d.brand.ClinicAddress),
		PrescriptionID: "Prescription ID: " + p.ID,
	}
}

func (d *doc) header(p *prescription.Prescription) {
	pdf := d.pdf
	x, w := d.left(), d.contentWidth()

	d.fill(d.theme.Color)
	pdf.Rect(x, pdf.GetY(), w, d.theme.BannerHeight, "F")
	pdf.SetY(pdf.GetY() + d.theme.BannerHeight + d.theme.Gap)

	id := d.identity(p)
	switch d.theme.HeaderLayout {
	case HeaderSplit:
		half := w / 2
		lh := d.font("B", 12, d.theme.Color)
		pdf.CellFormat(half, lh, d.tr(id.Name), "", 0, "L", false, 0, "")
		d.font("", 9, d.theme.Text)
		pdf.CellFormat(half, lh, d.tr(id.Address), "", 1, "R", false, 0, "")
		lh = d.font("", 9, d.theme.Label)
		pdf.CellFormat(half, lh, d.tr(id.Contact), "", 0, "L", false, 0, "")
		d.font("B", 9, d.theme.Text)
		pdf.CellFormat(half, lh, d.tr(id.PrescriptionID), "", 1, "R", false, 0, "")
	default:
		lh := d.font("B", 16, d.theme.Color)
		pdf.CellFormat(w, lh, d.tr(id.Name), "", 1, "R", false, 0, "")
		lh = d.font("", 9, d.theme.Label)
		pdf.CellFormat(w, lh, d.tr(id.Contact), "", 1, "R", false, 0, "")
		lh = d.font("", 9, d.theme.Text)
		pdf.MultiCell(w, lh, d.tr(id.Address), "", "R", false)
		lh = d.font("B", 9, d.theme.Text)
		pdf.CellFormat(w, lh, d.tr(id.PrescriptionID), "", 1, "R", false, 0, "")
	}

	d.sectionBreak("PATIENT DETAILS")
}
