package document

import (
	"strconv"

	"github.com/sankatmochan/rx/internal/domain/prescription"
)

var (
	medColumns = [4]string{"#", "MEDICINE NAME", "DOSAGE", "DURATION"}
	medRatios  = [4]float64{0.5, 4, 1.5, 1.5}
	medAligns  = [4]string{"C", "L", "L", "L"}
)

// medRow is one planned medication row.
type medRow struct {
	Number  int
	Cells   [4]string
	Striped bool
}

// medicationRows numbers the list 1..N in order. Even-numbered rows are
// striped. Missing dosage or duration stays an empty string.
func medicationRows(meds []prescription.Medication) []medRow {
	rows := make([]medRow, 0, len(meds))
	for i, m := range meds {
		n := i + 1
		rows = append(rows, medRow{
			Number:  n,
			Cells:   [4]string{strconv.Itoa(n), m.Name, m.Dosage, m.Duration},
			Striped: n%2 == 0,
		})
	}
	return rows
}

func (d *doc) medColumnWidths() [4]float64 {
	var total float64
	for _, r := range medRatios {
		total += r
	}
	w := d.contentWidth()
	var out [4]float64
	for i, r := range medRatios {
		out[i] = w * r / total
	}
	return out
}

func (d *doc) medicationTable(p *prescription.Prescription) {
	d.sectionBreak("MEDICATIONS")
	widths := d.medColumnWidths()
	rows := medicationRows(p.Medications)
	headerH := d.medHeaderHeight()
	pad := d.theme.CellPad

	if len(rows) == 0 {
		d.ensureSpace(headerH)
		d.medHeader(widths, headerH)
		return
	}

	for i, row := range rows {
		cells, n, lh := d.medCells(row, widths)
		perPage := d.linesFit(d.pageBottom()-d.top()-headerH, lh)

		// A row that fits on a page is moved whole; a taller one starts
		// wherever a single line fits and continues on following pages.
		need := float64(n)*lh + 2*pad
		if n > perPage {
			need = lh + 2*pad
		}
		if i == 0 {
			need += headerH
		}
		if d.ensureSpace(need) || i == 0 {
			d.medHeader(widths, headerH)
		}

		first := d.linesFit(d.pageBottom()-d.pdf.GetY(), lh)
		for k, run := range splitRow(n, first, perPage) {
			if k > 0 {
				d.pdf.AddPage()
				d.medHeader(widths, headerH)
			}
			d.medRow(row.Striped, cells, run, widths, lh)
		}
	}
}

// splitRow cuts n wrapped lines into runs of at most first lines, then at
// most per lines each. Every run holds at least one line.
func splitRow(n, first, per int) [][2]int {
	first, per = max(first, 1), max(per, 1)
	runs := [][2]int{{0, min(n, first)}}
	for from := runs[0][1]; from < n; from += per {
		runs = append(runs, [2]int{from, min(n, from+per)})
	}
	return runs
}

// linesFit is how many table lines of height lh fit in h millimetres of page,
// after cell padding.
func (d *doc) linesFit(h, lh float64) int {
	return int((h - 2*d.theme.CellPad + 1e-6) / lh)
}

func (d *doc) top() float64 {
	_, t, _, _ := d.pdf.GetMargins()
	return t
}

func (d *doc) medHeaderHeight() float64 {
	lh := d.font("B", 8, d.theme.Text)
	return lh + 2*d.theme.CellPad
}

func (d *doc) medHeader(widths [4]float64, h float64) {
	pdf := d.pdf
	bg, fg := d.theme.Color, white
	if d.theme.TableHeader == HeaderShaded {
		bg, fg = d.theme.Stripe, d.theme.Text
	}
	x, y := d.left(), pdf.GetY()
	d.fill(bg)
	d.draw(d.theme.Border)
	lh := d.font("B", 8, fg)
	for i, title := range medColumns {
		pdf.Rect(x, y, widths[i], h, "FD")
		pdf.SetXY(x, y+d.theme.CellPad)
		pdf.CellFormat(widths[i], lh, d.tr(title), "", 0, medAligns[i], false, 0, "")
		x += widths[i]
	}
	pdf.SetXY(d.left(), y+h)
}

// medCells wraps every cell of row to its column. n is the line count of the
// tallest cell; all cells share the line height lh.
func (d *doc) medCells(row medRow, widths [4]float64) (cells [4][]string, n int, lh float64) {
	n = 1
	for i, c := range row.Cells {
		lh = d.font(medCellStyle(i), 10, d.theme.Text)
		cells[i] = d.pdf.SplitText(d.tr(c), widths[i])
		n = max(n, len(cells[i]))
	}
	return cells, n, lh
}

// medRow draws lines run[0]..run[1] of each cell as one band of the table.
func (d *doc) medRow(striped bool, cells [4][]string, run [2]int, widths [4]float64, lh float64) {
	pdf := d.pdf
	pad := d.theme.CellPad
	h := float64(run[1]-run[0])*lh + 2*pad
	bg := white
	if striped {
		bg = d.theme.Stripe
	}
	x, y := d.left(), pdf.GetY()
	d.fill(bg)
	d.draw(d.theme.Border)
	for i, lines := range cells {
		pdf.Rect(x, y, widths[i], h, "FD")
		d.font(medCellStyle(i), 10, d.theme.Text)
		for k := run[0]; k < min(run[1], len(lines)); k++ {
			pdf.SetXY(x, y+pad+float64(k-run[0])*lh)
			pdf.CellFormat(widths[i], lh, lines[k], "", 0, medAligns[i], false, 0, "")
		}
		x += widths[i]
	}
	pdf.SetXY(d.left(), y+h)
}

// medCellStyle sets the medicine name in bold.
func medCellStyle(col int) string {
	if col == 1 {
		return "B"
	}
	return ""
}
