package document

// field is one labelled value in a grid. A filler occupies a cell without
// printing anything.
type field struct {
	Label  string
	Value  string
	Filler bool
}

type gridStyle struct {
	Shaded     bool
	Align      string
	LabelSize  float64
	ValueSize  float64
	ValueStyle string
}

// grid draws fields perRow to a row in equal-width cells, small label over
// value. Row height follows the tallest wrapped value in the row, and a row
// that does not fit moves to the next page whole.
func (d *doc) grid(fields []field, perRow int, st gridStyle) {
	pdf := d.pdf
	w := d.contentWidth() / float64(perRow)
	pad := d.theme.CellPad

	for start := 0; start < len(fields); start += perRow {
		end := min(start+perRow, len(fields))
		row := fields[start:end]

		labelH := d.font("", st.LabelSize, d.theme.Label)
		valueH := d.font(st.ValueStyle, st.ValueSize, d.theme.Text)
		lines := 1
		for _, f := range row {
			if f.Filler {
				continue
			}
			lines = max(lines, len(pdf.SplitText(d.tr(f.Value), w)))
		}
		h := 2*pad + labelH + float64(lines)*valueH
		d.ensureSpace(h)

		x0, y := d.left(), pdf.GetY()
		for i, f := range row {
			x := x0 + float64(i)*w
			if st.Shaded {
				d.fill(d.theme.Stripe)
				d.draw(d.theme.Border)
				pdf.Rect(x, y, w, h, "FD")
			}
			if f.Filler {
				continue
			}
			d.font("", st.LabelSize, d.theme.Label)
			pdf.SetXY(x, y+pad)
			pdf.CellFormat(w, labelH, d.tr(f.Label), "", 0, st.Align, false, 0, "")
			d.font(st.ValueStyle, st.ValueSize, d.theme.Text)
			pdf.SetXY(x, y+pad+labelH)
			pdf.MultiCell(w, valueH, d.tr(f.Value), "", st.Align, false)
		}
		pdf.SetXY(x0, y+h)
	}
}
