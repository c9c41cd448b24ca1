// Package document lays out a prescription record as an A4 PDF.
//
// A render is a fixed sequence of section builders (header, patient details,
// vitals, clinical notes, medications, signatures) drawing top to bottom on a
// single flowing document. Page breaks are left to the PDF engine except for
// medication rows, which are never split across pages.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sankatmochan/rx/internal/domain/prescription"
)

// ErrIncomplete is returned, wrapped in *IncompleteError, when a record lacks
// a field the layout has no placeholder for.
var ErrIncomplete = prescription.ErrIncomplete

// IncompleteError names the missing field.
type IncompleteError struct {
	Field string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrIncomplete, e.Field)
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

const (
	fontFamily = "body"
	ptToMM     = 25.4 / 72
	leading    = 1.3

	// footerReserve keeps flowing content clear of the page number line.
	footerReserve = 8
)

// Renderer produces PDF bytes for prescriptions. It holds only immutable
// configuration and is safe for concurrent use.
type Renderer struct {
	theme    Theme
	brand    Branding
	fonts    FontSet
	compress bool
}

var _ prescription.Renderer = (*Renderer)(nil)

type Option func(*Renderer)

// WithBranding overrides the clinic identity and platform label defaults.
func WithBranding(b Branding) Option {
	return func(r *Renderer) { r.brand = b.withDefaults() }
}

// WithFonts replaces the embedded faces, for scripts they do not cover.
func WithFonts(fs FontSet) Option {
	return func(r *Renderer) { r.fonts = fs }
}

// WithCompression toggles content stream compression. It is on by default.
func WithCompression(on bool) Option {
	return func(r *Renderer) { r.compress = on }
}

func NewRenderer(theme Theme, opts ...Option) *Renderer {
	r := &Renderer{theme: theme, brand: DefaultBranding(), fonts: DefaultFonts(), compress: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Renderer) Theme() Theme { return r.theme }

// Render lays out p and returns the finished document. now stands in for the
// record's creation time when that is unset. Equal inputs give identical bytes.
func (r *Renderer) Render(p *prescription.Prescription, now time.Time) ([]byte, error) {
	if p == nil {
		return nil, &IncompleteError{Field: "record"}
	}
	if strings.TrimSpace(prescription.StrVal(p.DoctorName)) == "" {
		return nil, &IncompleteError{Field: "doctor_name"}
	}

	issued := p.CreatedAt
	if issued.IsZero() {
		issued = now
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(issued)
	pdf.SetModificationDate(issued)
	pdf.SetMargins(r.theme.Margin, r.theme.Margin, r.theme.Margin)
	pdf.SetAutoPageBreak(true, r.theme.Margin+footerReserve)
	pdf.AliasNbPages("")
	r.fonts.register(pdf)

	d := &doc{
		pdf:    pdf,
		theme:  r.theme,
		brand:  r.brand,
		issued: issued,
	}
	pdf.SetTitle(d.tr("Prescription "+p.ID), true)
	pdf.SetAuthor(d.tr(prescription.StrVal(p.DoctorName)), true)
	pdf.SetCreator(d.tr(r.brand.PlatformLabel), true)
	pdf.SetFooterFunc(d.pageFooter)
	pdf.AddPage()

	for _, section := range []func(*prescription.Prescription){
		d.header,
		d.patientInfo,
		d.vitals,
		d.clinical,
		d.medicationTable,
		d.signatures,
	} {
		section(p)
		if !pdf.Ok() {
			break
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render prescription %s: %w", p.ID, err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write prescription %s: %w", p.ID, err)
	}
	return buf.Bytes(), nil
}

// doc is the state of a single render.
type doc struct {
	pdf    *fpdf.Fpdf
	theme  Theme
	brand  Branding
	issued time.Time
}

func (d *doc) tr(s string) string { return encodable(s) }

func (d *doc) size(pt float64) float64 {
	if d.theme.FontScale <= 0 {
		return pt
	}
	return pt * d.theme.FontScale
}

// font sets the font at a theme-scaled size and the text colour, and returns
// the line height for that size.
func (d *doc) font(style string, pt float64, c RGB) float64 {
	s := d.size(pt)
	d.pdf.SetFont(fontFamily, style, s)
	d.pdf.SetTextColor(c.R, c.G, c.B)
	return s * ptToMM * leading
}

func (d *doc) fill(c RGB) { d.pdf.SetFillColor(c.R, c.G, c.B) }
func (d *doc) draw(c RGB) { d.pdf.SetDrawColor(c.R, c.G, c.B) }

func (d *doc) left() float64 {
	l, _, _, _ := d.pdf.GetMargins()
	return l
}

func (d *doc) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	l, _, r, _ := d.pdf.GetMargins()
	return w - l - r
}

// pageBottom is the lowest y flowing content may reach.
func (d *doc) pageBottom() float64 {
	_, h := d.pdf.GetPageSize()
	_, _, _, b := d.pdf.GetMargins()
	return h - b
}

// ensureSpace starts a new page unless h more millimetres fit on this one.
// It reports whether a page was added.
func (d *doc) ensureSpace(h float64) bool {
	if d.pdf.GetY()+h <= d.pageBottom() {
		return false
	}
	d.pdf.AddPage()
	return true
}

func (d *doc) gap(units float64) {
	d.pdf.Ln(d.theme.Gap * units)
}

// rule draws a solid line across the content width at the current y.
func (d *doc) rule(c RGB, width float64) {
	y := d.pdf.GetY()
	d.draw(c)
	d.pdf.SetLineWidth(width)
	d.pdf.Line(d.left(), y, d.left()+d.contentWidth(), y)
	d.pdf.SetLineWidth(thinLine)
}

const thinLine = 0.2

// sectionBreak draws a separator, dotted when the theme asks for it, with an
// optional centred caption.
func (d *doc) sectionBreak(caption string) {
	h := d.theme.Gap * 2
	d.ensureSpace(h)
	y := d.pdf.GetY() + h/2
	x0, x1 := d.left(), d.left()+d.contentWidth()

	d.draw(d.theme.Border)
	if d.theme.DottedBreaks {
		d.pdf.SetDashPattern([]float64{0.4, 0.8}, 0)
	}
	if caption == "" {
		d.pdf.Line(x0, y, x1, y)
	} else {
		lh := d.font("", 6.5, d.theme.Label)
		text := d.tr(caption)
		tw := d.pdf.GetStringWidth(text) + 4
		mid := (x0 + x1) / 2
		d.pdf.Line(x0, y, mid-tw/2, y)
		d.pdf.Line(mid+tw/2, y, x1, y)
		d.pdf.SetXY(mid-tw/2, y-lh/2)
		d.pdf.CellFormat(tw, lh, text, "", 0, "C", false, 0, "")
	}
	d.pdf.SetDashPattern([]float64{}, 0)
	d.pdf.SetY(y + h/2)
}

// pageFooter runs on every page close.
func (d *doc) pageFooter() {
	d.pdf.SetY(-(d.theme.Margin + footerReserve/2))
	lh := d.font("I", 7, d.theme.Label)
	d.pdf.CellFormat(0, lh, fmt.Sprintf("Page %d/{nb}", d.pdf.PageNo()), "", 0, "C", false, 0, "")
}
