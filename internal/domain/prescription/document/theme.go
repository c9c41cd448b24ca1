package document

import (
	"fmt"
	"strings"
)

// RGB is a colour with 0-255 channels.
type RGB struct {
	R, G, B int
}

// HeaderLayout selects how the clinic identity block is arranged.
type HeaderLayout int

const (
	// HeaderRight stacks the identity lines right-aligned under the banner.
	HeaderRight HeaderLayout = iota
	// HeaderSplit puts clinic name and contact on the left, address and id on the right.
	HeaderSplit
)

// TableHeaderStyle selects how the medication table header row is painted.
type TableHeaderStyle int

const (
	// HeaderFilled paints the header in the theme colour with white text.
	HeaderFilled TableHeaderStyle = iota
	// HeaderShaded paints the header light gray with dark text.
	HeaderShaded
)

// Theme is the visual configuration of a rendered prescription. Lengths are in
// millimetres, font sizes in points.
type Theme struct {
	Name string

	Color  RGB
	Stripe RGB
	Label  RGB
	Border RGB
	Text   RGB

	Margin       float64
	Gap          float64
	CellPad      float64
	BannerHeight float64
	FontScale    float64

	HeaderLayout HeaderLayout
	TableHeader  TableHeaderStyle
	DottedBreaks bool
}

var (
	teal      = RGB{0, 128, 128}
	stripe    = RGB{248, 248, 248}
	labelGray = RGB{110, 110, 110}
	lineGray  = RGB{200, 200, 200}
	black     = RGB{33, 33, 33}
	white     = RGB{255, 255, 255}
)

// SpaciousTheme is the default layout: generous margins, right-aligned
// identity block and a filled table header.
func SpaciousTheme() Theme {
	return Theme{
		Name:         "spacious",
		Color:        teal,
		Stripe:       stripe,
		Label:        labelGray,
		Border:       lineGray,
		Text:         black,
		Margin:       10.6,
		Gap:          4,
		CellPad:      1.8,
		BannerHeight: 4,
		FontScale:    1,
		HeaderLayout: HeaderRight,
		TableHeader:  HeaderFilled,
		DottedBreaks: true,
	}
}

// CompactTheme fits more on a page: tighter spacing, slightly smaller type,
// split identity block and a shaded table header.
func CompactTheme() Theme {
	return Theme{
		Name:         "compact",
		Color:        teal,
		Stripe:       stripe,
		Label:        labelGray,
		Border:       lineGray,
		Text:         black,
		Margin:       8,
		Gap:          2,
		CellPad:      1,
		BannerHeight: 2,
		FontScale:    0.9,
		HeaderLayout: HeaderSplit,
		TableHeader:  HeaderShaded,
		DottedBreaks: true,
	}
}

// ThemeByName resolves a preset by name. An empty name selects the default.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "spacious":
		return SpaciousTheme(), nil
	case "compact":
		return CompactTheme(), nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
}

// Branding carries the clinic identity printed when a record does not
// override it, and the label of the platform signature block.
type Branding struct {
	ClinicName    string
	ClinicAddress string
	Contact       string
	PlatformLabel string
}

const (
	DefaultClinicName    = "SANKAT MOCHAN HEALTH PROGRAM"
	DefaultClinicAddress = "3/045 Mahatma Gandhi Marg, Hazratganj, Lucknow"
	DefaultContact       = "info@sankatmochan.co.in"
	DefaultPlatformLabel = "Sankat Mochan Nagrik (SMN)"
)

func DefaultBranding() Branding {
	return Branding{
		ClinicName:    DefaultClinicName,
		ClinicAddress: DefaultClinicAddress,
		Contact:       DefaultContact,
		PlatformLabel: DefaultPlatformLabel,
	}
}

// withDefaults fills blank fields from DefaultBranding.
func (b Branding) withDefaults() Branding {
	d := DefaultBranding()
	if strings.TrimSpace(b.ClinicName) == "" {
		b.ClinicName = d.ClinicName
	}
	if strings.TrimSpace(b.ClinicAddress) == "" {
		b.ClinicAddress = d.ClinicAddress
	}
	if strings.TrimSpace(b.Contact) == "" {
		b.Contact = d.Contact
	}
	if strings.TrimSpace(b.PlatformLabel) == "" {
		b.PlatformLabel = d.PlatformLabel
	}
	return b
}
