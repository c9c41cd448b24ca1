package document

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

// The default faces are DejaVu Sans Condensed, see fonts/LICENSE.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	dejaVuRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	dejaVuBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	dejaVuItalic []byte
)

// FontSet holds TrueType data for the three styles the layout draws with.
// Text is embedded as Unicode, so any script the faces cover prints as given.
type FontSet struct {
	Regular []byte
	Bold    []byte
	Italic  []byte
}

// DefaultFonts returns the embedded DejaVu Sans Condensed faces. They cover
// Latin, Greek and Cyrillic but not Indic scripts.
func DefaultFonts() FontSet {
	return FontSet{Regular: dejaVuRegular, Bold: dejaVuBold, Italic: dejaVuItalic}
}

var errNotTrueType = errors.New("not a TrueType font")

// LoadFonts reads TrueType files from disk. Blank bold or italic paths reuse
// the regular face. When every path is blank the embedded faces are used.
func LoadFonts(regular, bold, italic string) (FontSet, error) {
	if regular == "" && bold == "" && italic == "" {
		return DefaultFonts(), nil
	}
	if regular == "" {
		return FontSet{}, errors.New("a regular font file is required when bold or italic is set")
	}
	var fs FontSet
	var err error
	if fs.Regular, err = readTrueType(regular); err != nil {
		return FontSet{}, err
	}
	fs.Bold, fs.Italic = fs.Regular, fs.Regular
	if bold != "" {
		if fs.Bold, err = readTrueType(bold); err != nil {
			return FontSet{}, err
		}
	}
	if italic != "" {
		if fs.Italic, err = readTrueType(italic); err != nil {
			return FontSet{}, err
		}
	}
	return fs, nil
}

func readTrueType(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	if err := checkTrueType(b); err != nil {
		return nil, fmt.Errorf("font %s: %w", path, err)
	}
	return b, nil
}

// checkTrueType accepts glyf-outline sfnt data. CFF-flavoured OpenType
// ("OTTO") cannot be subset by the PDF writer.
func checkTrueType(b []byte) error {
	if len(b) < 12 {
		return errNotTrueType
	}
	switch {
	case bytes.Equal(b[:4], []byte{0, 1, 0, 0}), bytes.Equal(b[:4], []byte("true")):
		return nil
	case bytes.Equal(b[:4], []byte("OTTO")):
		return fmt.Errorf("%w: CFF outlines are not supported", errNotTrueType)
	}
	return errNotTrueType
}

func (fs FontSet) register(pdf *fpdf.Fpdf) {
	pdf.AddUTF8FontFromBytes(fontFamily, "", fs.Regular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fs.Bold)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", fs.Italic)
}

// encodable replaces characters above U+FFFF and invalid UTF-8 with U+FFFD.
// The writer encodes text as two-byte codes and cannot address supplementary
// planes.
func encodable(s string) string {
	if utf8.ValidString(s) && !strings.ContainsFunc(s, supplementary) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if supplementary(r) {
			return utf8.RuneError
		}
		return r
	}, s)
}

func supplementary(r rune) bool { return r > 0xFFFF }
