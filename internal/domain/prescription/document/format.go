package document

import (
	"strconv"
	"strings"
	"time"

	"github.com/sankatmochan/rx/internal/domain/prescription"
)

// Placeholder stands in for an absent or blank optional value.
const Placeholder = "-"

const dateLayout = "02-01-2006"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// orDash returns the value verbatim, or Placeholder when it is absent or blank.
func orDash(s *string) string {
	v := prescription.StrVal(s)
	if strings.TrimSpace(v) == "" {
		return Placeholder
	}
	return v
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// ageGender composes "<age> Y / <gender>", substituting Placeholder for each
// missing part.
func ageGender(age *int, gender *string) string {
	a := Placeholder
	if age != nil {
		a = strconv.Itoa(*age) + " Y"
	}
	return a + " / " + orDash(gender)
}

// paragraphs splits free text on line breaks. Blank lines are kept as empty
// entries so the caller can render them as extra spacing.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}
