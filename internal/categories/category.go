package categories

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rezeptbox/internal/apperr"
)

const maxSlugLen = 20

// Palette is the set of colours offered when creating a category. The first
// one is used when a category comes without a colour.
var Palette = []string{
	"#D97706", // amber
	"#DC2626", // red
	"#7C3AED", // purple
	"#059669", // green
	"#0891B2", // cyan
	"#65A30D", // lime
	"#DB2777", // pink
	"#2563EB", // blue
	"#EA580C", // orange
	"#4F46E5", // indigo
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Category struct {
	ID    string `json:"id" jsonschema:"maxLength=20,pattern=^[a-z0-9]*$"`
	Name  string `json:"name" jsonschema:"required,minLength=1"`
	Icon  Icon   `json:"icon"`
	Color string `json:"color" jsonschema:"pattern=^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"`
}

// Slug derives a category id from its name: lowercased, everything outside
// [a-z0-9] removed, at most 20 characters.
func Slug(name string) string {
	lower := cases.Lower(language.Und).String(name)
	var b strings.Builder
	for i := 0; i < len(lower) && b.Len() < maxSlugLen; i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// sameName compares category names the way duplicates are detected.
func sameName(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}

// normalize trims and defaults c in place and rejects what cannot be stored.
func (c *Category) normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	c.ID = strings.TrimSpace(c.ID)
	c.Color = strings.TrimSpace(c.Color)
	if c.Name == "" {
		return apperr.Invalid("name", "is required")
	}
	if c.Icon == IconUnknown {
		c.Icon = DefaultIcon
	}
	if c.Color == "" {
		c.Color = Palette[0]
	}
	if !hexColor.MatchString(c.Color) {
		return apperr.Invalid("color", "must be a hex colour like #D97706")
	}
	return nil
}
