package recipes

import (
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Uncategorized is the bucket CountByCategory uses for recipes without a category.
const Uncategorized = "Ohne Kategorie"

// Query selects recipes the way the recipe list filters them.
type Query struct {
	// Search matches case-insensitively anywhere in the name.
	Search string
	// Category matches exactly; nil means any category and an empty string
	// means recipes without one.
	Category *string
}

func (q Query) Match(r Recipe) bool {
	if q.Category != nil && r.Category != *q.Category {
		return false
	}
	if q.Search == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(r.Name), fold.String(q.Search))
}

func Filter(list []Recipe, q Query) []Recipe {
	return lo.Filter(list, func(r Recipe, _ int) bool { return q.Match(r) })
}

// CountByCategory returns the number of recipes per category name.
func CountByCategory(list []Recipe) map[string]int {
	return lo.CountValuesBy(list, func(r Recipe) string {
		return lo.Ternary(r.Category == "", Uncategorized, r.Category)
	})
}

// SortForPrint orders a selection by category, then by name, using German
// collation. Recipes without a category go last. The input is not modified.
func SortForPrint(list []Recipe) []Recipe {
	col := collate.New(language.German)
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b Recipe) int {
		if a.Category != b.Category {
			switch {
			case a.Category == "":
				return 1
			case b.Category == "":
				return -1
			}
			return col.CompareString(a.Category, b.Category)
		}
		return col.CompareString(a.Name, b.Name)
	})
	return sorted
}

// Names picks the recipes whose names are listed, in list order. Unknown
// names are returned separately.
func Names(list []Recipe, names []string) (found []Recipe, missing []string) {
	want := lo.SliceToMap(names, func(n string) (string, bool) { return n, true })
	found = lo.Filter(list, func(r Recipe, _ int) bool { return want[r.Name] })
	have := lo.SliceToMap(found, func(r Recipe) (string, bool) { return r.Name, true })
	missing = lo.Filter(names, func(n string, _ int) bool { return !have[n] })
	return found, missing
}
