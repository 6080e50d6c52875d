package recipes

import (
	"strings"

	"rezeptbox/internal/apperr"
)

// Ingredient is one line of a recipe. The JSON names are the ones the web
// front end has always sent.
type Ingredient struct {
	Ingredient string `json:"zutat"`
	Quantity   string `json:"menge"`
	Action     string `json:"taetigkeit"`
}

func (i Ingredient) blank() bool {
	return i.Ingredient == "" && i.Quantity == "" && i.Action == ""
}

// Recipe is keyed by its name. Category holds a category name, not an id, and
// may be empty or point at a category that no longer exists.
type Recipe struct {
	Name        string       `json:"name" jsonschema:"required,minLength=1"`
	Category    string       `json:"category"`
	Ingredients []Ingredient `json:"ingredients" jsonschema:"required,minItems=1"`
}

// normalize trims every field, drops blank ingredient lines and rejects
// recipes that would not survive a write to the row-per-ingredient file.
func (r *Recipe) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	if r.Name == "" {
		return apperr.Invalid("name", "is required")
	}
	kept := make([]Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ing.Ingredient = strings.TrimSpace(ing.Ingredient)
		ing.Quantity = strings.TrimSpace(ing.Quantity)
		ing.Action = strings.TrimSpace(ing.Action)
		if ing.blank() {
			continue
		}
		kept = append(kept, ing)
	}
	if len(kept) == 0 {
		return apperr.Invalid("ingredients", "at least one ingredient is required")
	}
	r.Ingredients = kept
	return nil
}
