package recipes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func names(list []Recipe) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Name)
	}
	return out
}

func sample() []Recipe {
	return []Recipe{
		recipe("Linsensuppe", "Suppen", "Linsen"),
		recipe("Kürbissuppe", "Suppen", "Kürbis"),
		recipe("Carbonara", "Pasta", "Spaghetti"),
		recipe("Brot", "", "Mehl"),
		recipe("Äpfel im Schlafrock", "Desserts", "Äpfel"),
	}
}

func TestFilter(t *testing.T) {
	list := sample()
	suppen := "Suppen"
	none := ""

	assert.Equal(t, names(list), names(Filter(list, Query{})))
	assert.Equal(t, []string{"Linsensuppe", "Kürbissuppe"}, names(Filter(list, Query{Search: "SUPPE"})))
	assert.Equal(t, []string{"Kürbissuppe"}, names(Filter(list, Query{Search: "kür", Category: &suppen})))
	assert.Equal(t, []string{"Brot"}, names(Filter(list, Query{Category: &none})))
	assert.Equal(t, []string{"Äpfel im Schlafrock"}, names(Filter(list, Query{Search: "äpfel"})))
	assert.Empty(t, Filter(list, Query{Search: "pizza"}))
}

func TestCountByCategory(t *testing.T) {
	assert.Equal(t, map[string]int{
		"Suppen":      2,
		"Pasta":       1,
		"Desserts":    1,
		Uncategorized: 1,
	}, CountByCategory(sample()))
}

func TestSortForPrint(t *testing.T) {
	list := []Recipe{
		recipe("Linsensuppe", "Suppen", "Linsen"),
		recipe("Brot", "", "Mehl"),
		recipe("Apfelmus", "Desserts", "Äpfel"),
		recipe("Kürbissuppe", "Suppen", "Kürbis"),
		recipe("Äpfelchen", "Desserts", "Äpfel"),
		recipe("Aufläufe", "Ofen", "Käse"),
		recipe("Carbonara", "Pasta", "Spaghetti"),
	}
	sorted := SortForPrint(list)

	assert.Equal(t, []string{
		"Äpfelchen",
		"Apfelmus",
		"Aufläufe",
		"Carbonara",
		"Kürbissuppe",
		"Linsensuppe",
		"Brot",
	}, names(sorted))
	assert.Equal(t, "Linsensuppe", list[0].Name, "input must not be reordered")
}

func TestNames(t *testing.T) {
	found, missing := Names(sample(), []string{"Brot", "Carbonara", "Pizza"})
	assert.Equal(t, []string{"Carbonara", "Brot"}, names(found))
	assert.Equal(t, []string{"Pizza"}, missing)
}
