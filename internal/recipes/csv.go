package recipes

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Header is written as the first row of every recipe file.
var Header = []string{"Kategorie", "Gericht", "Zutat", "Menge", "Tätigkeit"}

type column int

const (
	colCategory column = iota
	colDish
	colIngredient
	colQuantity
	colAction
	numColumns
)

// older files have no Kategorie column and spell Taetigkeit without umlaut.
var headerNames = map[string]column{
	"kategorie":  colCategory,
	"gericht":    colDish,
	"zutat":      colIngredient,
	"menge":      colQuantity,
	"tätigkeit":  colAction,
	"taetigkeit": colAction,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses a recipe file and groups its rows by dish. Recipes come out
// in the order their first row appears; ingredients keep their row order. A
// dish that shows up again further down collects those rows too.
func ReadCSV(r io.Reader) ([]Recipe, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := [numColumns]int{-1, -1, -1, -1, -1}
	for i, name := range header {
		if col, ok := headerNames[strings.ToLower(strings.TrimSpace(name))]; ok && index[col] < 0 {
			index[col] = i
		}
	}
	if index[colDish] < 0 {
		return nil, fmt.Errorf("header %v has no Gericht column", header)
	}

	var (
		list   []Recipe
		byName = map[string]int{}
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		cell := func(col column) string {
			i := index[col]
			if i < 0 || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		name := cell(colDish)
		if name == "" {
			continue
		}
		i, ok := byName[name]
		if !ok {
			i = len(list)
			byName[name] = i
			list = append(list, Recipe{Name: name, Category: cell(colCategory), Ingredients: []Ingredient{}})
		}
		list[i].Ingredients = append(list[i].Ingredients, Ingredient{
			Ingredient: cell(colIngredient),
			Quantity:   cell(colQuantity),
			Action:     cell(colAction),
		})
	}
	return list, nil
}

// WriteCSV flattens recipes into one row per ingredient, repeating the dish
// and its category on every row.
func WriteCSV(w io.Writer, list []Recipe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range list {
		for _, ing := range r.Ingredients {
			if err := cw.Write([]string{r.Category, r.Name, ing.Ingredient, ing.Quantity, ing.Action}); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", r.Name, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
