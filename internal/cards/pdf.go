package cards

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/samber/lo"

	"rezeptbox/internal/categories"
	"rezeptbox/internal/recipes"
)

const (
	font          = "Helvetica"
	titleSize     = 12.0
	headerSize    = 7.0
	bodySize      = 8.0
	titleAdvance  = 5.0
	swatchSize    = 3.0
	ptToMM        = 25.4 / 72
	lineSpacing   = 1.15
	thinLineWidth = 0.2
	ruleWidth     = 0.4
)

type options struct {
	ingredientLabel string
	actionLabel     string
	created         time.Time
}

type Option func(*options)

// WithLabels replaces the two column headings.
func WithLabels(ingredient, action string) Option {
	return func(o *options) {
		o.ingredientLabel = ingredient
		o.actionLabel = action
	}
}

// WithCreationDate fixes the document timestamp, which makes output reproducible.
func WithCreationDate(t time.Time) Option {
	return func(o *options) { o.created = t }
}

// Write renders one card per recipe, in the given order, and writes the PDF to w.
// Categories are only used to colour the swatch of cards whose category is known.
func Write(w io.Writer, list []recipes.Recipe, cats []categories.Category, opts ...Option) error {
	doc, err := render(list, cats, opts...)
	if err != nil {
		return err
	}
	if err := doc.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

type document struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	opts   options
	colors map[string]string
	// placed and rows hold, per card, where it was drawn and how many
	// ingredient rows fitted.
	placed []Placement
	rows   []int
}

func render(list []recipes.Recipe, cats []categories.Category, opts ...Option) (*document, error) {
	o := options{ingredientLabel: "Zutat", actionLabel: "Zubereitung", created: time.Now()}
	for _, opt := range opts {
		opt(&o)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetCreationDate(o.created)
	pdf.SetTitle("Rezeptkarten", true)

	d := &document{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		opts: o,
		colors: lo.SliceToMap(cats, func(c categories.Category) (string, string) {
			return c.Name, c.Color
		}),
		placed: make([]Placement, 0, len(list)),
		rows:   make([]int, 0, len(list)),
	}

	if len(list) == 0 {
		pdf.AddPage()
	}
	for i, r := range list {
		p := Place(i)
		if p.Slot == 0 {
			pdf.AddPage()
		}
		p.Page = pdf.PageNo() - 1
		d.placed = append(d.placed, p)
		d.rows = append(d.rows, d.card(r, p.X, p.Y))
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render cards: %w", err)
	}
	return d, nil
}

// card draws one recipe at (x, y) and returns how many ingredient rows fitted.
// Rows that would start below the card's bottom bound are dropped, not carried
// over to another card.
func (d *document) card(r recipes.Recipe, x, y float64) int {
	pdf := d.pdf
	leftCol := x + Margin
	rightCol := x + CardWidth/2 + 2
	colWidth := CardWidth/2 - Margin - 2
	cursor := y + Margin*2

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(thinLineWidth)
	pdf.Rect(x, y, CardWidth, CardHeight, "D")
	d.swatch(r.Category, x, y)

	title := r.Name
	if r.Category != "" {
		title = r.Category + " - " + r.Name
	}
	pdf.SetFont(font, "B", titleSize)
	pdf.SetTextColor(0, 0, 0)
	titleLines := d.split(title, CardWidth-Margin*2)
	for i, line := range titleLines {
		pdf.Text(x+CardWidth/2-pdf.GetStringWidth(line)/2, cursor+float64(i)*advance(titleSize), line)
	}
	cursor += float64(len(titleLines))*titleAdvance + 2

	pdf.SetLineWidth(ruleWidth)
	pdf.Line(x+Margin, cursor, x+CardWidth-Margin, cursor)
	cursor += 4

	pdf.SetFont(font, "B", headerSize)
	pdf.Text(leftCol, cursor, d.tr(d.opts.ingredientLabel))
	pdf.Text(rightCol, cursor, d.tr(d.opts.actionLabel))
	cursor += 4

	bottom := y + CardHeight - Margin - 4
	rows := 0
	for _, ing := range r.Ingredients {
		if cursor > bottom {
			break
		}
		pdf.SetFont(font, "", bodySize)
		left := d.split(ing.Quantity+" "+ing.Ingredient, colWidth)
		d.lines(left, leftCol, cursor, bodySize)

		pdf.SetFont(font, "I", bodySize)
		right := d.split(ing.Action, colWidth)
		d.lines(right, rightCol, cursor, bodySize)

		cursor += float64(max(len(left), len(right), 1))*LineHeight + 1
		rows++
	}
	return rows
}

// split wraps text to width with the current font. The returned lines are
// already in the core fonts' encoding.
func (d *document) split(text string, width float64) []string {
	return lo.Map(d.pdf.SplitLines([]byte(d.tr(text)), width), func(b []byte, _ int) string {
		return string(b)
	})
}

func (d *document) lines(lines []string, x, y, size float64) {
	for i, line := range lines {
		d.pdf.Text(x, y+float64(i)*advance(size), line)
	}
}

func (d *document) swatch(category string, x, y float64) {
	color, ok := d.colors[category]
	if !ok || category == "" {
		return
	}
	r, g, b, ok := parseHex(color)
	if !ok {
		return
	}
	d.pdf.SetFillColor(r, g, b)
	d.pdf.Rect(x+1.5, y+1.5, swatchSize, swatchSize, "F")
}

// advance is the baseline distance between wrapped lines at size points.
func advance(size float64) float64 {
	return size * lineSpacing * ptToMM
}

func parseHex(s string) (r, g, b int, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
