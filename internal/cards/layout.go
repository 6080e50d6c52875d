// Package cards renders recipes as printable index cards, four to a landscape
// A4 page.
package cards

// Card geometry in millimetres.
const (
	CardWidth  = 120.0
	CardHeight = 90.0
	Margin     = 5.0
	LineHeight = 4.0
	OffsetX    = 28.5
	OffsetY    = 15.0
	PerPage    = 4
)

// Filename is what the export is offered as for download.
const Filename = "rezepte-kaertchen.pdf"

// Placement is where the i-th card of an export lands.
type Placement struct {
	Page int // zero based
	Slot int // 0..3, row major
	X, Y float64
}

var slots = [PerPage][2]float64{
	{OffsetX, OffsetY},
	{OffsetX + CardWidth, OffsetY},
	{OffsetX, OffsetY + CardHeight},
	{OffsetX + CardWidth, OffsetY + CardHeight},
}

// Place maps a card index onto the fixed 2x2 grid. A new page starts at every
// multiple of PerPage.
func Place(i int) Placement {
	slot := i % PerPage
	return Placement{
		Page: i / PerPage,
		Slot: slot,
		X:    slots[slot][0],
		Y:    slots[slot][1],
	}
}

// Pages is the number of pages n cards need. An empty export is one blank page.
func Pages(n int) int {
	if n == 0 {
		return 1
	}
	return (n + PerPage - 1) / PerPage
}
