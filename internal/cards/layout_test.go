package cards

import "testing"

func TestPlace(t *testing.T) {
	tests := []struct {
		i    int
		want Placement
	}{
		{0, Placement{Page: 0, Slot: 0, X: 28.5, Y: 15}},
		{1, Placement{Page: 0, Slot: 1, X: 148.5, Y: 15}},
		{2, Placement{Page: 0, Slot: 2, X: 28.5, Y: 105}},
		{3, Placement{Page: 0, Slot: 3, X: 148.5, Y: 105}},
		{4, Placement{Page: 1, Slot: 0, X: 28.5, Y: 15}},
		{9, Placement{Page: 2, Slot: 1, X: 148.5, Y: 15}},
	}
	for _, tt := range tests {
		if got := Place(tt.i); got != tt.want {
			t.Errorf("Place(%d) = %+v, want %+v", tt.i, got, tt.want)
		}
	}
}

func TestPages(t *testing.T) {
	for n, want := range map[int]int{0: 1, 1: 1, 4: 1, 5: 2, 8: 2, 9: 3} {
		if got := Pages(n); got != want {
			t.Errorf("Pages(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestGridFitsLandscapeA4(t *testing.T) {
	last := Place(PerPage - 1)
	if right := last.X + CardWidth; right > 297 {
		t.Fatalf("grid ends at x=%v, wider than the page", right)
	}
	if bottom := last.Y + CardHeight; bottom > 210 {
		t.Fatalf("grid ends at y=%v, taller than the page", bottom)
	}
}
