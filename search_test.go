package gridlock

import (
	"errors"
	"testing"
)

func TestSearchFindsFirstMatch(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 3, 3, 2)
	if err := g.Set(1, 1, "X"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cell, ok := g.Search("X")
	if !ok {
		t.Fatal("expected to find X")
	}
	if cell.Row != 1 || cell.Col != 1 {
		t.Fatalf("expected (1,1), got (%d,%d)", cell.Row, cell.Col)
	}
	if _, ok := g.Search("Y"); ok {
		t.Fatal("expected Y to be absent")
	}
}

func TestSearchIsCaseSensitive(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 2, 2, 2)
	if err := g.Set(0, 0, "Value"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := g.Search("value"); ok {
		t.Fatal("search must not fold case")
	}
}

func TestSearchRowAndCol(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 4, 4, 3)
	if err := g.Set(2, 3, "needle"); err != nil {
		t.Fatalf("set: %v", err)
	}

	col, err := g.SearchRow(2, "needle")
	if err != nil {
		t.Fatalf("search row: %v", err)
	}
	if col != 3 {
		t.Fatalf("expected col 3, got %d", col)
	}
	col, err = g.SearchRow(0, "needle")
	if err != nil {
		t.Fatalf("search row: %v", err)
	}
	if col != -1 {
		t.Fatalf("expected -1 for missing value, got %d", col)
	}

	row, err := g.SearchCol(3, "needle")
	if err != nil {
		t.Fatalf("search col: %v", err)
	}
	if row != 2 {
		t.Fatalf("expected row 2, got %d", row)
	}
	row, err = g.SearchCol(0, "needle")
	if err != nil {
		t.Fatalf("search col: %v", err)
	}
	if row != -1 {
		t.Fatalf("expected -1 for missing value, got %d", row)
	}
}

func TestSearchRowOutOfRange(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 3, 3, 2)
	if _, err := g.SearchRow(3, "v"); err == nil {
		t.Fatal("expected out-of-range error for row 3")
	}
	var oor *OutOfRangeError
	_, err := g.SearchCol(-1, "v")
	if !errors.As(err, &oor) {
		t.Fatalf("expected *OutOfRangeError, got %T: %v", err, err)
	}
	if oor.Op != "search_col" {
		t.Fatalf("expected op search_col, got %q", oor.Op)
	}
}

func TestSearchRange(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 5, 5, 3)
	if err := g.Set(1, 1, "hit"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := g.Set(4, 4, "hit"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cell, ok, err := g.SearchRange(0, 0, 2, 2, "hit")
	if err != nil {
		t.Fatalf("search range: %v", err)
	}
	if !ok || cell.Row != 1 || cell.Col != 1 {
		t.Fatalf("expected hit at (1,1), got ok=%v (%d,%d)", ok, cell.Row, cell.Col)
	}

	// (4,4) is outside the swept rectangle.
	_, ok, err = g.SearchRange(2, 2, 3, 3, "hit")
	if err != nil {
		t.Fatalf("search range: %v", err)
	}
	if ok {
		t.Fatal("expected no hit in 2..3 x 2..3")
	}
}

func TestSearchRangeValidation(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 3, 3, 2)
	if _, _, err := g.SearchRange(0, 0, 3, 2, "v"); err == nil {
		t.Fatal("expected error for r2 out of bounds")
	}
	if _, _, err := g.SearchRange(-1, 0, 2, 2, "v"); err == nil {
		t.Fatal("expected error for negative r1")
	}
	if _, _, err := g.SearchRange(2, 0, 1, 2, "v"); err == nil {
		t.Fatal("expected error for inverted row range")
	}
	if _, _, err := g.SearchRange(0, 2, 2, 1, "v"); err == nil {
		t.Fatal("expected error for inverted col range")
	}
}

func TestFindAllCaseModes(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 3, 3, 2)
	for _, cell := range []struct {
		r, c int
		v    string
	}{
		{0, 0, "abc"}, {0, 2, "ABC"}, {1, 1, "aBc"}, {2, 2, "other"},
	} {
		if err := g.Set(cell.r, cell.c, cell.v); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	insensitive := g.FindAll("abc", false)
	if len(insensitive) != 3 {
		t.Fatalf("expected 3 case-insensitive matches, got %d: %v",
			len(insensitive), insensitive)
	}
	sensitive := g.FindAll("abc", true)
	if len(sensitive) != 1 || sensitive[0] != (Cell{Row: 0, Col: 0}) {
		t.Fatalf("expected exactly (0,0) for case-sensitive match, got %v", sensitive)
	}
}

func TestFindAllEmptyMatchesAbsentCells(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 2, 2, 2)
	if err := g.Set(0, 0, "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	found := g.FindAll("", true)
	if len(found) != 3 {
		t.Fatalf("expected 3 absent cells, got %d: %v", len(found), found)
	}
}
