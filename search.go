package gridlock

import (
	"fmt"
	"strings"
	"time"
)

// match reports whether a stored value equals want. The empty string marks an
// absent cell, so absent values compare equal only to each other in either
// mode.
func match(got, want string, caseSensitive bool) bool {
	if caseSensitive {
		return got == want
	}
	return strings.EqualFold(got, want)
}

// Search scans the whole grid in row-major order for the first cell whose
// value exactly equals value. The scan runs under the structural gate but
// visits cells one lock at a time, so a concurrent Set can land between
// visits; the result is last-writer-wins per cell, not a snapshot.
func (g *Grid) Search(value string) (Cell, bool) {
	defer g.metrics.observe("search", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	for r := 0; r < st.rows; r++ {
		for c := 0; c < st.cols; c++ {
			if match(g.lockedValue(st, r, c), value, true) {
				return Cell{Row: r, Col: c}, true
			}
		}
	}
	return Cell{}, false
}

// SearchRow scans one row for value and returns the first matching column,
// or -1 when no cell in the row matches.
func (g *Grid) SearchRow(row int, value string) (int, error) {
	defer g.metrics.observe("search_row", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	if err := st.checkRow("search_row", row); err != nil {
		return -1, err
	}
	for c := 0; c < st.cols; c++ {
		if match(g.lockedValue(st, row, c), value, true) {
			return c, nil
		}
	}
	return -1, nil
}

// SearchCol scans one column for value and returns the first matching row,
// or -1 when no cell in the column matches.
func (g *Grid) SearchCol(col int, value string) (int, error) {
	defer g.metrics.observe("search_col", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	if err := st.checkCol("search_col", col); err != nil {
		return -1, err
	}
	for r := 0; r < st.rows; r++ {
		if match(g.lockedValue(st, r, col), value, true) {
			return r, nil
		}
	}
	return -1, nil
}

// SearchRange scans the inclusive rectangle (r1,c1)..(r2,c2) in row-major
// order for the first cell whose value exactly equals value. Both corners
// must be in bounds and the range must not be inverted.
func (g *Grid) SearchRange(r1, c1, r2, c2 int, value string) (Cell, bool, error) {
	defer g.metrics.observe("search_range", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	if err := st.checkCell("search_range", r1, c1); err != nil {
		return Cell{}, false, err
	}
	if err := st.checkCell("search_range", r2, c2); err != nil {
		return Cell{}, false, err
	}
	if r1 > r2 || c1 > c2 {
		return Cell{}, false, fmt.Errorf(
			"search_range: inverted range (%d,%d)..(%d,%d)", r1, c1, r2, c2)
	}
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			if match(g.lockedValue(st, r, c), value, true) {
				return Cell{Row: r, Col: c}, true, nil
			}
		}
	}
	return Cell{}, false, nil
}

// FindAll returns every cell whose value matches value, in row-major order.
// With caseSensitive false, comparison folds case, so a query matches its own
// value under different casing.
func (g *Grid) FindAll(value string, caseSensitive bool) []Cell {
	defer g.metrics.observe("find_all", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	var found []Cell
	for r := 0; r < st.rows; r++ {
		for c := 0; c < st.cols; c++ {
			if match(g.lockedValue(st, r, c), value, caseSensitive) {
				found = append(found, Cell{Row: r, Col: c})
			}
		}
	}
	return found
}
