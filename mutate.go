package gridlock

import "time"

// ReplaceAll rewrites every cell whose value matches old to replacement and
// returns how many cells changed.
//
// The scan phase visits cells one lock at a time; the write phase then
// acquires the deduplicated lock set of all matched cells in ascending
// ordinal order and applies every replacement while holding it, so the write
// set is internally consistent. Matches are as of scan time: a cell changed
// by another caller between scan and write is rewritten without
// re-validation.
func (g *Grid) ReplaceAll(old, replacement string, caseSensitive bool) int {
	defer g.metrics.observe("replace_all", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()

	var targets []Cell
	var ords []int
	for r := 0; r < st.rows; r++ {
		for c := 0; c < st.cols; c++ {
			if match(g.lockedValue(st, r, c), old, caseSensitive) {
				targets = append(targets, Cell{Row: r, Col: c})
				ords = append(ords, st.assign[r][c])
			}
		}
	}
	if len(targets) == 0 {
		return 0
	}

	release := g.pool.AcquireSet(ords)
	defer release()
	for _, cell := range targets {
		st.cells[cell.Row][cell.Col] = replacement
	}
	g.logger.Debug("grid.replace_all",
		"old", old,
		"new", replacement,
		"case_sensitive", caseSensitive,
		"cells", len(targets),
	)
	return len(targets)
}

// SwapRows exchanges the contents of two rows. The swap is atomic with
// respect to other multi-cell operations (the structural gate) and to
// single-cell operations on the affected cells (the shared per-cell locks).
// Equal indices are validated and then a no-op.
func (g *Grid) SwapRows(r1, r2 int) error {
	defer g.metrics.observe("swap_rows", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	if err := st.checkRow("swap_rows", r1); err != nil {
		return err
	}
	if err := st.checkRow("swap_rows", r2); err != nil {
		return err
	}
	if r1 == r2 {
		return nil
	}

	ords := make([]int, 0, 2*st.cols)
	for c := 0; c < st.cols; c++ {
		ords = append(ords, st.assign[r1][c], st.assign[r2][c])
	}
	release := g.pool.AcquireSet(ords)
	defer release()
	for c := 0; c < st.cols; c++ {
		st.cells[r1][c], st.cells[r2][c] = st.cells[r2][c], st.cells[r1][c]
	}
	g.logger.Debug("grid.swap_rows", "r1", r1, "r2", r2)
	return nil
}

// SwapCols exchanges the contents of two columns. Same guarantees as
// SwapRows.
func (g *Grid) SwapCols(c1, c2 int) error {
	defer g.metrics.observe("swap_cols", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	if err := st.checkCol("swap_cols", c1); err != nil {
		return err
	}
	if err := st.checkCol("swap_cols", c2); err != nil {
		return err
	}
	if c1 == c2 {
		return nil
	}

	ords := make([]int, 0, 2*st.rows)
	for r := 0; r < st.rows; r++ {
		ords = append(ords, st.assign[r][c1], st.assign[r][c2])
	}
	release := g.pool.AcquireSet(ords)
	defer release()
	for r := 0; r < st.rows; r++ {
		st.cells[r][c1], st.cells[r][c2] = st.cells[r][c2], st.cells[r][c1]
	}
	g.logger.Debug("grid.swap_cols", "c1", c1, "c2", c2)
	return nil
}
