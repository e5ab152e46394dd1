package gridlock

import "time"

// AddRow grows the grid by one row inserted directly after row `after`.
// Existing values keep their contents; rows beyond `after` shift down by one
// and their lock assignments shift with them. The new row's cells are
// assigned pool locks by the configured placement.
//
// The operation runs under the structural gate and additionally holds a
// best-effort guard: the locks of the first min(users, rows*cols) cells in
// row-major order, acquired through the ordered protocol. The guard is capped
// at pool size, so cells outside it are not covered while the backing state
// is rebuilt; a single-cell write started against the previous state in that
// window can be lost. See the grid snapshot notes on type state.
func (g *Grid) AddRow(after int) error {
	defer g.metrics.observe("add_row", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	if err := st.checkRow("add_row", after); err != nil {
		return err
	}

	release := g.pool.AcquireSet(st.guardOrdinals(g.pool.Size()))
	defer release()

	next := newState(st.rows+1, st.cols)
	for r := 0; r < st.rows; r++ {
		dst := r
		if r > after {
			dst = r + 1
		}
		copy(next.cells[dst], st.cells[r])
		copy(next.assign[dst], st.assign[r])
	}
	for c := 0; c < st.cols; c++ {
		next.assign[after+1][c] = g.place.Pick(g.pool.Size())
	}
	g.cur.Store(next)
	g.logger.Info("grid.add_row",
		"after", after,
		"rows", next.rows,
		"cols", next.cols,
	)
	return nil
}

// AddCol grows the grid by one column inserted directly after column
// `after`. Same discipline and caveats as AddRow.
func (g *Grid) AddCol(after int) error {
	defer g.metrics.observe("add_col", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	st := g.cur.Load()
	if err := st.checkCol("add_col", after); err != nil {
		return err
	}

	release := g.pool.AcquireSet(st.guardOrdinals(g.pool.Size()))
	defer release()

	next := newState(st.rows, st.cols+1)
	for r := 0; r < st.rows; r++ {
		for c := 0; c < st.cols; c++ {
			dst := c
			if c > after {
				dst = c + 1
			}
			next.cells[r][dst] = st.cells[r][c]
			next.assign[r][dst] = st.assign[r][c]
		}
		next.assign[r][after+1] = g.place.Pick(g.pool.Size())
	}
	g.cur.Store(next)
	g.logger.Info("grid.add_col",
		"after", after,
		"rows", next.rows,
		"cols", next.cols,
	)
	return nil
}

// guardOrdinals returns the lock ordinals of the first limit cells in
// row-major order, the bounded resize guard. With limit equal to pool size
// the result can never exceed the pool, but it also does not necessarily
// cover every cell's lock.
func (s *state) guardOrdinals(limit int) []int {
	n := s.rows * s.cols
	if limit < n {
		n = limit
	}
	ords := make([]int, 0, n)
	for i := 0; i < n; i++ {
		ords = append(ords, s.assign[i/s.cols][i%s.cols])
	}
	return ords
}
