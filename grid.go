package gridlock

import (
	"sync"
	"sync/atomic"
	"time"

	"pkt.systems/gridlock/internal/lockpool"
	"pkt.systems/pslog"
)

// Cell identifies one addressable slot in the grid.
type Cell struct {
	Row int
	Col int
}

// state is one snapshot of the grid's shape: the backing cell values and the
// cell-to-lock assignment. Its dimensions never change; growth and load build
// a fresh state and swap the Grid's pointer under the structural gate. Cell
// values inside a state mutate only while the assigned pool lock is held.
type state struct {
	rows   int
	cols   int
	cells  [][]string
	assign [][]int
}

// Grid is a shared, mutable rows×cols grid of text values ("" means absent).
// All methods are safe for concurrent use. See the package documentation for
// the locking model.
type Grid struct {
	gate    sync.Mutex
	pool    *lockpool.Pool
	place   lockpool.Placement
	logger  pslog.Logger
	metrics *gridMetrics

	cur atomic.Pointer[state]
}

// New constructs a rows×cols grid guarded by a pool of users locks.
func New(rows, cols, users int) (*Grid, error) {
	return NewWithConfig(Config{Rows: rows, Cols: cols, Users: users})
}

// NewWithConfig constructs a Grid wired according to cfg.
func NewWithConfig(cfg Config) (*Grid, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	pool, err := lockpool.New(cfg.Users)
	if err != nil {
		return nil, err
	}
	place := cfg.Placement
	if place == nil {
		place = lockpool.Random{}
	}
	logger := ensureLogger(cfg.Logger)
	g := &Grid{
		pool:    pool,
		place:   place,
		logger:  logger,
		metrics: newGridMetrics(logger),
	}
	st := newState(cfg.Rows, cfg.Cols)
	st.fillAssign(place.Distribute(cfg.Rows*cfg.Cols, pool.Size()))
	g.cur.Store(st)
	logger.Debug("grid.new",
		"rows", cfg.Rows,
		"cols", cfg.Cols,
		"users", cfg.Users,
	)
	return g, nil
}

func newState(rows, cols int) *state {
	cells := make([][]string, rows)
	assign := make([][]int, rows)
	for r := range cells {
		cells[r] = make([]string, cols)
		assign[r] = make([]int, cols)
	}
	return &state{rows: rows, cols: cols, cells: cells, assign: assign}
}

// fillAssign copies a flat row-major ordinal assignment into the matrix.
// len(flat) must equal rows*cols, keeping every coordinate assigned before
// the state becomes observable.
func (s *state) fillAssign(flat []int) {
	i := 0
	for r := range s.assign {
		for c := range s.assign[r] {
			s.assign[r][c] = flat[i]
			i++
		}
	}
}

func (s *state) checkCell(op string, r, c int) error {
	if r < 0 || r >= s.rows || c < 0 || c >= s.cols {
		return &OutOfRangeError{Op: op, Row: r, Col: c, Rows: s.rows, Cols: s.cols}
	}
	return nil
}

func (s *state) checkRow(op string, r int) error {
	if r < 0 || r >= s.rows {
		return &OutOfRangeError{Op: op, Row: r, Col: -1, Rows: s.rows, Cols: s.cols}
	}
	return nil
}

func (s *state) checkCol(op string, c int) error {
	if c < 0 || c >= s.cols {
		return &OutOfRangeError{Op: op, Row: -1, Col: c, Rows: s.rows, Cols: s.cols}
	}
	return nil
}

// Size reports the current dimensions. Growth operations may change the
// result between calls, but dimensions only ever increase.
func (g *Grid) Size() (rows, cols int) {
	st := g.cur.Load()
	return st.rows, st.cols
}

// Get returns the value stored at (r, c), holding only that cell's lock. It
// does not take the structural gate: single-cell reads stay parallel even
// while a structural operation is in flight.
func (g *Grid) Get(r, c int) (string, error) {
	defer g.metrics.observe("get", time.Now())
	st := g.cur.Load()
	if err := st.checkCell("get", r, c); err != nil {
		return "", err
	}
	ord := st.assign[r][c]
	g.pool.Lock(ord)
	v := st.cells[r][c]
	g.pool.Unlock(ord)
	return v, nil
}

// Set stores value at (r, c), holding only that cell's lock.
func (g *Grid) Set(r, c int, value string) error {
	defer g.metrics.observe("set", time.Now())
	st := g.cur.Load()
	if err := st.checkCell("set", r, c); err != nil {
		return err
	}
	ord := st.assign[r][c]
	g.pool.Lock(ord)
	st.cells[r][c] = value
	g.pool.Unlock(ord)
	return nil
}

// lockedValue reads one cell of st under its assigned lock. Scans use it to
// visit cells one lock at a time; holding at most one cell lock keeps scans
// from ever deadlocking against ordered multi-acquires.
func (g *Grid) lockedValue(st *state, r, c int) string {
	ord := st.assign[r][c]
	g.pool.Lock(ord)
	v := st.cells[r][c]
	g.pool.Unlock(ord)
	return v
}
