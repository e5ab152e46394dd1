package gridlock

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Save writes the whole grid to path in the tab-separated text format. It
// takes the structural gate and then drains the entire lock pool, so no cell
// anywhere can be read or written while the grid is serialized. The file is
// written to a temporary sibling and renamed into place.
//
// Format: line 1 is "<rows>\t<cols>"; each following line is one row of
// tab-separated cell values, with literal tabs inside a value escaped as the
// two characters backslash and 't'.
func (g *Grid) Save(path string) error {
	defer g.metrics.observe("save", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	release := g.pool.AcquireAll()
	defer release()

	st := g.cur.Load()
	g.logger.Info("grid.save.begin",
		"path", path,
		"rows", st.rows,
		"cols", st.cols,
	)
	data := encode(st)
	if err := writeFileAtomic(path, data); err != nil {
		g.logger.Error("grid.save.failure", "path", path, "error", err)
		return fmt.Errorf("save %s: %w", path, err)
	}
	g.logger.Info("grid.save.complete", "path", path, "bytes", len(data))
	return nil
}

// Load replaces the grid's dimensions and contents with the data at path,
// under the structural gate and a full pool drain. The cell-to-lock map is
// rebuilt round-robin over the pool. Decoding and validation complete before
// any grid state changes: a malformed source fails the load and leaves the
// existing grid untouched.
//
// A source with fewer data lines than its header's row count, or fewer
// tab-fields in a line than its column count, is padded with empty values
// rather than rejected.
func (g *Grid) Load(path string) error {
	defer g.metrics.observe("load", time.Now())
	g.gate.Lock()
	defer g.gate.Unlock()
	release := g.pool.AcquireAll()
	defer release()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	next, err := decode(data, g.pool.Size())
	if err != nil {
		g.logger.Error("grid.load.failure", "path", path, "error", err)
		return fmt.Errorf("load %s: %w", path, err)
	}
	g.cur.Store(next)
	g.logger.Info("grid.load.complete",
		"path", path,
		"rows", next.rows,
		"cols", next.cols,
	)
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".gridlock-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func encode(st *state) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\t%d\n", st.rows, st.cols)
	for r := 0; r < st.rows; r++ {
		for c := 0; c < st.cols; c++ {
			if c > 0 {
				buf.WriteByte('\t')
			}
			buf.WriteString(escapeTabs(st.cells[r][c]))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// decode parses data into a fresh state with a round-robin lock assignment
// over a pool of `users` locks. It never mutates shared state; callers swap
// the result in only on success.
func decode(data []byte, users int) (*state, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty source", ErrMalformed)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	header := strings.Split(lines[0], "\t")
	if len(header) != 2 {
		return nil, fmt.Errorf("%w: header %q", ErrMalformed, lines[0])
	}
	rows, err := strconv.Atoi(strings.TrimSpace(header[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: row count %q", ErrMalformed, header[0])
	}
	cols, err := strconv.Atoi(strings.TrimSpace(header[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: col count %q", ErrMalformed, header[1])
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrMalformed, rows, cols)
	}

	st := newState(rows, cols)
	for r := 0; r < rows && r+1 < len(lines); r++ {
		fields := strings.Split(lines[r+1], "\t")
		for c := 0; c < cols && c < len(fields); c++ {
			st.cells[r][c] = unescapeTabs(fields[c])
		}
	}
	flat := make([]int, rows*cols)
	for i := range flat {
		flat[i] = i % users
	}
	st.fillAssign(flat)
	return st, nil
}

func escapeTabs(v string) string {
	return strings.ReplaceAll(v, "\t", `\t`)
}

func unescapeTabs(v string) string {
	return strings.ReplaceAll(v, `\t`, "\t")
}
