package gridlock

import (
	"errors"
	"fmt"
)

// ErrMalformed reports persisted grid data that cannot be decoded: an empty
// source or an unparsable dimension header. Load fails without touching the
// existing grid. Use errors.Is to detect it under wrapping.
var ErrMalformed = errors.New("malformed grid data")

// OutOfRangeError reports a coordinate or index argument outside the grid's
// current bounds. Row or Col is -1 when the failing argument only names the
// other axis.
type OutOfRangeError struct {
	Op   string
	Row  int
	Col  int
	Rows int
	Cols int
}

func (e *OutOfRangeError) Error() string {
	switch {
	case e.Col < 0:
		return fmt.Sprintf("%s: row %d out of range (rows 0..%d, cols 0..%d)",
			e.Op, e.Row, e.Rows-1, e.Cols-1)
	case e.Row < 0:
		return fmt.Sprintf("%s: col %d out of range (rows 0..%d, cols 0..%d)",
			e.Op, e.Col, e.Rows-1, e.Cols-1)
	default:
		return fmt.Sprintf("%s: cell (%d,%d) out of range (rows 0..%d, cols 0..%d)",
			e.Op, e.Row, e.Col, e.Rows-1, e.Cols-1)
	}
}
