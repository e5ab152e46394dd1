package gridlock

import "testing"

func TestAddRowShiftsLaterRows(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 3, 3, 2)
	fillSequential(t, g)
	before := snapshotValues(t, g)

	if err := g.AddRow(1); err != nil {
		t.Fatalf("add row: %v", err)
	}
	rows, cols := g.Size()
	if rows != 4 || cols != 3 {
		t.Fatalf("expected size 4x3, got %dx%d", rows, cols)
	}
	for c := 0; c < cols; c++ {
		// Rows <= 1 unchanged, the new row 2 empty, old row 2 now at row 3.
		for _, probe := range []struct {
			row  int
			want string
		}{
			{0, before[0][c]},
			{1, before[1][c]},
			{2, ""},
			{3, before[2][c]},
		} {
			got, err := g.Get(probe.row, c)
			if err != nil {
				t.Fatalf("get (%d,%d): %v", probe.row, c, err)
			}
			if got != probe.want {
				t.Fatalf("cell (%d,%d): expected %q, got %q", probe.row, c, probe.want, got)
			}
		}
	}
}

func TestAddColShiftsLaterCols(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 2, 3, 2)
	fillSequential(t, g)
	before := snapshotValues(t, g)

	if err := g.AddCol(0); err != nil {
		t.Fatalf("add col: %v", err)
	}
	rows, cols := g.Size()
	if rows != 2 || cols != 4 {
		t.Fatalf("expected size 2x4, got %dx%d", rows, cols)
	}
	for r := 0; r < rows; r++ {
		for _, probe := range []struct {
			col  int
			want string
		}{
			{0, before[r][0]},
			{1, ""},
			{2, before[r][1]},
			{3, before[r][2]},
		} {
			got, err := g.Get(r, probe.col)
			if err != nil {
				t.Fatalf("get (%d,%d): %v", r, probe.col, err)
			}
			if got != probe.want {
				t.Fatalf("cell (%d,%d): expected %q, got %q", r, probe.col, probe.want, got)
			}
		}
	}
}

func TestAddRowValidatesIndex(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 3, 3, 2)
	if err := g.AddRow(3); err == nil {
		t.Fatal("expected error for after=3 on 3 rows")
	}
	if err := g.AddRow(-1); err == nil {
		t.Fatal("expected error for after=-1")
	}
	if err := g.AddCol(7); err == nil {
		t.Fatal("expected error for after=7 on 3 cols")
	}
}

func TestGrowthKeepsEveryCellAssigned(t *testing.T) {
	t.Parallel()

	g, err := New(2, 2, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := g.AddRow(0); err != nil {
			t.Fatalf("add row %d: %v", i, err)
		}
		if err := g.AddCol(0); err != nil {
			t.Fatalf("add col %d: %v", i, err)
		}
	}
	st := g.cur.Load()
	if st.rows != 6 || st.cols != 6 {
		t.Fatalf("expected 6x6 after growth, got %dx%d", st.rows, st.cols)
	}
	for r := 0; r < st.rows; r++ {
		for c := 0; c < st.cols; c++ {
			ord := st.assign[r][c]
			if ord < 0 || ord >= g.pool.Size() {
				t.Fatalf("cell (%d,%d) assigned ordinal %d outside pool", r, c, ord)
			}
		}
	}
}

func TestGrowthAfterLastIndex(t *testing.T) {
	t.Parallel()

	g := newTestGrid(t, 2, 2, 2)
	if err := g.Set(1, 1, "end"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := g.AddRow(1); err != nil {
		t.Fatalf("add row after last: %v", err)
	}
	got, err := g.Get(1, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "end" {
		t.Fatalf("expected value to stay at (1,1), got %q", got)
	}
	if v, err := g.Get(2, 0); err != nil || v != "" {
		t.Fatalf("expected empty appended row, got %q err=%v", v, err)
	}
}
