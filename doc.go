// Package gridlock implements an in-memory, mutable two-dimensional grid of
// text cells that many goroutines can share safely. Unrelated cells can be
// read and written in parallel; multi-cell transformations and structural
// changes are serialized without ever deadlocking.
//
// # Locking model
//
// Cells are not locked individually. A fixed pool of mutexes, sized by the
// expected concurrency (the Users parameter) and independent of grid
// dimensions, guards the whole grid: every cell maps to exactly one pool
// member, many cells share one, and each lock carries a stable ordinal
// assigned at pool creation. Operations that span multiple cells resolve the
// deduplicated set of locks guarding them and acquire it in ascending ordinal
// order, which rules out wait cycles between concurrent callers.
//
// A single structural gate serializes multi-cell scans, bulk rewrites,
// row/column insertion, and persistence against each other. Get and Set
// deliberately bypass the gate and take only the one lock guarding their
// cell, so single-cell traffic stays maximally parallel. The price is that a
// scan observes last-writer-wins per cell rather than one consistent snapshot
// of the swept region.
//
// # Usage
//
//	g, err := gridlock.New(8, 8, 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := g.Set(1, 1, "X"); err != nil {
//	    log.Fatal(err)
//	}
//	if cell, ok := g.Search("X"); ok {
//	    fmt.Println(cell.Row, cell.Col)
//	}
//	if err := g.Save("/tmp/sheet.grid"); err != nil {
//	    log.Fatal(err)
//	}
//
// Save and Load drain the entire lock pool first, so no cell anywhere is read
// or written concurrently with persistence.
//
// There are no transactions, no undo, and no timeouts: lock acquisition
// blocks until the holder releases. A caller that never releases stalls all
// contenders for that lock.
package gridlock
