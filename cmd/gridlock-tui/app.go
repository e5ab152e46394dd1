package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"pkt.systems/gridlock"
)

const (
	cellWidth = 12
	gutter    = 5 // row-number column
)

// promptKind selects what the prompt line's input is for.
type promptKind int

const (
	promptNone promptKind = iota
	promptEdit
	promptSearch
	promptSave
	promptLoad
)

type app struct {
	grid   *gridlock.Grid
	screen tcell.Screen
	path   string

	row, col  int // cursor
	top, left int // scroll origin

	prompt promptKind
	input  []rune
	status string
}

func newApp(grid *gridlock.Grid, path string) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &app{
		grid:   grid,
		screen: screen,
		path:   path,
		status: "enter: edit  /: search  r/c: add row/col  x/y: swap  s: save  o: load  q: quit",
	}, nil
}

func (a *app) run() error {
	if err := a.screen.Init(); err != nil {
		return err
	}
	defer a.screen.Fini()

	for {
		a.draw()
		switch ev := a.screen.PollEvent().(type) {
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if a.prompt != promptNone {
				a.handlePromptKey(ev)
				continue
			}
			if quit := a.handleKey(ev); quit {
				return nil
			}
		}
	}
}

func (a *app) handleKey(ev *tcell.EventKey) (quit bool) {
	rows, cols := a.grid.Size()
	switch ev.Key() {
	case tcell.KeyUp:
		a.moveCursor(-1, 0)
	case tcell.KeyDown:
		a.moveCursor(1, 0)
	case tcell.KeyLeft:
		a.moveCursor(0, -1)
	case tcell.KeyRight:
		a.moveCursor(0, 1)
	case tcell.KeyEnter:
		value, err := a.grid.Get(a.row, a.col)
		if err != nil {
			a.status = err.Error()
			return false
		}
		a.prompt = promptEdit
		a.input = []rune(value)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case '/':
			a.prompt = promptSearch
			a.input = nil
		case 's':
			a.prompt = promptSave
			a.input = []rune(a.path)
		case 'o':
			a.prompt = promptLoad
			a.input = []rune(a.path)
		case 'r':
			a.report("added row", a.grid.AddRow(a.row))
		case 'c':
			a.report("added column", a.grid.AddCol(a.col))
		case 'x':
			if a.row+1 < rows {
				a.report("swapped rows", a.grid.SwapRows(a.row, a.row+1))
			}
		case 'y':
			if a.col+1 < cols {
				a.report("swapped columns", a.grid.SwapCols(a.col, a.col+1))
			}
		}
	}
	return false
}

func (a *app) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.prompt = promptNone
		a.input = nil
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyEnter:
		kind := a.prompt
		text := string(a.input)
		a.prompt = promptNone
		a.input = nil
		a.commitPrompt(kind, text)
	case tcell.KeyRune:
		a.input = append(a.input, ev.Rune())
	}
}

func (a *app) commitPrompt(kind promptKind, text string) {
	switch kind {
	case promptEdit:
		a.report("cell updated", a.grid.Set(a.row, a.col, text))
	case promptSearch:
		if cell, ok := a.grid.Search(text); ok {
			a.row, a.col = cell.Row, cell.Col
			a.status = fmt.Sprintf("found %q at (%d,%d)", text, cell.Row, cell.Col)
		} else {
			a.status = fmt.Sprintf("%q not found", text)
		}
	case promptSave:
		if text == "" {
			a.status = "save: no path"
			return
		}
		if err := a.grid.Save(text); err != nil {
			a.status = err.Error()
			return
		}
		a.path = text
		a.status = "saved " + text
	case promptLoad:
		if text == "" {
			a.status = "load: no path"
			return
		}
		if err := a.grid.Load(text); err != nil {
			a.status = err.Error()
			return
		}
		a.path = text
		a.row, a.col, a.top, a.left = 0, 0, 0, 0
		a.status = "loaded " + text
	}
}

func (a *app) report(ok string, err error) {
	if err != nil {
		a.status = err.Error()
		return
	}
	a.status = ok
}

func (a *app) moveCursor(dr, dc int) {
	rows, cols := a.grid.Size()
	a.row = clamp(a.row+dr, 0, rows-1)
	a.col = clamp(a.col+dc, 0, cols-1)

	width, height := a.screen.Size()
	visCols := max((width-gutter)/cellWidth, 1)
	visRows := max(height-3, 1) // title, column header, prompt line
	if a.row < a.top {
		a.top = a.row
	}
	if a.row >= a.top+visRows {
		a.top = a.row - visRows + 1
	}
	if a.col < a.left {
		a.left = a.col
	}
	if a.col >= a.left+visCols {
		a.left = a.col - visCols + 1
	}
}

func (a *app) draw() {
	a.screen.Clear()
	width, height := a.screen.Size()
	rows, cols := a.grid.Size()

	titleStyle := tcell.StyleDefault.Bold(true)
	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	cursorStyle := tcell.StyleDefault.Reverse(true)

	title := fmt.Sprintf(" %s  %dx%d  (%d,%d)", displayPath(a.path), rows, cols, a.row, a.col)
	drawString(a.screen, 0, 0, titleStyle, pad(title, width))

	visCols := max((width-gutter)/cellWidth, 1)
	visRows := max(height-3, 1)

	for vc := 0; vc < visCols && a.left+vc < cols; vc++ {
		label := fmt.Sprintf("%*d", cellWidth-1, a.left+vc)
		drawString(a.screen, gutter+vc*cellWidth, 1, headerStyle, label)
	}
	for vr := 0; vr < visRows && a.top+vr < rows; vr++ {
		r := a.top + vr
		drawString(a.screen, 0, 2+vr, headerStyle, fmt.Sprintf("%*d", gutter-1, r))
		for vc := 0; vc < visCols && a.left+vc < cols; vc++ {
			c := a.left + vc
			value, err := a.grid.Get(r, c)
			if err != nil {
				value = "?"
			}
			style := tcell.StyleDefault
			if r == a.row && c == a.col {
				style = cursorStyle
			}
			drawString(a.screen, gutter+vc*cellWidth, 2+vr, style, pad(" "+clip(value, cellWidth-2), cellWidth))
		}
	}

	bottom := height - 1
	if a.prompt != promptNone {
		drawString(a.screen, 0, bottom, titleStyle, pad(a.promptLabel()+string(a.input), width))
		a.screen.ShowCursor(len(a.promptLabel())+len(a.input), bottom)
	} else {
		a.screen.HideCursor()
		drawString(a.screen, 0, bottom, tcell.StyleDefault, pad(" "+a.status, width))
	}
	a.screen.Show()
}

func (a *app) promptLabel() string {
	switch a.prompt {
	case promptEdit:
		return fmt.Sprintf(" edit (%d,%d): ", a.row, a.col)
	case promptSearch:
		return " search: "
	case promptSave:
		return " save to: "
	case promptLoad:
		return " load from: "
	default:
		return ""
	}
}

func displayPath(path string) string {
	if path == "" {
		return "[unsaved]"
	}
	return path
}

func drawString(s tcell.Screen, x, y int, style tcell.Style, str string) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func pad(s string, width int) string {
	for len([]rune(s)) < width {
		s += " "
	}
	return s
}

func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 1 {
		return ""
	}
	return string(r[:width-1]) + "…"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
