package dashboard

import (
	"strings"
	"unicode"
)

const hlineRune = '─'

type cell struct {
	r rune
	a attr
}

// canvas is a fixed grid of cells addressed by row and column, the way a
// curses window is. Writes outside the grid are clipped.
type canvas struct {
	width  int
	height int
	cells  [][]cell
}

func newCanvas(width, height int) *canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &canvas{width: width, height: height, cells: make([][]cell, height)}
	for row := range c.cells {
		c.cells[row] = make([]cell, width)
		for col := range c.cells[row] {
			c.cells[row][col] = cell{r: ' '}
		}
	}
	return c
}

// put writes s starting at (row, col). Control characters become spaces so
// every rune occupies exactly one cell.
func (c *canvas) put(row, col int, s string, a attr) {
	if row < 0 || row >= c.height {
		return
	}
	for _, r := range s {
		if col >= c.width {
			return
		}
		if unicode.IsControl(r) {
			r = ' '
		}
		if col >= 0 {
			c.cells[row][col] = cell{r: r, a: a}
		}
		col++
	}
}

// hline draws a horizontal rule of n cells.
func (c *canvas) hline(row, col, n int) {
	if n <= 0 {
		return
	}
	c.put(row, col, strings.Repeat(string(hlineRune), n), plain)
}

// String renders the grid. Runs of equally styled cells are rendered
// together and trailing unstyled blanks are dropped.
func (c *canvas) String() string {
	lines := make([]string, c.height)
	for row, cells := range c.cells {
		end := len(cells)
		for end > 0 && cells[end-1].r == ' ' && cells[end-1].a == plain {
			end--
		}

		var b strings.Builder
		var run []rune
		runAttr := plain
		flush := func() {
			if len(run) == 0 {
				return
			}
			if style, ok := runAttr.style(); ok {
				b.WriteString(style.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			run = run[:0]
		}
		for _, cl := range cells[:end] {
			if cl.a != runAttr {
				flush()
				runAttr = cl.a
			}
			run = append(run, cl.r)
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// text returns the unstyled contents of a row, for tests and logging.
func (c *canvas) text(row int) string {
	if row < 0 || row >= c.height {
		return ""
	}
	rs := make([]rune, len(c.cells[row]))
	for i, cl := range c.cells[row] {
		rs[i] = cl.r
	}
	return strings.TrimRight(string(rs), " ")
}
