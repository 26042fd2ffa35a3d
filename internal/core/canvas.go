package core

import "strings"

// Canvas is a fixed-size rune buffer, stored row-major. Views draw into it
// and print it with String.
type Canvas struct {
	w, h  int
	cells []rune
}

// NewCanvas creates a blank canvas.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{w: w, h: h, cells: make([]rune, w*h)}
	for i := range c.cells {
		c.cells[i] = ' '
	}
	return c
}

// Bounds returns the canvas area.
func (c *Canvas) Bounds() Rect {
	return NewRect(0, 0, c.w, c.h)
}

// Set places a rune. Out-of-bounds writes are dropped.
func (c *Canvas) Set(x, y int, r rune) {
	if !c.Bounds().Contains(x, y) {
		return
	}
	c.cells[y*c.w+x] = r
}

// At returns the rune at (x, y), or a space off the canvas.
func (c *Canvas) At(x, y int) rune {
	if !c.Bounds().Contains(x, y) {
		return ' '
	}
	return c.cells[y*c.w+x]
}

// Text writes s left to right from (x, y), clipped at the edge.
// Returns the column after the last rune.
func (c *Canvas) Text(x, y int, s string) int {
	for _, r := range s {
		c.Set(x, y, r)
		x++
	}
	return x
}

// Frame outlines r with box-drawing runes and writes title into the top edge.
func (c *Canvas) Frame(r Rect, title string) {
	if r.W < 2 || r.H < 2 {
		return
	}
	right, bottom := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < right; x++ {
		c.Set(x, r.Y, '─')
		c.Set(x, bottom, '─')
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.Set(r.X, y, '│')
		c.Set(right, y, '│')
	}
	c.Set(r.X, r.Y, '┌')
	c.Set(right, r.Y, '┐')
	c.Set(r.X, bottom, '└')
	c.Set(right, bottom, '┘')

	if title != "" && r.W > 4 {
		title = " " + title + " "
		if n := []rune(title); len(n) > r.W-2 {
			title = string(n[:r.W-2])
		}
		c.Text(r.X+1, r.Y, title)
	}
}

// String joins the rows with newlines, trimming trailing spaces.
func (c *Canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.TrimRight(string(c.cells[y*c.w:(y+1)*c.w]), " "))
	}
	return sb.String()
}
