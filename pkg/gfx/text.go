package gfx

import (
	"image/color"

	"tinygo.org/x/tinyfont"
)

// Print writes s at the cursor using the current text size and colour.
func (c *Canvas) Print(s string) {
	for _, r := range s {
		c.WriteRune(r)
	}
}

// WriteByte writes a single ASCII character. It never fails.
func (c *Canvas) WriteByte(b byte) error {
	c.WriteRune(rune(b))
	return nil
}

// WriteRune writes one character and advances the cursor by one cell.
// '\n' starts a new line at x=0 and '\r' is ignored.
func (c *Canvas) WriteRune(r rune) {
	cellW := CellWidth * c.textSize
	cellH := CellHeight * c.textSize

	switch r {
	case '\n':
		c.cursorX = 0
		c.cursorY += cellH
	case '\r':
	default:
		if c.wrap && c.cursorX+cellW > c.width {
			c.cursorX = 0
			c.cursorY += cellH
		}
		c.drawChar(c.cursorX, c.cursorY, r, c.textColor, c.textSize)
		c.cursorX += cellW
	}
}

// drawChar renders one glyph with its cell's top-left corner at x, y.
func (c *Canvas) drawChar(x, y int16, r rune, col color.RGBA, size int16) {
	if x >= c.width || y >= c.height || x+CellWidth*size <= 0 || y+CellHeight*size <= 0 {
		return
	}
	cell := scaledCell{canvas: c, x: x, y: y, size: size}
	tinyfont.DrawChar(cell, c.font, 0, baseline, r, col)
}

// scaledCell maps glyph pixels onto size x size blocks of the canvas.
type scaledCell struct {
	canvas *Canvas
	x, y   int16
	size   int16
}

func (s scaledCell) Size() (x, y int16) {
	return s.canvas.width, s.canvas.height
}

func (s scaledCell) SetPixel(x, y int16, col color.RGBA) {
	px := s.x + x*s.size
	py := s.y + y*s.size
	if s.size == 1 {
		s.canvas.SetPixel(px, py, col)
		return
	}
	s.canvas.FillRect(px, py, s.size, s.size, col)
}

func (s scaledCell) Display() error {
	return nil
}
