// Package gfx is a small cursor-based drawing layer on top of a
// drivers.Displayer. Text is laid out in fixed 6x8 cells scaled by an
// integer text size, the way classic GFX-style panel libraries do it, so
// layout code can reason about cursor positions in whole pixels.
package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	// Character cell at text size 1
	CellWidth  = 6
	CellHeight = 8

	// Glyph baseline row inside the cell, digits fill rows 0-6
	baseline = 6
)

var (
	Black = color.RGBA{0, 0, 0, 255}
	White = color.RGBA{255, 255, 255, 255}
)

// RGB444 expands a 4-bit-per-channel colour to RGBA.
// Channels above 15 are clamped.
func RGB444(r, g, b uint8) color.RGBA {
	return color.RGBA{expand4(r), expand4(g), expand4(b), 255}
}

func expand4(v uint8) uint8 {
	if v > 15 {
		v = 15
	}
	return v * 17
}

// Canvas tracks a text cursor and draws clipped primitives and text onto a
// display. It is not safe for concurrent use.
type Canvas struct {
	display drivers.Displayer
	width   int16
	height  int16

	font      tinyfont.Fonter
	cursorX   int16
	cursorY   int16
	textSize  int16
	textColor color.RGBA
	wrap      bool
}

var _ drivers.Displayer = (*Canvas)(nil)

// New wraps d. Text starts at size 1 in white with wrapping on.
func New(d drivers.Displayer) *Canvas {
	w, h := d.Size()
	return &Canvas{
		display:   d,
		width:     w,
		height:    h,
		font:      &proggy.TinySZ8pt7b,
		textSize:  1,
		textColor: White,
		wrap:      true,
	}
}

// SetFont replaces the glyph source. Cell metrics stay fixed.
func (c *Canvas) SetFont(f tinyfont.Fonter) {
	c.font = f
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (x, y int16) {
	return c.width, c.height
}

// SetPixel sets a single pixel, ignoring anything outside the canvas.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.display.SetPixel(x, y, col)
}

// Display flushes the frame to the underlying display.
func (c *Canvas) Display() error {
	return c.display.Display()
}

// Cursor returns the current text cursor.
func (c *Canvas) Cursor() (x, y int16) {
	return c.cursorX, c.cursorY
}

func (c *Canvas) SetCursor(x, y int16) {
	c.cursorX = x
	c.cursorY = y
}

// SetTextSize sets the integer glyph scale. Values below 1 become 1.
func (c *Canvas) SetTextSize(size int16) {
	if size < 1 {
		size = 1
	}
	c.textSize = size
}

func (c *Canvas) TextSize() int16 {
	return c.textSize
}

func (c *Canvas) SetTextColor(col color.RGBA) {
	c.textColor = col
}

func (c *Canvas) TextColor() color.RGBA {
	return c.textColor
}

// SetTextWrap controls whether text that would run past the right edge
// continues on the next line.
func (c *Canvas) SetTextWrap(wrap bool) {
	c.wrap = wrap
}

func (c *Canvas) TextWrap() bool {
	return c.wrap
}

// FillScreen paints every pixel.
func (c *Canvas) FillScreen(col color.RGBA) {
	for y := int16(0); y < c.height; y++ {
		for x := int16(0); x < c.width; x++ {
			c.display.SetPixel(x, y, col)
		}
	}
}

// Clear paints the canvas black. The cursor is left alone.
func (c *Canvas) Clear() {
	c.FillScreen(Black)
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 int16, col color.RGBA) {
	tinydraw.Line(c, x0, y0, x1, y1, col)
}

// DrawRect strokes a w x h rectangle. Empty rectangles draw nothing.
func (c *Canvas) DrawRect(x, y, w, h int16, col color.RGBA) {
	if w < 1 || h < 1 {
		return
	}
	tinydraw.Rectangle(c, x, y, w, h, col)
}

// FillRect fills a w x h rectangle. Empty rectangles draw nothing.
func (c *Canvas) FillRect(x, y, w, h int16, col color.RGBA) {
	if w < 1 || h < 1 {
		return
	}
	tinydraw.FilledRectangle(c, x, y, w, h, col)
}

func (c *Canvas) DrawCircle(x0, y0, r int16, col color.RGBA) {
	tinydraw.Circle(c, x0, y0, r, col)
}

func (c *Canvas) FillCircle(x0, y0, r int16, col color.RGBA) {
	tinydraw.FilledCircle(c, x0, y0, r, col)
}
