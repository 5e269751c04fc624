package gfx

import "image/color"

// Quarter selectors for cornerArc
const (
	cornerTopLeft     = 1
	cornerTopRight    = 2
	cornerBottomRight = 4
	cornerBottomLeft  = 8
)

// DrawRoundRect strokes a w x h rectangle whose corners are rounded with
// radius r. The radius is capped at half the shorter side.
func (c *Canvas) DrawRoundRect(x, y, w, h, r int16, col color.RGBA) {
	if w < 1 || h < 1 {
		return
	}
	maxR := w
	if h < maxR {
		maxR = h
	}
	maxR /= 2
	if r > maxR {
		r = maxR
	}
	if r < 0 {
		r = 0
	}

	c.hline(x+r, y, w-2*r, col)
	c.hline(x+r, y+h-1, w-2*r, col)
	c.vline(x, y+r, h-2*r, col)
	c.vline(x+w-1, y+r, h-2*r, col)

	c.cornerArc(x+r, y+r, r, cornerTopLeft, col)
	c.cornerArc(x+w-r-1, y+r, r, cornerTopRight, col)
	c.cornerArc(x+w-r-1, y+h-r-1, r, cornerBottomRight, col)
	c.cornerArc(x+r, y+h-r-1, r, cornerBottomLeft, col)
}

func (c *Canvas) hline(x, y, w int16, col color.RGBA) {
	for i := int16(0); i < w; i++ {
		c.SetPixel(x+i, y, col)
	}
}

func (c *Canvas) vline(x, y, h int16, col color.RGBA) {
	for i := int16(0); i < h; i++ {
		c.SetPixel(x, y+i, col)
	}
}

// cornerArc draws the selected quarters of a midpoint circle around x0, y0.
func (c *Canvas) cornerArc(x0, y0, r int16, corners uint8, col color.RGBA) {
	f := 1 - r
	ddFx := int16(1)
	ddFy := -2 * r
	px := int16(0)
	py := r

	for px < py {
		if f >= 0 {
			py--
			ddFy += 2
			f += ddFy
		}
		px++
		ddFx += 2
		f += ddFx

		if corners&cornerBottomRight != 0 {
			c.SetPixel(x0+px, y0+py, col)
			c.SetPixel(x0+py, y0+px, col)
		}
		if corners&cornerTopRight != 0 {
			c.SetPixel(x0+px, y0-py, col)
			c.SetPixel(x0+py, y0-px, col)
		}
		if corners&cornerBottomLeft != 0 {
			c.SetPixel(x0-py, y0+px, col)
			c.SetPixel(x0-px, y0+py, col)
		}
		if corners&cornerTopLeft != 0 {
			c.SetPixel(x0-py, y0-px, col)
			c.SetPixel(x0-px, y0-py, col)
		}
	}
}
