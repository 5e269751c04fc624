package screen

import (
	"image/color"
	"strconv"
)

// printTemp prints temp with one decimal at the cursor and closes it with a
// small ring for the degree sign. The decimal point is drawn as a size x size
// block tucked against the previous digit so the number takes less width
// than a full character cell.
//
// Non-finite values print as the formatter spells them ("NaN", "+Inf").
func (s *Screen) printTemp(temp float64, size int16, col color.RGBA) {
	c := s.canvas
	text := strconv.FormatFloat(temp, 'f', 1, 64)

	c.SetTextSize(size)
	c.SetTextColor(col)
	for i := 0; i < len(text); i++ {
		if text[i] != '.' {
			c.WriteByte(text[i])
			continue
		}

		pad := decimalPad(size)
		x, y := c.Cursor()
		c.FillRect(x-pad, y+size*7-size, size, size, col)
		c.SetCursor(x+2*size-2*pad, y)
	}

	x, y := c.Cursor()
	c.DrawRoundRect(x-1, y+degreeOffset(size), size+2, size+2, 1, col)
}

// decimalPad is how far the decimal block is pulled back into the previous
// cell.
func decimalPad(size int16) int16 {
	if size == 1 {
		return 0
	}
	return 1
}

func degreeOffset(size int16) int16 {
	if size == 1 {
		return 0
	}
	return 1
}
