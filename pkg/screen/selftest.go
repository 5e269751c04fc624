package screen

import (
	"fmt"

	"github.com/tuffrabit/tinygo-pool-screen/pkg/gfx"
)

// stage is one step of the power-on pattern.
type stage struct {
	name string
	draw func(c *gfx.Canvas, w, h int16)
}

// selfTestStages lights the whole panel in a fixed order so a wiring fault
// (missing colour, dead address line, wrong chain order) is visible at boot.
var selfTestStages = []stage{
	{"fill", func(c *gfx.Canvas, w, h int16) {
		c.FillScreen(gfx.White)
		c.FillRect(0, 0, w, h, colorValue)
	}},
	{"outline", func(c *gfx.Canvas, w, h int16) {
		c.DrawRect(0, 0, w, h, colorYellow)
	}},
	{"cross", func(c *gfx.Canvas, w, h int16) {
		c.DrawLine(0, 0, w-1, h-1, colorRed)
		c.DrawLine(w-1, 0, 0, h-1, colorRed)
	}},
	{"circle", func(c *gfx.Canvas, w, h int16) {
		c.DrawCircle(10, 10, 10, colorBlue)
	}},
	{"disc", func(c *gfx.Canvas, w, h int16) {
		c.FillCircle(40, 21, 10, colorViolet)
	}},
	{"blank", func(c *gfx.Canvas, w, h int16) {
		c.FillScreen(gfx.Black)
	}},
}

// selfTest runs every stage, flushing each one and pausing between them.
// A failed flush does not stop the sequence; the first error is returned.
func (s *Screen) selfTest() error {
	var first error
	w, h := s.canvas.Size()
	last := len(selfTestStages) - 1
	for i, st := range selfTestStages {
		st.draw(s.canvas, w, h)
		if err := s.canvas.Display(); err != nil && first == nil {
			first = fmt.Errorf("self-test %s: %w", st.name, err)
		}
		if i < last {
			s.sleep(selfTestPause)
		}
	}
	return first
}
