// Package screen renders pool heating temperatures and a running text log
// onto the two-module HUB75 panel.
//
// A Screen owns the panel driver. It is created once by New, which also
// runs the panel self-test, and is then driven from a single goroutine:
//
//	scr, err := screen.New(panel.NewHUB75)
//	if err != nil {
//		...
//	}
//	scr.Draw(screen.Readings{PoolIn: 27.4, Boiler: 61.0})
package screen

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/tuffrabit/tinygo-pool-screen/pkg/gfx"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/panel"
)

const (
	// Panel brightness, 0-255
	brightness = 128

	// Pause after each self-test stage
	selfTestPause = 500 * time.Millisecond

	leftCol      = 1
	poolTextSize = 6

	// Row of the rule under the pool temperature: top margin, glyph height
	// at size 6, gap
	ruleY = 1 + 7*poolTextSize + 2

	boilerRowY    = ruleY + 2
	exchangerRowY = boilerRowY + 7 + 2
)

var (
	colorPool   = gfx.RGB444(15, 4, 0)
	colorLabel  = gfx.RGB444(4, 15, 15)
	colorValue  = gfx.RGB444(0, 15, 0)
	colorDelta  = gfx.RGB444(15, 4, 4)
	colorRule   = gfx.RGB444(15, 15, 15)
	colorYellow = gfx.RGB444(15, 15, 0)
	colorRed    = gfx.RGB444(15, 0, 0)
	colorBlue   = gfx.RGB444(0, 0, 15)
	colorViolet = gfx.RGB444(15, 0, 15)
)

var ErrNoDriver = errors.New("panel factory returned no driver")

// Readings is one set of temperatures to show.
type Readings struct {
	PoolIn           float64 // pool inlet, °C
	PoolInDeltaT     float64 // pool inlet change, °C per hour
	Boiler           float64
	HeatExchangerIn  float64
	HeatExchangerOut float64
}

// Screen is the display facade. It is not safe for concurrent use.
type Screen struct {
	driver panel.Driver
	canvas *gfx.Canvas
	pins   panel.Pins

	uptime func() time.Duration
	sleep  func(time.Duration)
}

type options struct {
	pins   panel.Pins
	uptime func() time.Duration
	sleep  func(time.Duration)
}

// Option customises New.
type Option func(*options)

// WithPins wires the panel with an explicit pin array instead of a profile.
func WithPins(pins panel.Pins) Option {
	return func(o *options) {
		o.pins = pins
	}
}

// WithProfile wires the panel with a named pin profile.
func WithProfile(p panel.Profile) Option {
	return func(o *options) {
		o.pins = p.Pins()
	}
}

// WithClock replaces the uptime source used for log timestamps.
func WithClock(uptime func() time.Duration) Option {
	return func(o *options) {
		o.uptime = uptime
	}
}

// WithSleep replaces the pause used between self-test stages.
func WithSleep(sleep func(time.Duration)) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}

var bootTime = time.Now()

// New builds the panel driver through factory, sets the brightness and runs
// the self-test. A flush error during the self-test is returned after the
// whole sequence has run. Without options the test board wiring is used.
func New(factory panel.Factory, opts ...Option) (*Screen, error) {
	o := options{
		pins: panel.TestBoardPins,
		uptime: func() time.Duration {
			return time.Since(bootTime)
		},
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(&o)
	}

	drv, err := factory(panel.NewConfig(o.pins))
	if err != nil {
		return nil, fmt.Errorf("create panel driver: %w", err)
	}
	if drv == nil {
		return nil, ErrNoDriver
	}

	drv.SetBrightness(brightness)

	s := &Screen{
		driver: drv,
		canvas: gfx.New(drv),
		pins:   o.pins,
		uptime: o.uptime,
		sleep:  o.sleep,
	}
	if err := s.selfTest(); err != nil {
		return nil, err
	}

	return s, nil
}

// Pins returns the wiring the driver was built with.
func (s *Screen) Pins() panel.Pins {
	return s.pins
}

// Draw clears the panel and lays out r.
func (s *Screen) Draw(r Readings) error {
	s.canvas.Clear()
	s.drawTemps(r)
	return s.canvas.Display()
}

// Clear blanks the panel and homes the cursor.
func (s *Screen) Clear() error {
	s.canvas.Clear()
	s.canvas.SetCursor(0, 0)
	return s.canvas.Display()
}

// Log appends "[<uptime>] text" at the cursor with wrapping on. Earlier
// output stays until Clear or Draw.
func (s *Screen) Log(text string) error {
	c := s.canvas
	c.SetTextWrap(true)
	c.SetTextSize(1)
	c.Print(logPrefix(s.uptime()))
	c.Print(text)
	return c.Display()
}

// logPrefix formats uptime as seconds with one decimal.
func logPrefix(uptime time.Duration) string {
	secs := float64(uptime.Milliseconds()) / 1000
	return "[" + strconv.FormatFloat(secs, 'f', 1, 64) + "] "
}

func (s *Screen) drawTemps(r Readings) {
	c := s.canvas
	c.SetTextWrap(false)

	c.SetCursor(leftCol, 1)
	s.printTemp(r.PoolIn, poolTextSize, colorPool)

	c.DrawLine(0, ruleY, panel.Width, ruleY, colorRule)
	c.SetCursor(leftCol, boilerRowY)

	c.SetTextSize(1)
	c.SetTextColor(colorLabel)
	c.Print("Kedel:")
	s.printTemp(r.Boiler, 1, colorValue)
	s.advance(7)

	c.SetTextColor(colorDelta)
	s.drawDelta(colorDelta)
	s.advance(9)
	c.Print("T:")
	s.printTemp(r.PoolInDeltaT, 1, colorPool)
	s.advance(2)
	c.Print("/h")

	c.SetCursor(leftCol, exchangerRowY)
	c.SetTextColor(colorLabel)
	c.Print("Veksler")
	s.advance(3)
	c.Print("I/O:")
	s.printTemp(r.HeatExchangerIn, 1, colorValue)
	c.SetTextColor(colorLabel)
	s.advance(2)
	c.Print("/")
	s.printTemp(r.HeatExchangerOut, 1, colorValue)
}

// advance moves the cursor right by dx pixels.
func (s *Screen) advance(dx int16) {
	x, y := s.canvas.Cursor()
	s.canvas.SetCursor(x+dx, y)
}

// drawDelta draws a 9x7 triangle at the cursor, the Δ of "ΔT".
func (s *Screen) drawDelta(col color.RGBA) {
	x, y := s.canvas.Cursor()
	s.canvas.DrawLine(x, y+6, x+4, y, col)
	s.canvas.DrawLine(x+4, y, x+8, y+6, col)
	s.canvas.DrawLine(x, y+6, x+8, y+6, col)
}
