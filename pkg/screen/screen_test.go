package screen

import (
	"errors"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/tuffrabit/tinygo-pool-screen/pkg/gfx"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/panel"
)

// memPanel is an in-memory panel.Driver.
type memPanel struct {
	cfg        panel.Config
	pixels     [panel.Width * panel.Height]color.RGBA
	brightness uint8
	displays   int
	displayErr error
}

func (m *memPanel) Size() (x, y int16) { return panel.Width, panel.Height }

func (m *memPanel) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= panel.Width || y >= panel.Height {
		return
	}
	m.pixels[int(y)*panel.Width+int(x)] = c
}

func (m *memPanel) Display() error {
	m.displays++
	return m.displayErr
}

func (m *memPanel) SetBrightness(b uint8) { m.brightness = b }

func (m *memPanel) at(x, y int16) color.RGBA {
	return m.pixels[int(y)*panel.Width+int(x)]
}

func (m *memPanel) count(c color.RGBA) int {
	n := 0
	for _, p := range m.pixels {
		if p == c {
			n++
		}
	}
	return n
}

// fakeClock hands out successive uptimes.
type fakeClock struct {
	times []time.Duration
	calls int
}

func (f *fakeClock) uptime() time.Duration {
	d := f.times[f.calls%len(f.times)]
	f.calls++
	return d
}

func newTestScreen(t *testing.T, opts ...Option) (*Screen, *memPanel) {
	t.Helper()

	mp := &memPanel{}
	factory := func(cfg panel.Config) (panel.Driver, error) {
		mp.cfg = cfg
		return mp, nil
	}

	opts = append([]Option{WithSleep(func(time.Duration) {})}, opts...)
	s, err := New(factory, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s, mp
}

func TestNewDefaultPins(t *testing.T) {
	s, mp := newTestScreen(t)

	if mp.cfg.Pins != panel.TestBoardPins {
		t.Errorf("Pins: expected %v, got %v", panel.TestBoardPins, mp.cfg.Pins)
	}
	if s.Pins() != panel.TestBoardPins {
		t.Errorf("Screen.Pins: expected %v, got %v", panel.TestBoardPins, s.Pins())
	}
	if mp.cfg.ModuleWidth != 64 || mp.cfg.ModuleHeight != 64 || mp.cfg.Chain != 2 {
		t.Errorf("geometry: got %dx%d chain %d", mp.cfg.ModuleWidth, mp.cfg.ModuleHeight, mp.cfg.Chain)
	}
}

func TestNewCustomPins(t *testing.T) {
	custom := panel.Pins{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
	_, mp := newTestScreen(t, WithPins(custom))

	if mp.cfg.Pins != custom {
		t.Errorf("Pins: expected %v, got %v", custom, mp.cfg.Pins)
	}
	for i, want := range custom {
		if mp.cfg.Pins[i] != want {
			t.Errorf("pin %d: expected %d, got %d", i, want, mp.cfg.Pins[i])
		}
	}
}

func TestNewProfile(t *testing.T) {
	_, mp := newTestScreen(t, WithProfile(panel.ProfileBreakoutTestBoard))

	if mp.cfg.Pins != panel.BreakoutTestBoardPins {
		t.Errorf("Pins: expected %v, got %v", panel.BreakoutTestBoardPins, mp.cfg.Pins)
	}
}

func TestNewBrightness(t *testing.T) {
	_, mp := newTestScreen(t)
	if mp.brightness != 128 {
		t.Errorf("brightness: expected 128, got %d", mp.brightness)
	}
}

func TestNewFactoryError(t *testing.T) {
	boom := errors.New("dma alloc failed")
	_, err := New(func(panel.Config) (panel.Driver, error) {
		return nil, boom
	}, WithSleep(func(time.Duration) {}))

	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped factory error, got %v", err)
	}
}

func TestNewNilDriver(t *testing.T) {
	_, err := New(func(panel.Config) (panel.Driver, error) {
		return nil, nil
	}, WithSleep(func(time.Duration) {}))

	if !errors.Is(err, ErrNoDriver) {
		t.Errorf("expected ErrNoDriver, got %v", err)
	}
}

func TestNewSelfTestFlushError(t *testing.T) {
	stalled := errors.New("bus stalled")
	mp := &memPanel{displayErr: stalled}
	var pauses int

	_, err := New(func(panel.Config) (panel.Driver, error) {
		return mp, nil
	}, WithSleep(func(time.Duration) { pauses++ }))

	if !errors.Is(err, stalled) {
		t.Errorf("expected self-test flush error, got %v", err)
	}
	// the sequence still runs to the end
	if mp.displays != len(selfTestStages) || pauses != len(selfTestStages)-1 {
		t.Errorf("expected %d flushes and %d pauses, got %d and %d",
			len(selfTestStages), len(selfTestStages)-1, mp.displays, pauses)
	}
}

func TestClearHomesCursor(t *testing.T) {
	s, mp := newTestScreen(t)
	s.canvas.SetCursor(40, 30)
	mp.SetPixel(3, 3, colorRed)

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if x, y := s.canvas.Cursor(); x != 0 || y != 0 {
		t.Errorf("Cursor: expected 0,0, got %d,%d", x, y)
	}
	if got := mp.count(gfx.Black); got != panel.Width*panel.Height {
		t.Errorf("expected a black panel, %d pixels black", got)
	}
}

func TestLogPrefix(t *testing.T) {
	tests := []struct {
		uptime time.Duration
		want   string
	}{
		{0, "[0.0] "},
		{1500 * time.Millisecond, "[1.5] "},
		{999 * time.Millisecond, "[1.0] "},
		{61234 * time.Millisecond, "[61.2] "},
		{1500*time.Millisecond + 900*time.Microsecond, "[1.5] "},
	}

	for _, tt := range tests {
		if got := logPrefix(tt.uptime); got != tt.want {
			t.Errorf("logPrefix(%v): expected %q, got %q", tt.uptime, tt.want, got)
		}
	}
}

func TestLogAppends(t *testing.T) {
	clock := &fakeClock{times: []time.Duration{0, 1500 * time.Millisecond}}
	s, mp := newTestScreen(t, WithClock(clock.uptime))

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := s.Log("a"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if x, y := s.canvas.Cursor(); x != 7*6 || y != 0 {
		t.Errorf("after first log: expected 42,0, got %d,%d", x, y)
	}
	first := mp.pixels
	if mp.count(gfx.White) == 0 {
		t.Fatal("first log drew nothing")
	}

	if err := s.Log("b"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if x, y := s.canvas.Cursor(); x != 14*6 || y != 0 {
		t.Errorf("after second log: expected 84,0, got %d,%d", x, y)
	}

	// the first line is still there
	for y := int16(0); y < 8; y++ {
		for x := int16(0); x < 42; x++ {
			if mp.at(x, y) != first[int(y)*panel.Width+int(x)] {
				t.Fatalf("pixel %d,%d changed by the second log", x, y)
			}
		}
	}
	if clock.calls != 2 {
		t.Errorf("expected 2 clock reads, got %d", clock.calls)
	}
}

func TestLogWraps(t *testing.T) {
	s, _ := newTestScreen(t, WithClock(func() time.Duration { return 0 }))
	s.Clear()
	s.canvas.SetTextWrap(false)

	// 6 prefix characters plus 30, at 21 characters per line
	if err := s.Log("abcdefghijklmnopqrstuvwxyz0123"); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if !s.canvas.TextWrap() {
		t.Error("Log left wrapping off")
	}
	if x, y := s.canvas.Cursor(); x != 15*6 || y != 8 {
		t.Errorf("Cursor: expected 90,8, got %d,%d", x, y)
	}
}

func TestLogAfterDrawContinuesAtCursor(t *testing.T) {
	s, _ := newTestScreen(t, WithClock(func() time.Duration { return 0 }))
	s.Draw(sampleReadings)
	x0, y0 := s.canvas.Cursor()
	if x0 != 118 {
		t.Fatalf("Draw left the cursor at x %d", x0)
	}

	// one prefix character fits after the readings, the rest wraps
	s.Log("")
	if x, y := s.canvas.Cursor(); x != 5*6 || y != y0+8 {
		t.Errorf("Cursor: expected 30,%d, got %d,%d", y0+8, x, y)
	}
}

func TestOperationsReturnFlushError(t *testing.T) {
	s, mp := newTestScreen(t)
	mp.displayErr = errors.New("bus stalled")

	if err := s.Draw(sampleReadings); !errors.Is(err, mp.displayErr) {
		t.Errorf("Draw: expected flush error, got %v", err)
	}
	if err := s.Clear(); !errors.Is(err, mp.displayErr) {
		t.Errorf("Clear: expected flush error, got %v", err)
	}
	if err := s.Log("x"); !errors.Is(err, mp.displayErr) {
		t.Errorf("Log: expected flush error, got %v", err)
	}
}

func TestPrintTempNonFinite(t *testing.T) {
	tests := []struct {
		temp  float64
		chars int16
	}{
		{math.NaN(), 3},
		{math.Inf(1), 4},
		{math.Inf(-1), 4},
	}

	for _, tt := range tests {
		s, _ := newTestScreen(t)
		s.canvas.SetCursor(0, 0)
		s.printTemp(tt.temp, 1, colorValue)

		if x, _ := s.canvas.Cursor(); x != tt.chars*6 {
			t.Errorf("%v: expected cursor at %d, got %d", tt.temp, tt.chars*6, x)
		}
	}
}
