// Package panel describes the HUB75 LED matrix the pool screen draws on:
// module geometry, the pin wiring and the driver the rest of the firmware
// renders through.
package panel

import (
	"tinygo.org/x/drivers"
)

const (
	// Size of a single 64x64 module
	ModuleWidth  = 64
	ModuleHeight = 64

	// Number of modules chained left to right
	Chain = 2

	// Logical canvas
	Width  = ModuleWidth * Chain
	Height = ModuleHeight
)

// Pin indexes into Pins, in HUB75 connector order.
const (
	R1 = iota
	G1
	B1
	R2
	G2
	B2
	A
	B
	C
	D
	E
	LAT
	OE
	CLK

	PinCount
)

// Pins holds the 14 GPIO numbers wired to the HUB75 connector,
// ordered R1, G1, B1, R2, G2, B2, A, B, C, D, E, LAT, OE, CLK.
type Pins [PinCount]int8

// Profile selects a known pin wiring.
type Profile uint8

const (
	ProfileCustom Profile = iota
	ProfileTestBoard
	ProfileBreakoutTestBoard
)

// TestBoardPins is the wiring of the production test board.
var TestBoardPins = Pins{
	25, // R1
	26, // G1
	27, // B1
	14, // R2
	12, // G2
	13, // B2
	23, // A
	22, // B
	5,  // C
	17, // D
	32, // E
	4,  // LAT
	15, // OE
	16, // CLK
}

// BreakoutTestBoardPins is the breakout board wiring, which moves D and CLK.
var BreakoutTestBoardPins = Pins{
	25, // R1
	26, // G1
	27, // B1
	14, // R2
	12, // G2
	13, // B2
	23, // A
	22, // B
	5,  // C
	34, // D
	32, // E
	4,  // LAT
	15, // OE
	2,  // CLK
}

// Pins returns the wiring for a named profile.
// ProfileCustom and unknown profiles fall back to the test board.
func (p Profile) Pins() Pins {
	switch p {
	case ProfileBreakoutTestBoard:
		return BreakoutTestBoardPins
	default:
		return TestBoardPins
	}
}

func (p Profile) String() string {
	switch p {
	case ProfileCustom:
		return "custom"
	case ProfileTestBoard:
		return "test"
	case ProfileBreakoutTestBoard:
		return "breakout"
	default:
		return "unknown"
	}
}

// ParseProfile maps a profile name back to its value.
func ParseProfile(name string) (Profile, bool) {
	switch name {
	case "custom":
		return ProfileCustom, true
	case "test":
		return ProfileTestBoard, true
	case "breakout":
		return ProfileBreakoutTestBoard, true
	}
	return 0, false
}

// Config is handed to a Factory to build the driver.
type Config struct {
	ModuleWidth  int16
	ModuleHeight int16
	Chain        int16
	Pins         Pins
}

// NewConfig returns the fixed two-module geometry with the given wiring.
func NewConfig(pins Pins) Config {
	return Config{
		ModuleWidth:  ModuleWidth,
		ModuleHeight: ModuleHeight,
		Chain:        Chain,
		Pins:         pins,
	}
}

// Width is the logical canvas width across the whole chain.
func (c Config) Width() int16 {
	return c.ModuleWidth * c.Chain
}

// Height is the logical canvas height.
func (c Config) Height() int16 {
	return c.ModuleHeight
}

// Driver is the panel as seen by the renderer.
type Driver interface {
	drivers.Displayer

	// SetBrightness sets the global brightness, 0-255.
	SetBrightness(brightness uint8)
}

// Factory builds a Driver for the given configuration.
type Factory func(cfg Config) (Driver, error)
