// Package config defines the persisted panel configuration.
// The record is fixed-size so it can be stored and read without allocation
// beyond a single buffer.
package config

import (
	"encoding/binary"
	"errors"
	"strconv"

	"github.com/tuffrabit/tinygo-pool-screen/pkg/panel"
)

// CurrentVersion is the config format version.
// Bump this when making breaking changes to the record layout.
// When firmware boots and finds a different version in flash, the stored
// config is wiped and defaults apply.
const CurrentVersion uint16 = 1

// PanelConfigSize is the encoded size of PanelConfig.
const PanelConfigSize = 20

// Errors
var (
	ErrInvalidSize = errors.New("invalid config size")
	ErrPinCount    = errors.New("expected 14 pins")
	ErrPinValue    = errors.New("pin out of range")
)

// PanelConfig selects the HUB75 wiring used at boot.
// Total size: 20 bytes
// Layout:
//
//	[0-1]:   Version (uint16)
//	[2]:     Profile (uint8)
//	[3]:     Reserved (uint8)
//	[4-17]:  Pins ([14]int8, used when Profile is custom)
//	[18-19]: Reserved (uint16)
type PanelConfig struct {
	Version   uint16        // Config format version
	Profile   panel.Profile // Named wiring, or custom
	Reserved1 uint8         // Padding
	Pins      panel.Pins    // Explicit wiring for ProfileCustom
	Reserved2 uint16        // Reserved for future use
}

// Default returns the configuration used when nothing is stored.
func Default() PanelConfig {
	return PanelConfig{
		Version: CurrentVersion,
		Profile: panel.ProfileTestBoard,
	}
}

// Custom returns a configuration that wires the panel with pins.
func Custom(pins panel.Pins) PanelConfig {
	return PanelConfig{
		Version: CurrentVersion,
		Profile: panel.ProfileCustom,
		Pins:    pins,
	}
}

// ResolvePins returns the wiring this configuration selects.
func (c *PanelConfig) ResolvePins() panel.Pins {
	if c.Profile == panel.ProfileCustom {
		return c.Pins
	}
	return c.Profile.Pins()
}

// MarshalBinary implements encoding.BinaryMarshaler for PanelConfig.
func (c *PanelConfig) MarshalBinary() ([]byte, error) {
	buf := make([]byte, PanelConfigSize)
	binary.LittleEndian.PutUint16(buf[0:], c.Version)
	buf[2] = uint8(c.Profile)
	buf[3] = c.Reserved1
	for i, p := range c.Pins {
		buf[4+i] = byte(p)
	}
	binary.LittleEndian.PutUint16(buf[18:], c.Reserved2)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for PanelConfig.
func (c *PanelConfig) UnmarshalBinary(data []byte) error {
	if len(data) < PanelConfigSize {
		return ErrInvalidSize
	}

	c.Version = binary.LittleEndian.Uint16(data[0:])
	c.Profile = panel.Profile(data[2])
	c.Reserved1 = data[3]
	for i := range c.Pins {
		c.Pins[i] = int8(data[4+i])
	}
	c.Reserved2 = binary.LittleEndian.Uint16(data[18:])
	return nil
}

// ParsePins reads exactly 14 decimal pin numbers in connector order.
func ParsePins(fields []string) (panel.Pins, error) {
	var pins panel.Pins
	if len(fields) != panel.PinCount {
		return pins, ErrPinCount
	}

	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 8)
		if err != nil || n < 0 {
			return pins, ErrPinValue
		}
		pins[i] = int8(n)
	}
	return pins, nil
}
