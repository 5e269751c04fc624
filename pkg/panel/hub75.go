//go:build tinygo

package panel

import (
	"machine"

	"tinygo.org/x/drivers/hub75"
)

// spiFrequency is the shift clock used to push row data into the modules.
const spiFrequency = 16 * machine.MHz

// NewHUB75 is the Factory for real hardware.
//
// The TinyGo hub75 driver shifts colour data over a single SPI data line and
// drives the A-D address lines itself, so R1 becomes SDO and CLK becomes SCK.
// The remaining colour lines and E are left to the board wiring. Without E a
// 1/32 scan module shows rows 16-31 of each half on top of rows 0-15.
func NewHUB75(cfg Config) (Driver, error) {
	p := cfg.Pins

	bus := machine.SPI0
	if err := bus.Configure(machine.SPIConfig{
		Frequency: spiFrequency,
		SDO:       pin(p[R1]),
		SCK:       pin(p[CLK]),
	}); err != nil {
		return nil, err
	}

	dev := hub75.New(bus, pin(p[LAT]), pin(p[OE]), pin(p[A]), pin(p[B]), pin(p[C]), pin(p[D]))
	dev.Configure(hub75.Config{
		Width:      cfg.Width(),
		Height:     cfg.Height(),
		ColorDepth: 4,
		RowPattern: cfg.Height() / 2,
	})

	return &dev, nil
}

func pin(n int8) machine.Pin {
	return machine.Pin(n)
}
