//go:build tinygo

package main

import (
	"errors"
	"fmt"
	"machine"
	"time"

	"github.com/tuffrabit/tinygo-pool-screen/pkg/command"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/config"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/panel"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/screen"
	"github.com/tuffrabit/tinygo-pool-screen/pkg/storage"
	"github.com/tuffrabit/tinygo-pool-screen/serial"
)

// Pause between panel refreshes, the HUB75 rows are multiplexed in software
const refreshDelay = time.Millisecond

// MAIN THREAD DUTIES
//
// Mount flash and resolve the pin override, bring up the panel, keep it
// refreshed, and hand the USB serial port to the command console.

func main() {
	time.Sleep(500 * time.Millisecond) // give the USB host time to attach

	store, cfg := loadPanelConfig()

	var drv panel.Driver
	factory := func(c panel.Config) (panel.Driver, error) {
		d, err := panel.NewHUB75(c)
		drv = d
		return d, err
	}

	scr, err := screen.New(factory, screen.WithPins(cfg.ResolvePins()))
	if err != nil {
		for {
			println("pool-screen: panel init failed:", err.Error())
			time.Sleep(time.Second)
		}
	}
	fmt.Printf("pool-screen: panel up, profile %s pins %v\r\n", cfg.Profile, scr.Pins())

	go refresh(drv)

	// A nil *storage.Manager must not become a non-nil interface
	var panelStore command.PanelStore
	if store != nil {
		panelStore = store
	}
	handler := command.NewHandler(scr, panelStore)

	console := serial.NewSerial(machine.Serial, serial.DispatchFunc(func(line string) string {
		return handler.Handle(line).String()
	}))
	go console.Handle()

	// Block main goroutine to keep program running
	select {}
}

// loadPanelConfig returns the stored pin override, or the default profile
// when flash is unavailable or holds nothing.
func loadPanelConfig() (*storage.Manager, config.PanelConfig) {
	cfg := config.Default()

	store, err := storage.New(machine.Flash, true)
	if err != nil {
		println("pool-screen: flash unavailable:", err.Error())
		return nil, cfg
	}

	var stored config.PanelConfig
	switch err := store.LoadPanel(&stored); {
	case err == nil:
		cfg = stored
	case errors.Is(err, storage.ErrConfigNotFound):
		println("pool-screen: no stored panel config, using defaults")
	default:
		println("pool-screen: panel config unreadable:", err.Error())
	}

	return store, cfg
}

func refresh(drv panel.Driver) {
	for {
		if err := drv.Display(); err != nil {
			println("pool-screen: refresh:", err.Error())
		}
		time.Sleep(refreshDelay)
	}
}
