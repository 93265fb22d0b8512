package main

import (
	"fmt"

	"github.com/bdwalton/nescore/bus"
	"github.com/bdwalton/nescore/cartridge"
	"github.com/bdwalton/nescore/mos6502"
)

// loadConsole reads the ROM at path and wires it into a Bus and CPU,
// the same assembly every subcommand needs before it can do anything
// useful.
func loadConsole(path string) (*cartridge.Cartridge, *bus.Bus, *mos6502.CPU, error) {
	cart, err := cartridge.Load(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading %q: %w", path, err)
	}

	b, err := bus.New(cart, nil, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("wiring memory map: %w", err)
	}

	cpu := mos6502.New(b)
	return cart, b, cpu, nil
}
