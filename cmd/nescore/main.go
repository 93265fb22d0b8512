// Command nescore loads an iNES/NES 2.0 ROM, wires it to a CPU memory
// map, and drives the 6502 core: inspect a ROM's header, disassemble
// its PRG-ROM, or run/step the CPU against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nescore",
	Short: "A cycle-accurate NES cartridge/memory-map/CPU core",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
