package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	disasmAddr  string
	disasmCount int
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <rom>",
	Short: "Disassemble PRG-ROM starting at an address",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func init() {
	disasmCmd.Flags().StringVar(&disasmAddr, "addr", "0x8000", "starting address (hex, e.g. 0x8000)")
	disasmCmd.Flags().IntVar(&disasmCount, "count", 32, "number of instructions to print")
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(cmd *cobra.Command, args []string) error {
	_, _, cpu, err := loadConsole(args[0])
	if err != nil {
		return err
	}

	addr, err := strconv.ParseUint(disasmAddr, 0, 16)
	if err != nil {
		return fmt.Errorf("parsing --addr %q: %w", disasmAddr, err)
	}

	pc := uint16(addr)
	for i := 0; i < disasmCount; i++ {
		text, _, n := cpu.Disassemble(pc)
		fmt.Printf("%04x  %s\n", pc, text)
		pc += uint16(n)
	}

	return nil
}
