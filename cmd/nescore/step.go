package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stepCycles int

var stepCmd = &cobra.Command{
	Use:   "step <rom>",
	Short: "Advance the CPU by a number of bus cycles and print its state",
	Args:  cobra.ExactArgs(1),
	RunE:  runStep,
}

func init() {
	stepCmd.Flags().IntVar(&stepCycles, "cycles", 1, "number of bus cycles to tick")
	rootCmd.AddCommand(stepCmd)
}

func runStep(cmd *cobra.Command, args []string) error {
	_, _, cpu, err := loadConsole(args[0])
	if err != nil {
		return err
	}

	text, _, _ := cpu.Disassemble(cpu.Snapshot().PC)
	fmt.Printf("%04x  %s\n", cpu.Snapshot().PC, text)

	for i := 0; i < stepCycles; i++ {
		cpu.Tick()
		if err := cpu.Err(); err != nil {
			return fmt.Errorf("cpu halted: %w", err)
		}
	}

	fmt.Println(cpu)
	return nil
}
