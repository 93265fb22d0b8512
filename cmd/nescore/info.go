package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <rom>",
	Short: "Print decoded iNES/NES 2.0 header metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cart, _, _, err := loadConsole(args[0])
	if err != nil {
		return err
	}

	h := cart.Header()
	fmt.Printf("format:       %s\n", h.Format)
	fmt.Printf("mapper:       %d (submapper %d)\n", h.MapperID, h.SubmapperID)
	fmt.Printf("mirroring:    %s\n", h.Mirroring)
	fmt.Printf("battery:      %t\n", h.Battery)
	fmt.Printf("trainer:      %t\n", h.Trainer)
	fmt.Printf("console:      %s\n", h.Console)
	fmt.Printf("timing:       %s\n", h.Timing)
	fmt.Printf("prg-rom:      %d bytes\n", h.PRGSize)
	fmt.Printf("chr-rom:      %d bytes", h.CHRSize)
	if cart.UsesCHRRAM() {
		fmt.Print(" (CHR-RAM in use)")
	}
	fmt.Println()

	return nil
}
