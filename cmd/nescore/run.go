package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runMaxCycles uint64

var runCmd = &cobra.Command{
	Use:   "run <rom>",
	Short: "Run the CPU freely until it halts, hits --max-cycles, or is interrupted",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().Uint64Var(&runMaxCycles, "max-cycles", 0, "stop after this many bus cycles (0 = unbounded)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	_, _, cpu, err := loadConsole(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("running %s, reset PC=%04x", args[0], cpu.Snapshot().PC)

	var cycles uint64
	for {
		select {
		case <-ctx.Done():
			log.Printf("interrupted after %d cycles", cycles)
			fmt.Println(cpu)
			return nil
		default:
		}

		cpu.Tick()
		cycles++

		if err := cpu.Err(); err != nil {
			fmt.Println(cpu)
			return fmt.Errorf("cpu halted after %d cycles: %w", cycles, err)
		}

		if runMaxCycles != 0 && cycles >= runMaxCycles {
			fmt.Println(cpu)
			return nil
		}
	}
}
