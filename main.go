// ==============================================================================================
// FILE: main.go
// ==============================================================================================
// PURPOSE: The CLI front door: a bare invocation drops into the REPL, `lumen run <file>`
//          evaluates a script and exits. Flags control the evaluator's stack depth and tracing.
// ==============================================================================================

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amoghasbhardwaj/lumen/interp"
	"github.com/amoghasbhardwaj/lumen/object"
	"github.com/amoghasbhardwaj/lumen/repl"
)

var (
	maxStackSize int
	tracing      bool
	showStats    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lumen",
		Short: "lumen is an interpreter for a source-mapped Scheme dialect",
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.Start(os.Stdout, repl.Options{
				MaxStackSize: maxStackSize,
				Tracing:      tracing,
				HistoryFile:  historyFilePath(),
			})
		},
	}
	root.PersistentFlags().IntVar(&maxStackSize, "max-stack", 0, "call-stack depth ceiling (0 keeps the evaluator default of 128)")
	root.PersistentFlags().BoolVar(&tracing, "trace", false, "trace combination entries and tail-call bounces")
	root.PersistentFlags().BoolVar(&showStats, "stats", false, "print the maximum call-stack depth observed after running a file")
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "evaluate a lumen source file and print its final value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0])
		},
	}
}

func runFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "reading %s", filename)
	}

	it := interp.New()
	if maxStackSize > 0 {
		it.SetMaxStackSize(maxStackSize)
	}
	it.SetTracing(tracing)
	if showStats {
		it.StartTrackingStats()
	}

	sourceID := it.RegisterSource(filename, string(data))
	value, evalErr := it.Evaluate(sourceID)
	if evalErr != nil {
		fmt.Fprintln(os.Stderr, it.DescribeError(evalErr))
		fmt.Fprintln(os.Stderr, it.Traceback())
		return errors.New("evaluation failed")
	}

	if value.Value.Kind != object.KindUndefined {
		fmt.Println(it.Render(value))
	}

	if showStats {
		stats := it.TakeTrackedStats()
		fmt.Printf("max call-stack depth observed: %d\n", stats.MaxDepth)
	}
	if failed := it.FailedTests(); failed > 0 {
		return errors.Errorf("%d test-eq assertions failed", failed)
	}
	return nil
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.lumen_history"
}
