// Command boxcalc models vented loudspeaker enclosures from the command
// line: alignment synthesis, response and group delay evaluation,
// power-limit solving and parameter extraction from measured impedance
// curves.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "boxcalc",
	Short: "Vented loudspeaker enclosure calculator",
	Long: `boxcalc models vented (bass-reflex) loudspeaker enclosures with the
classical fourth-order lumped-parameter network.

It solves alignments (maximally-flat or equal-ripple) for a given
driver, evaluates frequency response, bass extension and group delay,
finds the maximum safe input power limited by cone excursion or the
thermal rating, and recovers driver and box parameters from measured
impedance curves.

Volumes are entered in liters and cone travel in millimeters, both
converted internally; all other quantities use SI units.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

func setupLogger() error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	var err error
	logger, err = cfg.Build()
	if err != nil {
		return fmt.Errorf("boxcalc: building logger: %w", err)
	}

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if logger != nil {
		_ = logger.Sync()
	}
}

// litersToCubicMeters converts the CLI's liter inputs to the SI volumes
// the model packages expect.
func litersToCubicMeters(l float64) float64 {
	return l / 1000
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(alignCmd)
	rootCmd.AddCommand(responseCmd)
	rootCmd.AddCommand(excursionCmd)
	rootCmd.AddCommand(extractCmd)
}
