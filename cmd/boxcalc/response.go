package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-speaker/box/driver"
	"github.com/cwbudde/algo-speaker/box/enclosure"
	"github.com/cwbudde/algo-speaker/box/vented"
)

var responseFlags struct {
	fs     float64
	qts    float64
	vas    float64
	vb     float64
	fb     float64
	ql     float64
	from   float64
	to     float64
	points int
}

var responseCmd = &cobra.Command{
	Use:   "response",
	Short: "Evaluate the frequency response of a driver/box combination",
	Long: `Print the small-signal response of a driver in a vented box as a
frequency/dB table on log-spaced points, followed by the -3 dB corner
frequency, the group delay at the port tuning, and the corner's
sensitivity to build tolerances.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := buildSystem(responseFlags.fs, responseFlags.qts, responseFlags.vas,
			responseFlags.vb, responseFlags.fb, responseFlags.ql)
		if err != nil {
			return err
		}

		curve, err := sys.ResponseCurve(responseFlags.from, responseFlags.to, responseFlags.points)
		if err != nil {
			return err
		}

		fmt.Printf("%10s  %8s\n", "freq [Hz]", "[dB]")
		for _, r := range curve {
			fmt.Printf("%10.2f  %+8.2f\n", r.Freq, r.DB())
		}

		f3, err := sys.F3()
		switch {
		case errors.Is(err, vented.ErrNoF3):
			fmt.Println("\nno -3 dB corner in the search band")
		case err != nil:
			return err
		default:
			fmt.Printf("\nF3: %.2f Hz\n", f3)
		}

		gd, err := sys.GroupDelay(responseFlags.fb)
		if err != nil {
			return err
		}
		fmt.Printf("group delay at tuning: %.2f ms\n", gd*1000)

		sens, err := sys.F3Sensitivity()
		if err != nil {
			logger.Warn("sensitivity evaluation failed", zap.Error(err))
			return nil
		}

		fmt.Printf("dF3/dVb: %+.3f Hz/l\n", sens.DVolume/1000)
		fmt.Printf("dF3/dFb: %+.3f Hz/Hz\n", sens.DTuning)
		fmt.Printf("dF3/dQl: %+.3f Hz\n", sens.DLoss)

		return nil
	},
}

// buildSystem assembles a System from bare CLI numbers, shared by the
// response and excursion commands.
func buildSystem(fs, qts, vasLiters, vbLiters, fb, ql float64) (*vented.System, error) {
	drv, err := driver.New(driver.Config{
		Fs:  fs,
		Qts: qts,
		Vas: litersToCubicMeters(vasLiters),
	})
	if err != nil {
		return nil, err
	}

	losses := enclosure.DefaultLosses()
	if ql > 0 {
		// A single figure folds every mechanism into leakage.
		losses = enclosure.Losses{
			Leakage:    ql,
			Absorption: enclosure.Lossless,
			Port:       enclosure.Lossless,
		}
	}

	return vented.NewSystem(drv, enclosure.Config{
		Volume: litersToCubicMeters(vbLiters),
		Tuning: fb,
		Losses: losses,
	})
}

func init() {
	responseCmd.Flags().Float64Var(&responseFlags.fs, "fs", 0, "driver free-air resonance in Hz (required)")
	responseCmd.Flags().Float64Var(&responseFlags.qts, "qts", 0, "driver total Q (required)")
	responseCmd.Flags().Float64Var(&responseFlags.vas, "vas", 0, "driver equivalent volume in liters (required)")
	responseCmd.Flags().Float64Var(&responseFlags.vb, "vb", 0, "box net volume in liters (required)")
	responseCmd.Flags().Float64Var(&responseFlags.fb, "fb", 0, "port tuning frequency in Hz (required)")
	responseCmd.Flags().Float64Var(&responseFlags.ql, "ql", 0, "combined enclosure Q (0 = typical default losses)")
	responseCmd.Flags().Float64Var(&responseFlags.from, "from", 10, "lower edge of the table in Hz")
	responseCmd.Flags().Float64Var(&responseFlags.to, "to", 200, "upper edge of the table in Hz")
	responseCmd.Flags().IntVar(&responseFlags.points, "points", 25, "number of log-spaced table rows")

	for _, f := range []string{"fs", "qts", "vas", "vb", "fb"} {
		_ = responseCmd.MarkFlagRequired(f)
	}
}
