package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-speaker/box/driver"
	"github.com/cwbudde/algo-speaker/box/enclosure"
	"github.com/cwbudde/algo-speaker/box/vented"
)

var excursionFlags struct {
	fs     float64
	qts    float64
	vas    float64
	vb     float64
	fb     float64
	ql     float64
	re     float64
	bl     float64
	mms    float64
	cms    float64
	rms    float64
	xmax   float64
	sd     float64
	plimit float64
	freq   float64
}

var excursionCmd = &cobra.Command{
	Use:   "excursion",
	Short: "Find the maximum safe input power at a frequency",
	Long: `Solve for the largest input power the driver/box combination
tolerates at a single frequency, bounded by the thermal power rating
and by the linear excursion limit of the voice coil. The port unloads
the cone near the tuning frequency, so the binding constraint changes
with frequency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys, err := buildExcursionSystem()
		if err != nil {
			return err
		}

		logger.Debug("solving power limit", zap.Float64("freq", excursionFlags.freq))

		pl, err := sys.MaxSafePower(excursionFlags.freq)
		if err != nil {
			return err
		}

		fmt.Printf("max safe power: %.1f W\n", pl.Power)
		fmt.Printf("limited by:     %s\n", pl.Limit)
		fmt.Printf("displacement:   %.2f mm\n", pl.Displacement*1000)

		if !pl.Converged {
			logger.Warn("power solve hit its iteration cap; result is the best bracket estimate")
		}

		return nil
	},
}

func buildExcursionSystem() (*vented.System, error) {
	drv, err := driver.New(driver.Config{
		Fs:  excursionFlags.fs,
		Qts: excursionFlags.qts,
		Vas: litersToCubicMeters(excursionFlags.vas),
		Mechanical: &driver.Mechanical{
			Re:         excursionFlags.re,
			Bl:         excursionFlags.bl,
			Mms:        excursionFlags.mms,
			Cms:        excursionFlags.cms,
			Rms:        excursionFlags.rms,
			Xmax:       excursionFlags.xmax / 1000,
			Sd:         excursionFlags.sd,
			PowerLimit: excursionFlags.plimit,
		},
	})
	if err != nil {
		return nil, err
	}

	losses := enclosure.DefaultLosses()
	if excursionFlags.ql > 0 {
		losses = enclosure.Losses{
			Leakage:    excursionFlags.ql,
			Absorption: enclosure.Lossless,
			Port:       enclosure.Lossless,
		}
	}

	return vented.NewSystem(drv, enclosure.Config{
		Volume: litersToCubicMeters(excursionFlags.vb),
		Tuning: excursionFlags.fb,
		Losses: losses,
	})
}

func init() {
	f := excursionCmd.Flags()
	f.Float64Var(&excursionFlags.fs, "fs", 0, "driver free-air resonance in Hz (required)")
	f.Float64Var(&excursionFlags.qts, "qts", 0, "driver total Q (required)")
	f.Float64Var(&excursionFlags.vas, "vas", 0, "driver equivalent volume in liters (required)")
	f.Float64Var(&excursionFlags.vb, "vb", 0, "box net volume in liters (required)")
	f.Float64Var(&excursionFlags.fb, "fb", 0, "port tuning frequency in Hz (required)")
	f.Float64Var(&excursionFlags.ql, "ql", 0, "combined enclosure Q (0 = typical default losses)")
	f.Float64Var(&excursionFlags.re, "re", 0, "voice coil DC resistance in ohm (required)")
	f.Float64Var(&excursionFlags.bl, "bl", 0, "force factor in T*m (required)")
	f.Float64Var(&excursionFlags.mms, "mms", 0, "moving mass in kg (required)")
	f.Float64Var(&excursionFlags.cms, "cms", 0, "suspension compliance in m/N (required)")
	f.Float64Var(&excursionFlags.rms, "rms", 0, "mechanical resistance in N*s/m (required)")
	f.Float64Var(&excursionFlags.xmax, "xmax", 0, "linear excursion limit in mm (required)")
	f.Float64Var(&excursionFlags.sd, "sd", 0, "cone area in m^2 (required)")
	f.Float64Var(&excursionFlags.plimit, "plimit", 0, "thermal power rating in W (required)")
	f.Float64Var(&excursionFlags.freq, "freq", 0, "evaluation frequency in Hz (required)")

	for _, name := range []string{"fs", "qts", "vas", "vb", "fb", "re", "bl", "mms", "cms", "rms", "xmax", "sd", "plimit", "freq"} {
		_ = excursionCmd.MarkFlagRequired(name)
	}
}
