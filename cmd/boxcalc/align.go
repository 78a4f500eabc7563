package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-speaker/box/enclosure"
	"github.com/cwbudde/algo-speaker/box/vented"
)

var alignFlags struct {
	qts    float64
	ripple float64
	ql     float64
	fs     float64
	vas    float64
}

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Solve a vented-box alignment for a driver",
	Long: `Solve the maximally-flat (B4) or equal-ripple Chebyshev (C4)
alignment for a driver, reporting the tuning ratio, compliance ratio
and the total Q the target demands.

With --fs and --vas the prescription is also translated into a concrete
box volume and port tuning frequency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target := vented.B4()
		if alignFlags.ripple > 0 {
			var err error
			target, err = vented.C4(alignFlags.ripple)
			if err != nil {
				return err
			}
		}

		ql := alignFlags.ql
		if ql <= 0 {
			ql = enclosure.DefaultLosses().Combined()
		}

		logger.Debug("solving alignment",
			zap.String("target", target.Name),
			zap.Float64("qts", alignFlags.qts),
			zap.Float64("ql", ql))

		a, err := vented.Synthesize(target, alignFlags.qts, ql)
		if err != nil {
			return err
		}

		fmt.Printf("alignment:        %s\n", target.Name)
		fmt.Printf("tuning ratio:     %.4f\n", a.TuningRatio)
		fmt.Printf("compliance ratio: %.4f\n", a.ComplianceRatio)
		fmt.Printf("required Qt:      %.4f\n", a.RequiredQt)

		if alignFlags.fs > 0 {
			fmt.Printf("port tuning:      %.2f Hz\n", a.TuningRatio*alignFlags.fs)
		}

		if alignFlags.vas > 0 {
			fmt.Printf("box volume:       %.2f l\n", alignFlags.vas/a.ComplianceRatio)
		}

		return nil
	},
}

func init() {
	alignCmd.Flags().Float64Var(&alignFlags.qts, "qts", 0, "driver total Q (required)")
	alignCmd.Flags().Float64Var(&alignFlags.ripple, "ripple", 0, "Chebyshev passband ripple in dB (0 = maximally flat)")
	alignCmd.Flags().Float64Var(&alignFlags.ql, "ql", 0, "combined enclosure Q (0 = typical default losses)")
	alignCmd.Flags().Float64Var(&alignFlags.fs, "fs", 0, "driver free-air resonance in Hz")
	alignCmd.Flags().Float64Var(&alignFlags.vas, "vas", 0, "driver equivalent volume in liters")

	_ = alignCmd.MarkFlagRequired("qts")
}
