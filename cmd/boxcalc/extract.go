package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-speaker/measure/impedance"
)

var extractFlags struct {
	csvPath string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recover parameters from a measured impedance curve",
	Long: `Read a measured impedance magnitude curve from a CSV file with
"frequency,ohms" rows (a header row is skipped if present), locate the
two impedance peaks and the valley between them, and recover the driver
resonance, the port tuning frequency and the compliance ratio in closed
form.

Window the CSV to the two-peak region around resonance; the voice coil
inductance rise at high frequencies would otherwise be mistaken for the
upper peak.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		curve, err := readCurve(extractFlags.csvPath)
		if err != nil {
			return err
		}

		logger.Debug("loaded impedance curve",
			zap.String("path", extractFlags.csvPath),
			zap.Int("points", len(curve)))

		peaks, err := impedance.IdentifyPeaks(curve)
		if err != nil {
			return err
		}

		params, err := impedance.RecoverParameters(peaks)
		if err != nil {
			return err
		}

		fmt.Printf("lower peak:       %.2f Hz\n", peaks.Low)
		fmt.Printf("valley:           %.2f Hz\n", peaks.Min)
		fmt.Printf("upper peak:       %.2f Hz\n", peaks.High)
		fmt.Printf("driver Fs:        %.2f Hz\n", params.Fs)
		fmt.Printf("port tuning Fb:   %.2f Hz\n", params.Fb)
		fmt.Printf("compliance ratio: %.4f\n", params.ComplianceRatio)

		return nil
	},
}

// readCurve parses "frequency,ohms" CSV rows into an impedance curve.
// A non-numeric first row is treated as a header and skipped.
func readCurve(path string) (impedance.Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("boxcalc: opening curve: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	var curve impedance.Curve

	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("boxcalc: reading %s: %w", path, err)
		}

		freq, ferr := strconv.ParseFloat(rec[0], 64)
		ohms, oerr := strconv.ParseFloat(rec[1], 64)

		if ferr != nil || oerr != nil {
			if row == 1 {
				continue // header
			}

			return nil, fmt.Errorf("boxcalc: %s row %d: non-numeric sample %q,%q", path, row, rec[0], rec[1])
		}

		curve = append(curve, impedance.Point{Freq: freq, Ohms: ohms})
	}

	return curve, nil
}

func init() {
	extractCmd.Flags().StringVar(&extractFlags.csvPath, "csv", "", "path to the frequency,ohms CSV file (required)")

	_ = extractCmd.MarkFlagRequired("csv")
}
