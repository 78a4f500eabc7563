package vented

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// Sensitivity holds partial derivatives of the -3 dB frequency with
// respect to the enclosure parameters.
type Sensitivity struct {
	DVolume float64 // dF3/dVb in Hz per m^3; negative for physical systems
	DTuning float64 // dF3/dFb in Hz per Hz
	DLoss   float64 // dF3/dQl in Hz per unit Q; vanishes toward lossless
}

// Relative central-difference steps. Loss figures span orders of
// magnitude, so the loss step is an order larger.
const (
	sensitivityStep     = 0.01
	sensitivityLossStep = 0.1
)

// F3Sensitivity computes central-difference derivatives of the -3 dB
// frequency with respect to box volume, tuning frequency and combined
// enclosure loss. A lossless enclosure has exactly zero loss
// sensitivity by definition.
func (s *System) F3Sensitivity() (Sensitivity, error) {
	fs := s.drv.Fs
	qt := s.drv.Qts
	vas := s.drv.Vas
	fb := s.enc.Tuning
	vol := s.enc.Volume

	f3At := func(volume, tuning, ql float64) float64 {
		f3, err := f3Search(fs, tuning, vas/volume, qt, ql)
		if err != nil {
			return math.NaN()
		}

		return f3
	}

	out := Sensitivity{
		DVolume: fd.Derivative(func(v float64) float64 {
			return f3At(v, fb, s.ql)
		}, vol, &fd.Settings{Formula: fd.Central, Step: sensitivityStep * vol}),

		DTuning: fd.Derivative(func(t float64) float64 {
			return f3At(vol, t, s.ql)
		}, fb, &fd.Settings{Formula: fd.Central, Step: sensitivityStep * fb}),
	}

	if !math.IsInf(s.ql, 1) {
		out.DLoss = fd.Derivative(func(q float64) float64 {
			return f3At(vol, fb, q)
		}, s.ql, &fd.Settings{Formula: fd.Central, Step: sensitivityLossStep * s.ql})
	}

	if math.IsNaN(out.DVolume) || math.IsNaN(out.DTuning) || math.IsNaN(out.DLoss) {
		return Sensitivity{}, fmt.Errorf("%w: sensitivity evaluation left the search bracket", ErrNoF3)
	}

	return out, nil
}
