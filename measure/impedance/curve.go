package impedance

import (
	"errors"
	"sort"
)

// Errors returned by impedance analysis functions.
var (
	ErrCurveTooShort    = errors.New("impedance: curve has too few points")
	ErrPeakOrder        = errors.New("impedance: peak frequencies out of physical order")
	ErrNoLowerPeak      = errors.New("impedance: no local maximum found below the valley frequency")
	ErrNoBandwidthPoint = errors.New("impedance: -3 dB bandwidth point not found")
	ErrLossNotLower     = errors.New("impedance: differential loss measurement not lower than baseline")
	ErrInvalidCapture   = errors.New("impedance: invalid capture configuration")
)

// Point is one impedance sample: frequency in Hz against impedance
// magnitude in ohm.
type Point struct {
	Freq float64
	Ohms float64
}

// Curve is a collection of impedance samples. It is measurement input:
// no function in this package mutates it, and it need not arrive sorted
// by frequency.
type Curve []Point

// Minimum point counts for the two analysis modes.
const (
	minPeakPoints      = 3
	minBandwidthPoints = 5
)

// sorted returns a copy of the curve ordered by ascending frequency.
func (c Curve) sorted() Curve {
	out := make(Curve, len(c))
	copy(out, c)

	sort.Slice(out, func(i, j int) bool { return out[i].Freq < out[j].Freq })

	return out
}
