package impedance

import (
	"fmt"
	"math"
)

// QMeasurement is a quality factor measured from the -3 dB bandwidth of
// a single impedance resonance peak.
type QMeasurement struct {
	Resonance float64 // peak frequency in Hz
	Lower     float64 // lower -3 dB bandwidth point in Hz
	Upper     float64 // upper -3 dB bandwidth point in Hz
	Q         float64 // Resonance / (Upper - Lower)
}

// MeasureQ measures the quality factor of a single resonance peak from
// its half-power bandwidth. The two bandwidth points, where the
// magnitude crosses peak/sqrt(2), are located by linear interpolation
// between the bracketing samples on each side of the peak — never by
// snapping to the nearest sample.
func MeasureQ(c Curve) (QMeasurement, error) {
	if len(c) < minBandwidthPoints {
		return QMeasurement{}, fmt.Errorf("%w: need at least %d points for bandwidth measurement, got %d",
			ErrCurveTooShort, minBandwidthPoints, len(c))
	}

	pts := c.sorted()

	peakIdx := 0
	for i, p := range pts {
		if p.Ohms > pts[peakIdx].Ohms {
			peakIdx = i
		}
	}

	target := pts[peakIdx].Ohms / math.Sqrt2

	lower, ok := crossingBelow(pts, peakIdx, target)
	if !ok {
		return QMeasurement{}, fmt.Errorf("%w: no crossing of %.3g ohm below the %g Hz peak",
			ErrNoBandwidthPoint, target, pts[peakIdx].Freq)
	}

	upper, ok := crossingAbove(pts, peakIdx, target)
	if !ok {
		return QMeasurement{}, fmt.Errorf("%w: no crossing of %.3g ohm above the %g Hz peak",
			ErrNoBandwidthPoint, target, pts[peakIdx].Freq)
	}

	f0 := pts[peakIdx].Freq

	return QMeasurement{
		Resonance: f0,
		Lower:     lower,
		Upper:     upper,
		Q:         f0 / (upper - lower),
	}, nil
}

// crossingBelow walks downward from the peak and interpolates the
// frequency at which the magnitude crosses target.
func crossingBelow(pts Curve, peakIdx int, target float64) (float64, bool) {
	for i := peakIdx; i > 0; i-- {
		hi, lo := pts[i], pts[i-1]
		if lo.Ohms <= target && target <= hi.Ohms {
			return interpolate(lo, hi, target), true
		}
	}

	return 0, false
}

// crossingAbove walks upward from the peak and interpolates the
// frequency at which the magnitude crosses target.
func crossingAbove(pts Curve, peakIdx int, target float64) (float64, bool) {
	for i := peakIdx; i < len(pts)-1; i++ {
		lo, hi := pts[i], pts[i+1]
		if hi.Ohms <= target && target <= lo.Ohms {
			return interpolate(lo, hi, target), true
		}
	}

	return 0, false
}

// interpolate returns the frequency at which the magnitude linearly
// interpolated between a and b equals target.
func interpolate(a, b Point, target float64) float64 {
	if a.Ohms == b.Ohms {
		return 0.5 * (a.Freq + b.Freq)
	}

	t := (target - a.Ohms) / (b.Ohms - a.Ohms)

	return a.Freq + t*(b.Freq-a.Freq)
}

// IsolateLoss extracts a single loss mechanism's quality factor from a
// differential measurement: a baseline curve against one with the extra
// loss present (damping material added, port covered). The extra
// mechanism acts in parallel,
//
//	1/Qx = 1/Qwith - 1/Qbase
//
// so the with-loss measurement must come out strictly lower than the
// baseline; anything else means the two measurements are swapped or the
// modification had no effect, and is rejected by name.
func IsolateLoss(baseline, withLoss QMeasurement) (float64, error) {
	if withLoss.Q >= baseline.Q {
		return 0, fmt.Errorf("%w: with-loss Q %.3f at %g Hz should be below baseline Q %.3f at %g Hz",
			ErrLossNotLower, withLoss.Q, withLoss.Resonance, baseline.Q, baseline.Resonance)
	}

	return 1 / (1/withLoss.Q - 1/baseline.Q), nil
}
