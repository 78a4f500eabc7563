package impedance

import (
	"fmt"
)

// Peaks holds the three characteristic frequencies of a vented-box
// impedance curve: the lower peak, the valley between the peaks (at the
// enclosure tuning), and the upper peak.
type Peaks struct {
	Low  float64 // lower impedance maximum in Hz
	Min  float64 // impedance minimum between the peaks in Hz
	High float64 // upper impedance maximum in Hz
}

// Parameters are the system parameters recovered algebraically from the
// peak frequencies.
type Parameters struct {
	Fs              float64 // driver free-air resonance in Hz
	Fb              float64 // enclosure tuning frequency in Hz
	ComplianceRatio float64 // alpha = Vas / Vb
}

// IdentifyPeaks locates the characteristic frequencies of a measured
// vented-box impedance curve: the global maximum is the upper peak, the
// global minimum the valley, and the tallest point below the valley the
// lower peak. The curve is sorted defensively first and should be
// windowed to the two-peak region around resonance.
//
// The result must satisfy Low < Min < High; a violation signals a noisy
// or mislabeled measurement and is reported with all three frequencies.
func IdentifyPeaks(c Curve) (Peaks, error) {
	if len(c) < minPeakPoints {
		return Peaks{}, fmt.Errorf("%w: need at least %d points for peak detection, got %d",
			ErrCurveTooShort, minPeakPoints, len(c))
	}

	pts := c.sorted()

	maxIdx, minIdx := 0, 0
	for i, p := range pts {
		if p.Ohms > pts[maxIdx].Ohms {
			maxIdx = i
		}

		if p.Ohms < pts[minIdx].Ohms {
			minIdx = i
		}
	}

	lowIdx := -1
	for i := 0; i < minIdx; i++ {
		if lowIdx < 0 || pts[i].Ohms > pts[lowIdx].Ohms {
			lowIdx = i
		}
	}

	if lowIdx < 0 {
		return Peaks{}, fmt.Errorf("%w: valley at %g Hz is the lowest frequency sampled",
			ErrNoLowerPeak, pts[minIdx].Freq)
	}

	peaks := Peaks{
		Low:  pts[lowIdx].Freq,
		Min:  pts[minIdx].Freq,
		High: pts[maxIdx].Freq,
	}

	if !(peaks.Low < peaks.Min && peaks.Min < peaks.High) {
		return Peaks{}, fmt.Errorf("%w: low=%g Hz, min=%g Hz, high=%g Hz",
			ErrPeakOrder, peaks.Low, peaks.Min, peaks.High)
	}

	return peaks, nil
}

// RecoverParameters inverts the closed-form relationships of the vented
// network at its impedance extrema:
//
//	Fb    = fmin
//	Fs    = flow*fhigh / Fb
//	alpha = (flow^2 + fhigh^2 - Fb^2 - Fs^2) / Fs^2
//
// No forward simulation is involved. The recovered Fs always lies
// strictly between the two peaks when the peak ordering holds.
func RecoverParameters(p Peaks) (Parameters, error) {
	if !(p.Low < p.Min && p.Min < p.High) || p.Low <= 0 {
		return Parameters{}, fmt.Errorf("%w: low=%g Hz, min=%g Hz, high=%g Hz",
			ErrPeakOrder, p.Low, p.Min, p.High)
	}

	fb := p.Min
	fs := p.Low * p.High / fb
	alpha := (p.Low*p.Low + p.High*p.High - fb*fb - fs*fs) / (fs * fs)

	return Parameters{Fs: fs, Fb: fb, ComplianceRatio: alpha}, nil
}
