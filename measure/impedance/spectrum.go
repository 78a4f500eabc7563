package impedance

import (
	"fmt"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"github.com/mjibson/go-dsp/window"
)

// CaptureConfig describes a sense-resistor impedance capture: the
// driver is excited through a known series resistor while voltage
// across the driver and voltage across the resistor (proportional to
// current) are recorded simultaneously.
type CaptureConfig struct {
	SampleRate float64 // Hz, must be positive
	FFTSize    int     // 0 selects the next power of two above the capture length
	MinFreq    float64 // lower edge of the band to keep, Hz
	MaxFreq    float64 // upper edge of the band to keep, Hz; 0 means Nyquist
}

// currentFloorRatio discards bins whose current magnitude is too far
// below the capture's strongest bin to yield a meaningful quotient.
const currentFloorRatio = 1e-6

// CurveFromCapture converts synchronized voltage and current
// recordings into an impedance magnitude curve. Both channels are
// Hann-windowed and transformed, and each retained bin contributes one
// point with magnitude |V|/|I|. Bins where the current magnitude is
// negligible relative to the strongest bin are dropped rather than
// amplified into spurious peaks.
func CurveFromCapture(voltage, current []float64, cfg CaptureConfig) (Curve, error) {
	if len(voltage) == 0 || len(voltage) != len(current) {
		return nil, fmt.Errorf("%w: voltage and current must be non-empty and equal length, got %d and %d",
			ErrInvalidCapture, len(voltage), len(current))
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidCapture, cfg.SampleRate)
	}

	if cfg.MinFreq < 0 || (cfg.MaxFreq > 0 && cfg.MaxFreq <= cfg.MinFreq) {
		return nil, fmt.Errorf("%w: band [%g, %g] Hz is not ordered", ErrInvalidCapture, cfg.MinFreq, cfg.MaxFreq)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(voltage))
	}

	if fftSize < len(voltage) {
		return nil, fmt.Errorf("%w: FFT size %d is below capture length %d", ErrInvalidCapture, fftSize, len(voltage))
	}

	coeffs := window.Hann(len(voltage))

	specV, err := realSpectrum(voltage, coeffs, fftSize)
	if err != nil {
		return nil, err
	}

	specI, err := realSpectrum(current, coeffs, fftSize)
	if err != nil {
		return nil, err
	}

	maxFreq := cfg.MaxFreq
	if maxFreq <= 0 {
		maxFreq = cfg.SampleRate / 2
	}

	floor := 0.0
	for _, x := range specI[:fftSize/2+1] {
		if m := cmplx.Abs(x); m > floor {
			floor = m
		}
	}
	floor *= currentFloorRatio

	binWidth := cfg.SampleRate / float64(fftSize)

	var curve Curve
	for i := 1; i <= fftSize/2; i++ {
		freq := float64(i) * binWidth
		if freq < cfg.MinFreq || freq > maxFreq {
			continue
		}

		iMag := cmplx.Abs(specI[i])
		if iMag <= floor {
			continue
		}

		curve = append(curve, Point{Freq: freq, Ohms: cmplx.Abs(specV[i]) / iMag})
	}

	if len(curve) < minPeakPoints {
		return nil, fmt.Errorf("%w: only %d usable bins in [%g, %g] Hz", ErrInvalidCapture, len(curve), cfg.MinFreq, maxFreq)
	}

	return curve, nil
}

// realSpectrum windows a real capture, zero-pads it to fftSize and
// returns its complex spectrum.
func realSpectrum(signal, coeffs []float64, fftSize int) ([]complex128, error) {
	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	vecmath.MulBlockInPlace(windowed, coeffs)

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("impedance: planning %d-point transform: %w", fftSize, err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("impedance: forward transform: %w", err)
	}

	return out, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
