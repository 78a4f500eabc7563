// Package testutil provides helpers shared by measurement tests:
// deterministic multi-tone signal synthesis and tolerance assertions.
package testutil

import (
	"math"
	"testing"
)

// Tone is one sinusoidal component of a synthesized capture.
type Tone struct {
	Freq float64 // Hz
	Amp  float64 // linear amplitude
}

// Synthesize returns n samples of the tone sum at the given sample
// rate, all components starting at phase zero. Deterministic, so two
// calls with the same arguments produce identical captures.
func Synthesize(tones []Tone, sampleRate float64, n int) []float64 {
	out := make([]float64, n)

	for i := range out {
		t := float64(i) / sampleRate
		for _, tone := range tones {
			out[i] += tone.Amp * math.Sin(2*math.Pi*tone.Freq*t)
		}
	}

	return out
}

// RequireNear fails t unless got is within tol of want.
func RequireNear(t *testing.T, got, want, tol float64) {
	t.Helper()

	if math.Abs(got-want) > tol {
		t.Fatalf("got %v, want %v (diff %v > tol %v)", got, want, math.Abs(got-want), tol)
	}
}

// RequireFinite fails t if v is NaN or infinite.
func RequireFinite(t *testing.T, v float64) {
	t.Helper()

	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("non-finite value %v", v)
	}
}
