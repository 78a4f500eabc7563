package vented

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-speaker/box/driver"
	"github.com/cwbudde/algo-speaker/box/enclosure"
	"github.com/cwbudde/algo-speaker/internal/rootfind"
)

// Errors returned by the response engine.
var (
	ErrNilDriver        = errors.New("vented: driver must not be nil")
	ErrInvalidFrequency = errors.New("vented: frequency must be positive")
	ErrInvalidRange     = errors.New("vented: frequency range must satisfy 0 < lo < hi and n >= 2")
	ErrNoF3             = errors.New("vented: -3 dB frequency search failed")
)

const (
	// f3Tolerance is the -3 dB search convergence tolerance in Hz.
	f3Tolerance = 0.1

	// groupDelayStepFloor is the minimum central-difference step in Hz.
	groupDelayStepFloor = 0.01
)

// Coefficients returns the normalized fourth-order denominator
// coefficients of the vented-box response for a given compliance ratio
// alpha, tuning ratio h = Fb/Fs, total driver Q and combined enclosure
// loss Q:
//
//	a1 = sqrt(h)/Ql + 1/(sqrt(h)*Qt)
//	a2 = (alpha+1)/h + h + 1/(Ql*Qt)
//	a3 = sqrt(h)/Qt + 1/(sqrt(h)*Ql)
//
// The same formulas serve lossy and lossless systems: a lossless
// enclosure is expressed as Ql = +Inf, whose reciprocal terms vanish.
func Coefficients(complianceRatio, tuningRatio, totalQ, enclosureQ float64) (a1, a2, a3 float64) {
	sqrtH := math.Sqrt(tuningRatio)

	a1 = sqrtH/enclosureQ + 1/(sqrtH*totalQ)
	a2 = (complianceRatio+1)/tuningRatio + tuningRatio + 1/(enclosureQ*totalQ)
	a3 = sqrtH/totalQ + 1/(sqrtH*enclosureQ)

	return a1, a2, a3
}

// Response is one frequency-response sample: a frequency paired with the
// complex response value. Magnitude, phase and dB are pure functions of
// the pair and are never cached.
type Response struct {
	Freq float64
	Re   float64
	Im   float64
}

// Magnitude returns the linear response magnitude.
func (r Response) Magnitude() float64 {
	return math.Hypot(r.Re, r.Im)
}

// Phase returns the response phase in radians, in (-pi, pi].
func (r Response) Phase() float64 {
	if r.Re == 0 && r.Im == 0 {
		return 0
	}

	return math.Atan2(r.Im, r.Re)
}

// DB returns the response magnitude in decibels (20*log10 convention).
// Returns -Inf at zero magnitude.
func (r Response) DB() float64 {
	m := r.Magnitude()
	if m == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(m)
}

// Evaluate computes the fourth-order vented-box response at freq for a
// driver with free-air resonance fs, an enclosure tuned to fb with
// compliance ratio alpha, total driver Q and combined enclosure loss Q.
//
// With x = freq/sqrt(fs*fb) the response is the rational polynomial
//
//	G(jx) = x^4 / ((x^4 - a2*x^2 + 1) + j*(a3*x - a1*x^3))
//
// evaluated with explicit real/imaginary bookkeeping. The numerator is
// x^4, so the magnitude at freq = 0 is exactly zero and approaches one
// as freq grows beyond both resonances.
func Evaluate(freq, fs, fb, complianceRatio, totalQ, enclosureQ float64) Response {
	if freq <= 0 {
		return Response{Freq: freq}
	}

	h := fb / fs
	a1, a2, a3 := Coefficients(complianceRatio, h, totalQ, enclosureQ)

	return evaluate(freq, freq/math.Sqrt(fs*fb), a1, a2, a3)
}

func evaluate(freq, x, a1, a2, a3 float64) Response {
	x2 := x * x
	x4 := x2 * x2

	dre := x4 - a2*x2 + 1
	dim := a3*x - a1*x*x2
	den := dre*dre + dim*dim

	return Response{
		Freq: freq,
		Re:   x4 * dre / den,
		Im:   -x4 * dim / den,
	}
}

// System couples a driver to a vented enclosure. It is immutable: the
// compliance ratio, tuning ratio and combined loss are fixed at
// construction, so every derived quantity is a pure function of the
// system and safe for concurrent use.
type System struct {
	drv *driver.Driver
	enc enclosure.Config

	alpha float64 // Vas / Volume
	h     float64 // Fb / Fs
	f0    float64 // sqrt(Fs * Fb), the normalization frequency
	ql    float64 // combined enclosure loss Q

	a1, a2, a3 float64
}

// NewSystem validates the enclosure and builds the coupled system.
func NewSystem(d *driver.Driver, enc enclosure.Config) (*System, error) {
	if d == nil {
		return nil, ErrNilDriver
	}

	if err := enc.Validate(); err != nil {
		return nil, err
	}

	s := &System{
		drv:   d,
		enc:   enc,
		alpha: enc.ComplianceRatio(d.Vas),
		h:     enc.Tuning / d.Fs,
		f0:    math.Sqrt(d.Fs * enc.Tuning),
		ql:    enc.Losses.Combined(),
	}

	s.a1, s.a2, s.a3 = Coefficients(s.alpha, s.h, d.Qts, s.ql)

	return s, nil
}

// Driver returns the coupled driver.
func (s *System) Driver() *driver.Driver { return s.drv }

// Enclosure returns the enclosure configuration.
func (s *System) Enclosure() enclosure.Config { return s.enc }

// ComplianceRatio returns alpha = Vas / Volume.
func (s *System) ComplianceRatio() float64 { return s.alpha }

// TuningRatio returns h = Fb / Fs.
func (s *System) TuningRatio() float64 { return s.h }

// EnclosureQ returns the combined enclosure loss quality factor.
func (s *System) EnclosureQ() float64 { return s.ql }

// Response evaluates the system response at freq.
func (s *System) Response(freq float64) Response {
	if freq <= 0 {
		return Response{Freq: freq}
	}

	return evaluate(freq, freq/s.f0, s.a1, s.a2, s.a3)
}

// ResponseCurve samples the response at n log-spaced frequencies
// across [lo, hi].
func (s *System) ResponseCurve(lo, hi float64, n int) ([]Response, error) {
	if lo <= 0 || hi <= lo || n < 2 {
		return nil, fmt.Errorf("%w: lo=%v hi=%v n=%d", ErrInvalidRange, lo, hi, n)
	}

	freqs := floats.LogSpan(make([]float64, n), lo, hi)

	out := make([]Response, n)
	for i, f := range freqs {
		out[i] = s.Response(f)
	}

	return out, nil
}

// F3 finds the frequency at which the response sits 3 dB below the
// passband reference, sampled at five times the larger of the two
// resonance frequencies. The bisection bracket reaches down to a tenth
// of the smaller resonance and converges to within 0.1 Hz.
//
// The result is recomputed on every call; nothing is cached across
// parameter changes.
func (s *System) F3() (float64, error) {
	return f3Search(s.drv.Fs, s.enc.Tuning, s.alpha, s.drv.Qts, s.ql)
}

func f3Search(fs, fb, alpha, qt, ql float64) (float64, error) {
	hi := 5 * math.Max(fs, fb)
	lo := math.Min(fs, fb) / 10

	ref := Evaluate(hi, fs, fb, alpha, qt, ql).Magnitude()
	target := ref * math.Pow(10, -3.0/20)

	res, err := rootfind.Bisect(func(f float64) float64 {
		return Evaluate(f, fs, fb, alpha, qt, ql).Magnitude() - target
	}, lo, hi, rootfind.Options{Tolerance: f3Tolerance, MaxIter: 80})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoF3, err)
	}

	return res.Root, nil
}

// GroupDelay returns the group delay in seconds at freq: the negative
// derivative of phase with respect to angular frequency, computed by
// central differences with a relative step of 0.1% of freq (floored at
// 0.01 Hz). Phase discontinuities larger than pi are unwrapped by +-2pi
// before differencing.
func (s *System) GroupDelay(freq float64) (float64, error) {
	if freq <= 0 {
		return 0, fmt.Errorf("%w: got %v Hz", ErrInvalidFrequency, freq)
	}

	df := 0.001 * freq
	if df < groupDelayStepFloor {
		df = groupDelayStepFloor
	}

	if df >= freq {
		df = freq / 2
	}

	p1 := s.Response(freq - df).Phase()
	p2 := s.Response(freq + df).Phase()

	d := p2 - p1
	for d > math.Pi {
		d -= 2 * math.Pi
	}

	for d < -math.Pi {
		d += 2 * math.Pi
	}

	return -d / (2 * math.Pi * 2 * df), nil
}

// Excursion returns the normalized cone-displacement magnitude at freq:
// the box branch numerator over the fourth-order denominator,
//
//	|s^2*Tb^2 + s*Tb/Ql + 1| / |D(s)|
//
// normalized to one well below both resonances. The numerator notches at
// the tuning frequency, where the port absorbs nearly all cone motion;
// this null is the defining feature of vented-box excursion behavior.
func (s *System) Excursion(freq float64) float64 {
	if freq <= 0 {
		return 1
	}

	x := freq / s.f0
	sqrtH := math.Sqrt(s.h)

	nre := 1 - x*x/s.h
	nim := x / (sqrtH * s.ql)

	x2 := x * x
	dre := x2*x2 - s.a2*x2 + 1
	dim := s.a3*x - s.a1*x*x2

	return math.Hypot(nre, nim) / math.Hypot(dre, dim)
}
