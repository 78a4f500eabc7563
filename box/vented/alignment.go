package vented

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-speaker/internal/rootfind"
)

// Errors returned by alignment synthesis.
var (
	ErrInvalidTarget         = errors.New("vented: alignment target coefficients must be positive")
	ErrInvalidRipple         = errors.New("vented: ripple must be positive")
	ErrInvalidQ              = errors.New("vented: quality factor must be positive")
	ErrUnphysicalAlignment   = errors.New("vented: alignment has no physical solution")
	ErrAlignmentBelowDriverQ = errors.New("vented: alignment total Q at or below driver Qts")
	ErrAlignmentDiverged     = errors.New("vented: alignment iteration hit the cap without converging")
	ErrExperimentalAlignment = errors.New("vented: alignment family is experimental and gated off")
)

// Newton-Raphson settings for the lossy tuning-ratio solve.
const (
	alignTolerance = 1e-4
	alignMaxIter   = 20
)

// Target is a named response family expressed as the three normalized
// fourth-order denominator coefficients. It is pure data with no behavior.
type Target struct {
	Name string
	A1   float64
	A2   float64
	A3   float64
}

// B4 returns the maximally-flat (fourth-order Butterworth) target.
func B4() Target {
	return Target{
		Name: "B4",
		A1:   2.613125930,
		A2:   3.414213562,
		A3:   2.613125930,
	}
}

// C4 returns the fourth-order Chebyshev equal-ripple target for the given
// passband ripple in dB.
//
// The coefficients come from the Chebyshev lowpass prototype poles
//
//	p_m = -sinh(A)*sin(theta_m) + j*cosh(A)*cos(theta_m)
//	A   = asinh(1/eps)/4,  eps = sqrt(10^(ripple/10) - 1)
//
// normalized to unit constant term and reversed for the highpass
// topology. As ripple approaches zero the target converges to B4, and
// increasing ripple monotonically lowers the tuning ratio the
// synthesizer solves for.
func C4(rippleDB float64) (Target, error) {
	if rippleDB <= 0 || math.IsNaN(rippleDB) {
		return Target{}, fmt.Errorf("%w: got %v dB", ErrInvalidRipple, rippleDB)
	}

	eps := math.Sqrt(math.Pow(10, rippleDB/10) - 1)
	a := math.Asinh(1/eps) / 4
	sh := math.Sinh(a)
	ch := math.Cosh(a)

	s1, c1 := math.Sin(math.Pi/8), math.Cos(math.Pi/8)
	s3, c3 := math.Sin(3*math.Pi/8), math.Cos(3*math.Pi/8)

	// Conjugate pole pairs expanded to quadratic factors
	// s^2 + b*s + c, then combined into the quartic.
	b1 := 2 * sh * s1
	c1q := sh*sh*s1*s1 + ch*ch*c1*c1
	b2 := 2 * sh * s3
	c2q := sh*sh*s3*s3 + ch*ch*c3*c3

	// Scale to unit constant term, then reverse coefficients for the
	// highpass transform s -> 1/s.
	k := math.Pow(c1q*c2q, 0.25)
	lp1 := (b1 + b2) / k
	lp2 := (c1q + c2q + b1*b2) / (k * k)
	lp3 := (b1*c2q + b2*c1q) / (k * k * k)

	return Target{
		Name: fmt.Sprintf("C4 (%g dB)", rippleDB),
		A1:   lp3,
		A2:   lp2,
		A3:   lp1,
	}, nil
}

// QB3 is a quasi-third-order Butterworth target.
//
// The inverse solve for this family is known to be wrong in part of its
// parameter range and has not been validated against the original
// tabulated reference curves, so it is gated off rather than silently
// corrected.
func QB3() (Target, error) {
	return Target{}, fmt.Errorf("%w: QB3 pending validation against reference charts", ErrExperimentalAlignment)
}

// SBB4 is a super-fourth-order boom-box target. Gated off for the same
// reason as QB3.
func SBB4() (Target, error) {
	return Target{}, fmt.Errorf("%w: SBB4 pending validation against reference charts", ErrExperimentalAlignment)
}

// Alignment is a solved enclosure prescription for a target response
// family.
//
// RequiredQt is the total driver Q the target demands; feeding
// (TuningRatio, ComplianceRatio, RequiredQt) back through Coefficients
// reproduces the target within numerical tolerance.
type Alignment struct {
	ComplianceRatio float64
	TuningRatio     float64
	RequiredQt      float64
	Iterations      int
	Converged       bool
}

// Synthesize inverts the coefficient equations of a target response
// family: it finds the tuning ratio h and compliance ratio alpha that
// realize the target with enclosure loss enclosureQ, and the total Q the
// target requires.
//
// Lossless enclosures (enclosureQ = +Inf) admit the direct solution
// h = A3/A1 from the symmetric coefficient pair; lossy enclosures need
// Newton-Raphson on
//
//	f(h) = A1*h - (h^1.5 - h^-0.5)/Ql - A3
//
// seeded from the lossless solution. The iteration is capped at 20
// rounds; a physically sane target always converges, so hitting the cap
// is reported as an error rather than returning a silent non-converged
// value.
//
// driverQts gates achievability: a vented enclosure cannot lower the
// driver's total Q, so targets whose required Q sits at or below the
// driver's are rejected as physically impossible.
func Synthesize(target Target, driverQts, enclosureQ float64) (Alignment, error) {
	if target.A1 <= 0 || target.A2 <= 0 || target.A3 <= 0 {
		return Alignment{}, fmt.Errorf("%w: got (%v, %v, %v)", ErrInvalidTarget, target.A1, target.A2, target.A3)
	}

	if driverQts <= 0 || math.IsNaN(driverQts) {
		return Alignment{}, fmt.Errorf("%w: driver Qts = %v", ErrInvalidQ, driverQts)
	}

	if enclosureQ <= 0 || math.IsNaN(enclosureQ) {
		return Alignment{}, fmt.Errorf("%w: enclosure Q = %v", ErrInvalidQ, enclosureQ)
	}

	h := target.A3 / target.A1
	iterations := 0

	if !math.IsInf(enclosureQ, 1) {
		f := func(h float64) float64 {
			return target.A1*h - (math.Pow(h, 1.5)-math.Pow(h, -0.5))/enclosureQ - target.A3
		}
		df := func(h float64) float64 {
			return target.A1 - (1.5*math.Sqrt(h)+0.5*math.Pow(h, -1.5))/enclosureQ
		}

		res, err := rootfind.Newton(f, df, h, rootfind.Options{Tolerance: alignTolerance, MaxIter: alignMaxIter})
		if err != nil {
			return Alignment{}, fmt.Errorf("%w (%s): %v", ErrAlignmentDiverged, target.Name, err)
		}

		h = res.Root
		iterations = res.Iterations
	}

	if h <= 0 || math.IsNaN(h) {
		return Alignment{}, fmt.Errorf("%w (%s): tuning ratio %v", ErrUnphysicalAlignment, target.Name, h)
	}

	sqrtH := math.Sqrt(h)

	invQt := target.A1*sqrtH - h/enclosureQ
	if invQt <= 0 {
		return Alignment{}, fmt.Errorf("%w (%s): required total Q is non-physical (1/Qt = %v)",
			ErrUnphysicalAlignment, target.Name, invQt)
	}

	qt := 1 / invQt

	alpha := (target.A2-h-1/(enclosureQ*qt))*h - 1
	if alpha <= 0 {
		return Alignment{}, fmt.Errorf("%w (%s): compliance ratio %v", ErrUnphysicalAlignment, target.Name, alpha)
	}

	if qt <= driverQts {
		return Alignment{}, fmt.Errorf(
			"%w: %s requires total Q %.4f but the driver already has Qts %.4f; an enclosure only stiffens the suspension and cannot reduce total Q",
			ErrAlignmentBelowDriverQ, target.Name, qt, driverQts)
	}

	return Alignment{
		ComplianceRatio: alpha,
		TuningRatio:     h,
		RequiredQt:      qt,
		Iterations:      iterations,
		Converged:       true,
	}, nil
}
