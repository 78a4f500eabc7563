// Package rootfind provides bounded scalar root-finding shared by the
// alignment and excursion solvers. Both solvers carry explicit iteration
// caps and convergence tolerances so that non-convergent inputs terminate
// with the best available estimate instead of looping.
package rootfind

import (
	"errors"
	"math"
)

// Errors returned by root-finding functions.
var (
	ErrNoConvergence   = errors.New("rootfind: iteration cap reached without convergence")
	ErrInvalidBracket  = errors.New("rootfind: bracket does not enclose a sign change")
	ErrDerivativeZero  = errors.New("rootfind: derivative vanished at iterate")
	ErrInvalidOptions  = errors.New("rootfind: tolerance and iteration cap must be positive")
	ErrNonFiniteResult = errors.New("rootfind: function produced a non-finite value")
)

// Options controls convergence of the scalar solvers.
type Options struct {
	Tolerance float64 // absolute convergence tolerance on the iterate
	MaxIter   int     // hard iteration cap

	// FTolerance, when positive, lets Bisect additionally declare
	// convergence once |f(mid)| falls below it. Used by solvers whose
	// tolerance is naturally expressed in the function's units rather
	// than the iterate's.
	FTolerance float64
}

// Result holds the outcome of a scalar solve.
//
// Converged is false when the iteration cap was reached; Root then holds
// the best available estimate (for Bisect, the final bracket midpoint).
type Result struct {
	Root       float64
	Iterations int
	Converged  bool
}

func (o Options) validate() error {
	if o.Tolerance <= 0 || o.MaxIter <= 0 {
		return ErrInvalidOptions
	}

	return nil
}

// Newton solves f(x) = 0 by Newton-Raphson iteration starting from x0.
//
// Convergence is declared when successive iterates differ by less than
// opts.Tolerance. Exceeding the iteration cap is treated as a hard error:
// callers use Newton only where a solution is analytically guaranteed, so
// non-convergence signals a bug or an unphysical input, not a degraded
// estimate worth returning.
func Newton(f, df func(float64) float64, x0 float64, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	x := x0
	for i := 1; i <= opts.MaxIter; i++ {
		fx := f(x)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			return Result{Root: x, Iterations: i}, ErrNonFiniteResult
		}

		d := df(x)
		if d == 0 {
			return Result{Root: x, Iterations: i}, ErrDerivativeZero
		}

		next := x - fx/d
		if math.Abs(next-x) < opts.Tolerance {
			return Result{Root: next, Iterations: i, Converged: true}, nil
		}

		x = next
	}

	return Result{Root: x, Iterations: opts.MaxIter}, ErrNoConvergence
}

// Bisect solves f(x) = 0 on [lo, hi] by bisection. The bracket must
// enclose a sign change.
//
// Convergence is declared when the bracket width falls below
// opts.Tolerance. Exceeding the iteration cap is non-fatal: the final
// bracket midpoint is returned with Converged set to false, so callers
// can accept or reject the estimate themselves.
func Bisect(f func(float64) float64, lo, hi float64, opts Options) (Result, error) {
	if err := opts.validate(); err != nil {
		return Result{}, err
	}

	if lo > hi {
		lo, hi = hi, lo
	}

	flo := f(lo)
	fhi := f(hi)

	if math.IsNaN(flo) || math.IsNaN(fhi) {
		return Result{}, ErrNonFiniteResult
	}

	if flo == 0 {
		return Result{Root: lo, Converged: true}, nil
	}

	if fhi == 0 {
		return Result{Root: hi, Converged: true}, nil
	}

	if flo*fhi > 0 {
		return Result{}, ErrInvalidBracket
	}

	for i := 1; i <= opts.MaxIter; i++ {
		mid := 0.5 * (lo + hi)
		fmid := f(mid)

		if math.IsNaN(fmid) {
			return Result{Root: mid, Iterations: i}, ErrNonFiniteResult
		}

		if fmid == 0 || hi-lo < opts.Tolerance ||
			(opts.FTolerance > 0 && math.Abs(fmid) < opts.FTolerance) {
			return Result{Root: mid, Iterations: i, Converged: true}, nil
		}

		if flo*fmid < 0 {
			hi = mid
		} else {
			lo = mid
			flo = fmid
		}
	}

	return Result{Root: 0.5 * (lo + hi), Iterations: opts.MaxIter}, nil
}
