package enclosure

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by enclosure validation.
var (
	ErrInvalidVolume = errors.New("enclosure: volume must be positive")
	ErrInvalidTuning = errors.New("enclosure: tuning frequency must be positive")
	ErrInvalidLossQ  = errors.New("enclosure: loss quality factors must be positive")
)

// Lossless is the sentinel quality factor for a loss mechanism that is
// absent. It participates in CombineQ as a zero contribution, so lossy and
// lossless configurations flow through the same formulas.
var Lossless = math.Inf(1)

// Losses holds the three independent enclosure loss mechanisms as
// quality factors. Use Lossless for mechanisms that should not contribute.
type Losses struct {
	Leakage    float64 // QL: air leaks through joints and driver gaskets
	Absorption float64 // QA: damping material and wall absorption
	Port       float64 // QP: port friction losses
}

// DefaultLosses returns the conventional leakage-dominated loss figures
// used when no measured values are available.
func DefaultLosses() Losses {
	return Losses{Leakage: 15, Absorption: 30, Port: 50}
}

// Combined returns the effective enclosure quality factor of the three
// mechanisms acting in parallel.
func (l Losses) Combined() float64 {
	return CombineQ(l.Leakage, l.Absorption, l.Port)
}

func (l Losses) validate() error {
	for _, q := range []float64{l.Leakage, l.Absorption, l.Port} {
		if q <= 0 || math.IsNaN(q) {
			return fmt.Errorf("%w: got (QL=%v, QA=%v, QP=%v)", ErrInvalidLossQ, l.Leakage, l.Absorption, l.Port)
		}
	}

	return nil
}

// Config describes a vented enclosure: internal volume, port tuning
// frequency and the loss mechanisms. Volume and Tuning are independent
// inputs; the compliance ratio is always derived from Volume and the
// driver's Vas via ComplianceRatio, never stored.
type Config struct {
	Volume float64 // net internal volume in m^3
	Tuning float64 // port resonance frequency in Hz
	Losses Losses
}

// Validate checks that the enclosure parameters are physical.
func (c Config) Validate() error {
	if c.Volume <= 0 || math.IsNaN(c.Volume) {
		return fmt.Errorf("%w: got %v m^3", ErrInvalidVolume, c.Volume)
	}

	if c.Tuning <= 0 || math.IsNaN(c.Tuning) {
		return fmt.Errorf("%w: got %v Hz", ErrInvalidTuning, c.Tuning)
	}

	return c.Losses.validate()
}

// ComplianceRatio returns alpha = Vas / Volume for a driver with
// equivalent compliance volume vas. Computed on demand so that a volume
// change can never leave a stale ratio behind.
func (c Config) ComplianceRatio(vas float64) float64 {
	return vas / c.Volume
}

// CombineQ combines independent loss quality factors acting in parallel:
//
//	1/Qeff = sum(1/Qi)
//
// An infinite input contributes zero loss. If every input is infinite the
// result is infinite (a genuinely lossless system, not an error). The
// result never exceeds the minimum of the inputs.
func CombineQ(qs ...float64) float64 {
	sum := 0.0
	for _, q := range qs {
		sum += 1 / q
	}

	if sum == 0 {
		return math.Inf(1)
	}

	return 1 / sum
}
