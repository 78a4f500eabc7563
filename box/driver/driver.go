package driver

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned by driver construction.
var (
	ErrInvalidParameter = errors.New("driver: parameter must be positive")
	ErrQOrdering        = errors.New("driver: total Q must be below both electrical and mechanical Q")
	ErrQInconsistent    = errors.New("driver: Qts, Qes and Qms are mutually inconsistent")
	ErrNoMechanical     = errors.New("driver: mechanical parameter set not supplied")
)

// speedOfSound is the propagation speed in air at 20 degC, in m/s.
const speedOfSound = 343.0

// Mechanical holds the electro-mechanical parameter subset needed for
// excursion and power-limit solving. It is optional: a driver constructed
// without it still supports response and alignment work.
type Mechanical struct {
	Re         float64 // voice coil DC resistance in ohm
	Bl         float64 // force factor in T*m
	Mms        float64 // moving mass including air load in kg
	Cms        float64 // suspension compliance in m/N
	Rms        float64 // mechanical resistance in N*s/m
	Xmax       float64 // linear excursion limit in m (one-way)
	Sd         float64 // effective diaphragm area in m^2
	PowerLimit float64 // thermal power limit in W
}

func (m Mechanical) validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"Re", m.Re},
		{"Bl", m.Bl},
		{"Mms", m.Mms},
		{"Cms", m.Cms},
		{"Rms", m.Rms},
		{"Xmax", m.Xmax},
		{"Sd", m.Sd},
		{"PowerLimit", m.PowerLimit},
	}

	for _, f := range fields {
		if f.value <= 0 || math.IsNaN(f.value) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidParameter, f.name, f.value)
		}
	}

	return nil
}

// Config describes a driver before validation. Fs, Qts and Vas are
// required; Qes and Qms are optional but checked for consistency with Qts
// when both are present; Mechanical is optional.
type Config struct {
	Fs  float64 // free-air resonance frequency in Hz
	Qts float64 // total quality factor at Fs
	Qes float64 // electrical quality factor (0 = unknown)
	Qms float64 // mechanical quality factor (0 = unknown)
	Vas float64 // equivalent compliance volume in m^3

	Mechanical *Mechanical
}

// Driver is an immutable driver parameter bundle. Derived quantities are
// computed once at construction.
type Driver struct {
	Fs  float64
	Qts float64
	Qes float64
	Qms float64
	Vas float64

	mech *Mechanical

	efficiency  float64
	sensitivity float64
}

// New validates cfg and constructs a Driver.
//
// When Qes and Qms are both supplied, they must satisfy the parallel
// relation 1/Qts = 1/Qes + 1/Qms within 5%, and Qts must sit below both
// (the definitional ordering). When only one is supplied the other is
// derived from that relation.
func New(cfg Config) (*Driver, error) {
	required := []struct {
		name  string
		value float64
	}{
		{"Fs", cfg.Fs},
		{"Qts", cfg.Qts},
		{"Vas", cfg.Vas},
	}

	for _, f := range required {
		if f.value <= 0 || math.IsNaN(f.value) {
			return nil, fmt.Errorf("%w: %s = %v", ErrInvalidParameter, f.name, f.value)
		}
	}

	qes, qms := cfg.Qes, cfg.Qms

	switch {
	case qes > 0 && qms > 0:
		if cfg.Qts >= qes || cfg.Qts >= qms {
			return nil, fmt.Errorf("%w: Qts=%v, Qes=%v, Qms=%v", ErrQOrdering, cfg.Qts, qes, qms)
		}

		implied := 1 / (1/qes + 1/qms)
		if math.Abs(implied-cfg.Qts)/cfg.Qts > 0.05 {
			return nil, fmt.Errorf("%w: Qes=%v and Qms=%v imply Qts=%.4f, got %v",
				ErrQInconsistent, qes, qms, implied, cfg.Qts)
		}
	case qes > 0:
		if cfg.Qts >= qes {
			return nil, fmt.Errorf("%w: Qts=%v, Qes=%v", ErrQOrdering, cfg.Qts, qes)
		}

		qms = 1 / (1/cfg.Qts - 1/qes)
	case qms > 0:
		if cfg.Qts >= qms {
			return nil, fmt.Errorf("%w: Qts=%v, Qms=%v", ErrQOrdering, cfg.Qts, qms)
		}

		qes = 1 / (1/cfg.Qts - 1/qms)
	}

	if cfg.Mechanical != nil {
		if err := cfg.Mechanical.validate(); err != nil {
			return nil, err
		}
	}

	d := &Driver{
		Fs:  cfg.Fs,
		Qts: cfg.Qts,
		Qes: qes,
		Qms: qms,
		Vas: cfg.Vas,
	}

	if cfg.Mechanical != nil {
		m := *cfg.Mechanical
		d.mech = &m
	}

	// Reference efficiency needs Qes; without any electrical figure the
	// estimate degrades to using Qts (an upper bound on damping).
	qRef := qes
	if qRef <= 0 {
		qRef = cfg.Qts
	}

	c3 := speedOfSound * speedOfSound * speedOfSound
	d.efficiency = 4 * math.Pi * math.Pi * cfg.Fs * cfg.Fs * cfg.Fs * cfg.Vas / (c3 * qRef)
	d.sensitivity = 112.02 + 10*math.Log10(d.efficiency)

	return d, nil
}

// Mechanical returns the electro-mechanical parameter subset, or
// ErrNoMechanical if the driver was constructed without one.
func (d *Driver) Mechanical() (Mechanical, error) {
	if d.mech == nil {
		return Mechanical{}, ErrNoMechanical
	}

	return *d.mech, nil
}

// Efficiency returns the half-space reference efficiency (dimensionless),
// computed once at construction.
func (d *Driver) Efficiency() float64 {
	return d.efficiency
}

// Sensitivity returns the estimated sensitivity in dB SPL at 1 W / 1 m,
// computed once at construction.
func (d *Driver) Sensitivity() float64 {
	return d.sensitivity
}
