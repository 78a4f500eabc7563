package vented

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-speaker/box/driver"
	"github.com/cwbudde/algo-speaker/internal/rootfind"
)

// Errors returned by the excursion solvers.
var (
	ErrInvalidComplianceRatio = errors.New("vented: compliance ratio must not be negative")
	ErrPowerSolve             = errors.New("vented: power inversion failed")
)

// DefaultExcursionExponent is the empirically fitted exponent applied to
// the ratio of the enclosure-coupled to enclosure-free displacement
// magnitudes in PortCoupledModel.
//
// This is an approximation pending a full electro-mechanical-acoustical
// network solution: against reference simulations it holds displacement
// within roughly 15% across the passband and preserves the excursion
// null at the tuning frequency. Swap in an exact network model by
// providing another ExcursionModel implementation.
const DefaultExcursionExponent = 0.85

const (
	// displacementTolerance is the absolute displacement convergence
	// tolerance of the bisection inverse, in meters (0.05 mm).
	displacementTolerance = 5e-5

	powerMaxIter = 60
)

// Limit names which constraint bounds the safe input power.
type Limit int

// Limiting constraints.
const (
	LimitThermal Limit = iota
	LimitExcursion
)

func (l Limit) String() string {
	switch l {
	case LimitThermal:
		return "thermal"
	case LimitExcursion:
		return "excursion"
	default:
		return fmt.Sprintf("Limit(%d)", int(l))
	}
}

// PowerLimit is the outcome of a maximum-safe-power solve.
//
// Converged is false when the bisection inverse hit its iteration cap;
// Power then holds the final bracket midpoint, the best available
// estimate.
type PowerLimit struct {
	Power        float64 // maximum safe input power in W
	Limit        Limit   // which constraint binds
	Displacement float64 // cone displacement at that power in m
	Converged    bool
}

// ExcursionModel couples electrical input power to cone displacement and
// solves the inverse. The two implementations are first-class strategies
// selected by enclosure topology: AirSuspensionModel has an exact
// algebraic inverse, PortCoupledModel inverts by bisection.
type ExcursionModel interface {
	// Displacement returns peak cone displacement in meters for the
	// given input power in watts. Power at or below zero short-circuits
	// to zero displacement.
	Displacement(freq, power float64) (float64, error)

	// MaxSafePower returns the largest input power that stays within
	// both the thermal limit and the linear excursion limit at freq.
	MaxSafePower(freq float64) (PowerLimit, error)
}

// AirSuspensionModel models cone displacement for a driver in a closed
// volume of air (no port). The mechanical impedance approximation is
//
//	|Zm| = sqrt(Rtot^2 + (w*Mms - (1+alpha)/(w*Cms))^2)
//	Rtot = Rms + Bl^2/Re
//	x(w) = Bl*sqrt(P/Re) / (w*|Zm|)
//
// so displacement scales with the square root of power, and the
// excursion-limited power has the exact closed form
// P = Plimit * (Xmax/x(Plimit))^2. A compliance ratio of zero describes
// the driver in free air.
type AirSuspensionModel struct {
	mech  driver.Mechanical
	alpha float64
}

// NewAirSuspensionModel builds the closed-volume displacement model.
// The driver must carry its mechanical parameter set.
func NewAirSuspensionModel(d *driver.Driver, complianceRatio float64) (*AirSuspensionModel, error) {
	if d == nil {
		return nil, ErrNilDriver
	}

	mech, err := d.Mechanical()
	if err != nil {
		return nil, err
	}

	if complianceRatio < 0 || math.IsNaN(complianceRatio) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidComplianceRatio, complianceRatio)
	}

	return &AirSuspensionModel{mech: mech, alpha: complianceRatio}, nil
}

// Displacement implements ExcursionModel.
func (m *AirSuspensionModel) Displacement(freq, power float64) (float64, error) {
	if freq <= 0 || math.IsNaN(freq) {
		return 0, fmt.Errorf("%w: got %v Hz", ErrInvalidFrequency, freq)
	}

	if power <= 0 {
		return 0, nil
	}

	return m.displacement(freq, power), nil
}

func (m *AirSuspensionModel) displacement(freq, power float64) float64 {
	w := 2 * math.Pi * freq

	rtot := m.mech.Rms + m.mech.Bl*m.mech.Bl/m.mech.Re
	react := w*m.mech.Mms - (1+m.alpha)/(w*m.mech.Cms)
	zm := math.Hypot(rtot, react)

	return m.mech.Bl * math.Sqrt(power/m.mech.Re) / (w * zm)
}

// MaxSafePower implements ExcursionModel using the closed-form inverse;
// no search is involved, so the result is always converged.
func (m *AirSuspensionModel) MaxSafePower(freq float64) (PowerLimit, error) {
	if freq <= 0 || math.IsNaN(freq) {
		return PowerLimit{}, fmt.Errorf("%w: got %v Hz", ErrInvalidFrequency, freq)
	}

	atThermal := m.displacement(freq, m.mech.PowerLimit)
	if atThermal <= m.mech.Xmax {
		return PowerLimit{
			Power:        m.mech.PowerLimit,
			Limit:        LimitThermal,
			Displacement: atThermal,
			Converged:    true,
		}, nil
	}

	ratio := m.mech.Xmax / atThermal

	return PowerLimit{
		Power:        m.mech.PowerLimit * ratio * ratio,
		Limit:        LimitExcursion,
		Displacement: m.mech.Xmax,
		Converged:    true,
	}, nil
}

// PortCoupledModel models cone displacement in a vented enclosure as the
// free-air displacement scaled by the loading correction
//
//	kappa(f) = (Hv(f) / Hf(f))^gamma
//
// where Hv is the system's normalized cone-displacement magnitude
// (System.Excursion, carrying the tuning-frequency null), Hf the
// second-order free-air displacement magnitude, and gamma the fitted
// exponent (DefaultExcursionExponent). No closed-form power inverse is
// assumed; MaxSafePower bisects over the bounded power range.
type PortCoupledModel struct {
	sys      *System
	mech     driver.Mechanical
	free     AirSuspensionModel
	exponent float64
}

// NewPortCoupledModel builds the vented displacement model. An exponent
// at or below zero selects DefaultExcursionExponent.
func NewPortCoupledModel(sys *System, exponent float64) (*PortCoupledModel, error) {
	if sys == nil {
		return nil, ErrNilDriver
	}

	mech, err := sys.drv.Mechanical()
	if err != nil {
		return nil, err
	}

	if exponent <= 0 || math.IsNaN(exponent) {
		exponent = DefaultExcursionExponent
	}

	return &PortCoupledModel{
		sys:      sys,
		mech:     mech,
		free:     AirSuspensionModel{mech: mech, alpha: 0},
		exponent: exponent,
	}, nil
}

// loading returns kappa(f), the enclosure loading correction.
func (m *PortCoupledModel) loading(freq float64) float64 {
	hv := m.sys.Excursion(freq)

	y := freq / m.sys.drv.Fs
	hf := 1 / math.Hypot(1-y*y, y/m.sys.drv.Qts)

	return math.Pow(hv/hf, m.exponent)
}

// Displacement implements ExcursionModel.
func (m *PortCoupledModel) Displacement(freq, power float64) (float64, error) {
	if freq <= 0 || math.IsNaN(freq) {
		return 0, fmt.Errorf("%w: got %v Hz", ErrInvalidFrequency, freq)
	}

	if power <= 0 {
		return 0, nil
	}

	return m.displacement(freq, power), nil
}

func (m *PortCoupledModel) displacement(freq, power float64) float64 {
	return m.free.displacement(freq, power) * m.loading(freq)
}

// MaxSafePower implements ExcursionModel. The excursion-limited power is
// found by bisection over (0, PowerLimit], converging when displacement
// lands within 0.05 mm of Xmax; if the 60-iteration cap is hit, the final
// bracket midpoint is returned with Converged set to false.
func (m *PortCoupledModel) MaxSafePower(freq float64) (PowerLimit, error) {
	if freq <= 0 || math.IsNaN(freq) {
		return PowerLimit{}, fmt.Errorf("%w: got %v Hz", ErrInvalidFrequency, freq)
	}

	atThermal := m.displacement(freq, m.mech.PowerLimit)
	if atThermal <= m.mech.Xmax {
		return PowerLimit{
			Power:        m.mech.PowerLimit,
			Limit:        LimitThermal,
			Displacement: atThermal,
			Converged:    true,
		}, nil
	}

	res, err := rootfind.Bisect(func(p float64) float64 {
		if p <= 0 {
			return -m.mech.Xmax
		}

		return m.displacement(freq, p) - m.mech.Xmax
	}, 0, m.mech.PowerLimit, rootfind.Options{
		Tolerance:  m.mech.PowerLimit * 1e-9,
		FTolerance: displacementTolerance,
		MaxIter:    powerMaxIter,
	})
	if err != nil {
		return PowerLimit{}, fmt.Errorf("%w at %v Hz: %v", ErrPowerSolve, freq, err)
	}

	return PowerLimit{
		Power:        res.Root,
		Limit:        LimitExcursion,
		Displacement: m.displacement(freq, res.Root),
		Converged:    res.Converged,
	}, nil
}

// MaxSafePower solves the port-coupled power limit for the system using
// the default loading-correction exponent.
func (s *System) MaxSafePower(freq float64) (PowerLimit, error) {
	m, err := NewPortCoupledModel(s, 0)
	if err != nil {
		return PowerLimit{}, err
	}

	return m.MaxSafePower(freq)
}
