package vented

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-speaker/box/driver"
)

func airSuspension(t *testing.T, alpha float64) *AirSuspensionModel {
	t.Helper()

	m, err := NewAirSuspensionModel(testDriver(t), alpha)
	if err != nil {
		t.Fatalf("air suspension model: %v", err)
	}

	return m
}

func portCoupled(t *testing.T) *PortCoupledModel {
	t.Helper()

	m, err := NewPortCoupledModel(testSystem(t, lossyBox()), 0)
	if err != nil {
		t.Fatalf("port coupled model: %v", err)
	}

	return m
}

func TestAirSuspension_SqrtPowerScaling(t *testing.T) {
	m := airSuspension(t, 1.241)

	for _, f := range []float64{10, 22, 50, 100} {
		x1, err := m.Displacement(f, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		x2, err := m.Displacement(f, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ratio := x2 / x1
		if math.Abs(ratio-math.Sqrt2)/math.Sqrt2 > 0.05 {
			t.Fatalf("at %v Hz doubling power scales displacement by %v, want sqrt(2)", f, ratio)
		}
	}
}

func TestAirSuspension_ZeroPowerShortCircuits(t *testing.T) {
	m := airSuspension(t, 1.241)

	for _, p := range []float64{0, -5} {
		x, err := m.Displacement(30, p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if x != 0 {
			t.Fatalf("displacement at %v W = %v, want exact 0", p, x)
		}
	}
}

func TestAirSuspension_InvalidFrequency(t *testing.T) {
	m := airSuspension(t, 1.241)

	if _, err := m.Displacement(0, 10); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("got %v, want ErrInvalidFrequency", err)
	}

	if _, err := m.MaxSafePower(-1); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("got %v, want ErrInvalidFrequency", err)
	}
}

func TestAirSuspension_ClosedFormInverse(t *testing.T) {
	m := airSuspension(t, 1.241)

	// Well below resonance the thermal ceiling drives the cone past
	// Xmax, so the solve must switch to the excursion limit.
	res, err := m.MaxSafePower(12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Limit != LimitExcursion {
		t.Fatalf("limit = %v, want excursion", res.Limit)
	}

	if !res.Converged {
		t.Fatal("closed-form inverse must always converge")
	}

	// The closed form is exact: displacement at the solved power equals
	// the excursion limit.
	x, err := m.Displacement(12, res.Power)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(x-0.012) > 1e-12 {
		t.Fatalf("displacement at solved power = %v, want exactly Xmax 0.012", x)
	}

	if res.Power >= 500 {
		t.Fatalf("excursion-limited power %v not below the thermal ceiling", res.Power)
	}
}

func TestAirSuspension_ThermallyLimitedHighFrequency(t *testing.T) {
	m := airSuspension(t, 1.241)

	// High above resonance mass reactance keeps displacement small, so
	// the thermal ceiling binds.
	res, err := m.MaxSafePower(400)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Limit != LimitThermal {
		t.Fatalf("limit = %v, want thermal", res.Limit)
	}

	if res.Power != 500 {
		t.Fatalf("power = %v, want the 500 W ceiling", res.Power)
	}

	if res.Displacement > 0.012 {
		t.Fatalf("thermally limited displacement %v exceeds Xmax", res.Displacement)
	}
}

func TestPortCoupled_NullAtTuning(t *testing.T) {
	m := portCoupled(t)

	fb := 22.0

	at, err := m.Displacement(fb, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	below, err := m.Displacement(fb/2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	above, err := m.Displacement(1.5*fb, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if at > 0.6*below || at > 0.6*above {
		t.Fatalf("displacement at tuning %v not well below %v (fb/2) and %v (1.5 fb)", at, below, above)
	}
}

func TestPortCoupled_ExcursionLimitedBelowTuning(t *testing.T) {
	m := portCoupled(t)

	res, err := m.MaxSafePower(11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Limit != LimitExcursion {
		t.Fatalf("limit = %v, want excursion", res.Limit)
	}

	if !res.Converged {
		t.Fatal("bisection should converge well inside its cap")
	}

	if math.Abs(res.Displacement-0.012) > displacementTolerance {
		t.Fatalf("displacement at solved power = %v, want within %v of Xmax", res.Displacement, displacementTolerance)
	}

	if res.Power <= 0 || res.Power >= 500 {
		t.Fatalf("excursion-limited power %v outside (0, 500)", res.Power)
	}
}

func TestPortCoupled_ThermallyLimitedAtTuning(t *testing.T) {
	// The excursion null at the tuning frequency keeps the cone inside
	// Xmax even at full thermal power.
	m := portCoupled(t)

	res, err := m.MaxSafePower(22)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Limit != LimitThermal {
		t.Fatalf("limit = %v, want thermal (the tuning null protects the cone)", res.Limit)
	}

	if res.Power != 500 {
		t.Fatalf("power = %v, want the 500 W ceiling", res.Power)
	}
}

func TestPortCoupled_WithoutMechanicalSet(t *testing.T) {
	d, err := driver.New(driver.Config{Fs: 22, Qts: 0.53, Vas: 0.2482})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sys, err := NewSystem(d, lossyBox())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := NewPortCoupledModel(sys, 0); !errors.Is(err, driver.ErrNoMechanical) {
		t.Fatalf("got %v, want driver.ErrNoMechanical", err)
	}
}

func TestSystem_MaxSafePowerConvenience(t *testing.T) {
	s := testSystem(t, lossyBox())

	res, err := s.MaxSafePower(11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := portCoupled(t)

	direct, err := m.MaxSafePower(11)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(res.Power-direct.Power) > 1e-9 {
		t.Fatalf("convenience solve %v W differs from direct model %v W", res.Power, direct.Power)
	}
}

func TestLimit_String(t *testing.T) {
	if LimitThermal.String() != "thermal" || LimitExcursion.String() != "excursion" {
		t.Fatalf("unexpected limit names: %v, %v", LimitThermal, LimitExcursion)
	}
}
