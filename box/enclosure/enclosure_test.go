package enclosure

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestCombineQ_SingleFiniteInput(t *testing.T) {
	got := CombineQ(10, Lossless, Lossless)
	if !almostEqual(got, 10, 1e-12) {
		t.Fatalf("CombineQ(10, inf, inf)=%v, want 10", got)
	}
}

func TestCombineQ_ThreeEqualInputs(t *testing.T) {
	got := CombineQ(10, 10, 10)
	if !almostEqual(got, 10.0/3.0, 1e-12) {
		t.Fatalf("CombineQ(10, 10, 10)=%v, want %v", got, 10.0/3.0)
	}
}

func TestCombineQ_AllInfinite(t *testing.T) {
	got := CombineQ(Lossless, Lossless)
	if !math.IsInf(got, 1) {
		t.Fatalf("CombineQ(inf, inf)=%v, want +Inf", got)
	}
}

func TestCombineQ_NeverExceedsMinimum(t *testing.T) {
	cases := [][]float64{
		{7, 30, 100},
		{0.5, 0.5},
		{3, Lossless},
		{1000, 1, 1000},
	}

	for _, qs := range cases {
		min := math.Inf(1)
		for _, q := range qs {
			if q < min {
				min = q
			}
		}

		got := CombineQ(qs...)
		if got > min+1e-12 {
			t.Fatalf("CombineQ(%v)=%v exceeds min input %v", qs, got, min)
		}
	}
}

func TestLosses_Combined(t *testing.T) {
	l := DefaultLosses()
	want := 1 / (1/15.0 + 1/30.0 + 1/50.0)

	if got := l.Combined(); !almostEqual(got, want, 1e-12) {
		t.Fatalf("Combined()=%v, want %v", got, want)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Volume: 0.05, Tuning: 30, Losses: DefaultLosses()}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero volume", Config{Volume: 0, Tuning: 30, Losses: DefaultLosses()}, ErrInvalidVolume},
		{"negative volume", Config{Volume: -1, Tuning: 30, Losses: DefaultLosses()}, ErrInvalidVolume},
		{"zero tuning", Config{Volume: 0.05, Tuning: 0, Losses: DefaultLosses()}, ErrInvalidTuning},
		{"negative loss", Config{Volume: 0.05, Tuning: 30, Losses: Losses{Leakage: -7, Absorption: 30, Port: 50}}, ErrInvalidLossQ},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestConfig_ComplianceRatio(t *testing.T) {
	cfg := Config{Volume: 0.2, Tuning: 22, Losses: DefaultLosses()}

	if got := cfg.ComplianceRatio(0.2482); !almostEqual(got, 1.241, 1e-12) {
		t.Fatalf("ComplianceRatio=%v, want 1.241", got)
	}

	// Changing the volume must change the derived ratio immediately.
	cfg.Volume = 0.1241
	if got := cfg.ComplianceRatio(0.2482); !almostEqual(got, 2, 1e-12) {
		t.Fatalf("ComplianceRatio after volume change=%v, want 2", got)
	}
}

func TestLossless_FlowsThroughCombine(t *testing.T) {
	l := Losses{Leakage: 7, Absorption: Lossless, Port: Lossless}
	if got := l.Combined(); !almostEqual(got, 7, 1e-12) {
		t.Fatalf("Combined()=%v, want 7", got)
	}
}
