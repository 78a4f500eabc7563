package testutil

import (
	"math"
	"testing"
)

func TestSynthesizeSingleTone(t *testing.T) {
	s := Synthesize([]Tone{{Freq: 1000, Amp: 0.5}}, 48000, 48)

	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}

	if s[0] != 0 {
		t.Fatalf("s[0] = %v, want 0 (phase zero)", s[0])
	}

	for i, v := range s {
		if v < -0.5 || v > 0.5 {
			t.Fatalf("s[%d] = %v exceeds amplitude", i, v)
		}
	}
}

func TestSynthesizeSumsComponents(t *testing.T) {
	a := Synthesize([]Tone{{Freq: 40, Amp: 1}}, 1024, 64)
	b := Synthesize([]Tone{{Freq: 80, Amp: 2}}, 1024, 64)
	sum := Synthesize([]Tone{{Freq: 40, Amp: 1}, {Freq: 80, Amp: 2}}, 1024, 64)

	for i := range sum {
		if math.Abs(sum[i]-(a[i]+b[i])) > 1e-12 {
			t.Fatalf("index %d: %v != %v + %v", i, sum[i], a[i], b[i])
		}
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	a := Synthesize([]Tone{{Freq: 440, Amp: 1}}, 44100, 128)
	b := Synthesize([]Tone{{Freq: 440, Amp: 1}}, 44100, 128)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic at index %d", i)
		}
	}
}
