package vented

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-speaker/box/driver"
	"github.com/cwbudde/algo-speaker/box/enclosure"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// testDriver is the end-to-end reference driver: 22 Hz free-air
// resonance, Qts 0.53, 248.2 L compliance volume, with a mechanical set
// chosen so the free-air resonance implied by Mms and Cms matches Fs.
func testDriver(t *testing.T) *driver.Driver {
	t.Helper()

	mech := driver.Mechanical{
		Re:         5.6,
		Bl:         18.5,
		Mms:        0.220,
		Cms:        2.4e-4,
		Rms:        5.0,
		Xmax:       0.012,
		Sd:         0.0829,
		PowerLimit: 500,
	}

	d, err := driver.New(driver.Config{
		Fs:         22,
		Qts:        0.53,
		Vas:        0.2482,
		Mechanical: &mech,
	})
	if err != nil {
		t.Fatalf("test driver: %v", err)
	}

	return d
}

func losslessBox() enclosure.Config {
	return enclosure.Config{
		Volume: 0.2,
		Tuning: 22,
		Losses: enclosure.Losses{
			Leakage:    enclosure.Lossless,
			Absorption: enclosure.Lossless,
			Port:       enclosure.Lossless,
		},
	}
}

func lossyBox() enclosure.Config {
	return enclosure.Config{Volume: 0.2, Tuning: 22, Losses: enclosure.DefaultLosses()}
}

// alignedSystem builds the maximally-flat reference: a driver whose
// total Q matches what B4 demands, in the box volume and tuning the
// synthesis prescribes (alpha = sqrt(2), h = 1) for a 22 Hz / 200 l
// combination. The flat-passband properties hold on this system, not on
// the deliberately underdamped testDriver fixture.
func alignedSystem(t *testing.T) *System {
	t.Helper()

	a, err := Synthesize(B4(), 0.2, enclosure.Lossless)
	if err != nil {
		t.Fatalf("aligned fixture: %v", err)
	}

	const volume = 0.2

	d, err := driver.New(driver.Config{
		Fs:  22,
		Qts: a.RequiredQt,
		Vas: a.ComplianceRatio * volume,
	})
	if err != nil {
		t.Fatalf("aligned fixture driver: %v", err)
	}

	s, err := NewSystem(d, enclosure.Config{
		Volume: volume,
		Tuning: a.TuningRatio * 22,
		Losses: enclosure.Losses{
			Leakage:    enclosure.Lossless,
			Absorption: enclosure.Lossless,
			Port:       enclosure.Lossless,
		},
	})
	if err != nil {
		t.Fatalf("aligned fixture system: %v", err)
	}

	return s
}

func testSystem(t *testing.T, enc enclosure.Config) *System {
	t.Helper()

	s, err := NewSystem(testDriver(t), enc)
	if err != nil {
		t.Fatalf("test system: %v", err)
	}

	return s
}
