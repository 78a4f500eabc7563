package vented_test

import (
	"fmt"

	"github.com/cwbudde/algo-speaker/box/driver"
	"github.com/cwbudde/algo-speaker/box/enclosure"
	"github.com/cwbudde/algo-speaker/box/vented"
)

func ExampleSynthesize() {
	// Solve the maximally-flat alignment for a Qts 0.30 driver in a
	// lossless enclosure.
	a, err := vented.Synthesize(vented.B4(), 0.30, enclosure.Lossless)
	if err != nil {
		panic(err)
	}

	fmt.Printf("tuning ratio     %.3f\n", a.TuningRatio)
	fmt.Printf("compliance ratio %.3f\n", a.ComplianceRatio)
	fmt.Printf("required Qt      %.3f\n", a.RequiredQt)
	// Output:
	// tuning ratio     1.000
	// compliance ratio 1.414
	// required Qt      0.383
}

func ExampleSystem_F3() {
	drv, err := driver.New(driver.Config{Fs: 22, Qts: 0.53, Vas: 0.2482})
	if err != nil {
		panic(err)
	}

	sys, err := vented.NewSystem(drv, enclosure.Config{
		Volume: 0.2,
		Tuning: 22,
		Losses: enclosure.Losses{
			Leakage:    enclosure.Lossless,
			Absorption: enclosure.Lossless,
			Port:       enclosure.Lossless,
		},
	})
	if err != nil {
		panic(err)
	}

	f3, err := sys.F3()
	if err != nil {
		panic(err)
	}

	fmt.Printf("bass extension below free-air resonance: %v\n", f3 < drv.Fs)
	// Output:
	// bass extension below free-air resonance: true
}
