// Package vented models the fourth-order lumped-parameter response of a
// driver coupled to a vented (ported) enclosure.
//
// The package covers the forward problem (complex frequency response,
// -3 dB frequency, group delay, cone excursion), the inverse alignment
// problem (solving compliance and tuning ratios for a named response
// family), the maximum-safe-power problem (thermal versus excursion
// limiting), and parameter sensitivity of the -3 dB frequency.
//
// Everything is a pure function of immutable inputs: a System never
// mutates after construction, no result is cached across parameter
// changes, and concurrent use needs no locking.
//
// # Usage
//
//	drv, _ := driver.New(driver.Config{Fs: 22, Qts: 0.39, Qes: 0.42, Vas: 0.2482})
//	sys, _ := vented.NewSystem(drv, enclosure.Config{
//		Volume: 0.2,
//		Tuning: 22,
//		Losses: enclosure.DefaultLosses(),
//	})
//	f3, _ := sys.F3()
package vented
