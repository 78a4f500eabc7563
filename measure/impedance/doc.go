// Package impedance analyzes measured loudspeaker impedance curves.
//
// A vented enclosure shows a characteristic double-peaked impedance
// magnitude around resonance, with a valley at the enclosure tuning
// frequency. From the three characteristic frequencies alone the
// package recovers the driver resonance, the tuning frequency and the
// compliance ratio in closed form, with no curve fitting.
//
// Quality factors are measured from half-power bandwidths of single
// peaks, and individual loss mechanisms are isolated from differential
// measurements (baseline against modified enclosure).
//
// Curves can be supplied directly as frequency/magnitude samples or
// computed from synchronized sense-resistor voltage and current
// recordings via CurveFromCapture.
package impedance
