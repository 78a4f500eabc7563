// Package driver models electrodynamic loudspeaker drivers as immutable
// Thiele/Small parameter bundles with construction-time validation and
// cached derived quantities (reference efficiency, sensitivity estimate).
package driver
