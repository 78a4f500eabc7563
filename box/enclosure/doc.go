// Package enclosure describes vented loudspeaker enclosures: net volume,
// port tuning and the parallel combination of leakage, absorption and port
// friction losses into one effective quality factor.
package enclosure
