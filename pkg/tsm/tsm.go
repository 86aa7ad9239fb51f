// Package tsm holds application-level metadata of the time series
// manager.
package tsm

var (
	// Version is set by build flags.
	Version = "dev"

	// Build is the build timestamp, set by build flags.
	Build = "n/a"
)
