// Package version carries the build-time stamped version info, in the
// same shape the teacher's p4prometheus/version package gave to
// kingpin's UsageTemplate().Version() call, so the two binaries can
// report their build the same way without depending on a Perforce
// package for a handful of ldflags-populated strings.
package version

import "fmt"

// These are overwritten by -ldflags "-X ...=..." at build time.
var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)

// Print renders the one-line banner kingpin shows for --version.
func Print(program string) string {
	return fmt.Sprintf("%s version %s (revision %s, built %s)", program, Version, Revision, BuildDate)
}
