//go:build unix

package experiment

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// peakRSS returns the peak resident set size of the process in bytes,
// or 0 if it cannot be read.
func peakRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	rss := uint64(ru.Maxrss)
	// Darwin reports bytes, everything else kilobytes.
	if runtime.GOOS != "darwin" && runtime.GOOS != "ios" {
		rss *= 1024
	}
	return rss
}
