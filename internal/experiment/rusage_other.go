//go:build !unix

package experiment

// peakRSS is unavailable without getrusage.
func peakRSS() uint64 { return 0 }
