// Package bits provides low-level bit manipulation primitives.
package bits

import "math/bits"

// Threshold64 returns floor(num * 2^64 / den) for num < den.
// The product is formed in 128 bits, so the threshold is exact.
// ok is false when num >= den, i.e. the threshold would be 2^64 or more.
func Threshold64(num, den uint64) (threshold uint64, ok bool) {
	if num >= den {
		return 0, false
	}
	threshold, _ = bits.Div64(num, 0, den)
	return threshold, true
}

// Threshold32 is Threshold64 for 32-bit draws, computed in 64 bits.
// den may be as large as 2^32.
func Threshold32(num uint32, den uint64) (threshold uint32, ok bool) {
	if uint64(num) >= den {
		return 0, false
	}
	return uint32((uint64(num) << 32) / den), true
}

// Chance64 is a weighted coin: for a uniform r it returns true with
// probability num/den, exact up to 2^-64. Only integer comparisons are used.
// den must be non-zero.
func Chance64(r, num, den uint64) bool {
	t, ok := Threshold64(num, den)
	if !ok {
		return true
	}
	return r < t
}

// Chance32 is Chance64 for 32-bit draws. den may be as large as 2^32.
func Chance32(r, num uint32, den uint64) bool {
	t, ok := Threshold32(num, den)
	if !ok {
		return true
	}
	return r < t
}

// FastRange64 maps a 64-bit hash uniformly to [0, n).
// Uses the "fastrange" technique: multiply and take high bits.
// This is the standard way to map hashes to ranges without modulo bias,
// but unlike the consistent hashes it re-deals almost every key when n changes.
func FastRange64(hash, n uint64) uint64 {
	hi, _ := bits.Mul64(hash, n)
	return hi
}
