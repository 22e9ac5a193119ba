// Package mix implements the keyed bit generator: a deterministic stream of
// pseudorandom words indexed by (key, seed, level).
//
// Every output bit depends on every input bit. Outputs at distinct levels of
// the same key are statistically independent, as are outputs of distinct
// keys. The constants are frozen: changing them changes every hash value.
package mix

import "math/bits"

// WyHash v4 secrets used to absorb the key and seed.
const (
	wyp0 = 0xa0761d6478bd642f
	wyp1 = 0xe7037ed1a0b428db
)

// golden64 and golden32 are the SplitMix increments, floor(2^w / phi) made odd.
const (
	golden64 = 0x9e3779b97f4a7c15
	golden32 = 0x9e3779b9
)

// wymix performs a 128-bit multiply and XOR fold.
// This is the core mixing primitive from WyHash v4.
func wymix(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return hi ^ lo
}

// Base64 absorbs key and seed into the root of a level stream.
func Base64(key, seed uint64) uint64 {
	return wymix(key^wyp0, seed^wyp1)
}

// At64 returns the word at level of the stream rooted at base.
// It is one SplitMix64 step: Stafford's mix13 over base + (level+1)*golden.
func At64(base, level uint64) uint64 {
	z := base + (level+1)*golden64
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Draw64 is At64(Base64(key, seed), level).
func Draw64(key, seed, level uint64) uint64 {
	return At64(Base64(key, seed), level)
}

// fmix32 is the Murmur3 32-bit finalizer.
func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

// Base32 absorbs key and seed into the root of a 32-bit level stream.
func Base32(key, seed uint32) uint32 {
	return fmix32(key ^ fmix32(seed^golden32))
}

// At32 returns the word at level of the 32-bit stream rooted at base.
func At32(base, level uint32) uint32 {
	return fmix32(base + (level+1)*golden32)
}

// Draw32 is At32(Base32(key, seed), level).
func Draw32(key, seed, level uint32) uint32 {
	return At32(Base32(key, seed), level)
}
