package fliphash

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a PCG generator seeded from the test name, so every
// test sees its own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomRangeEnd64 returns a range end whose bit length is uniform in [1, 64],
// so narrow and wide ranges are exercised equally.
func randomRangeEnd64(rng *rand.Rand) uint64 {
	w := rng.UintN(64) + 1
	r := rng.Uint64() >> (64 - w)
	if r == 0 {
		return 1
	}
	return r
}

func randomRangeEnd32(rng *rand.Rand) uint32 {
	w := rng.UintN(32) + 1
	r := rng.Uint32() >> (32 - w)
	if r == 0 {
		return 1
	}
	return r
}

// bucketSpread returns (max-min)/min over counts.
func bucketSpread(counts []int) float64 {
	lo, hi := counts[0], counts[0]
	for _, c := range counts[1:] {
		lo = min(lo, c)
		hi = max(hi, c)
	}
	if lo == 0 {
		return float64(hi)
	}
	return float64(hi-lo) / float64(lo)
}
