package fliphash

import (
	"math/bits"

	intbits "github.com/tamirms/fliphash/internal/bits"
	"github.com/tamirms/fliphash/internal/mix"
)

const maxFolds32 = 32

// Hash32 is the 32-bit counterpart of Hash64. It uses its own 32-bit
// generator, so Hash32(k, r) and Hash64(k, r) generally differ.
func Hash32(key, rangeEnd uint32) uint32 {
	return Hash32WithSeed(key, 0, rangeEnd)
}

// Hash32WithSeed is Hash32 with an independent hash family per seed.
func Hash32WithSeed(key, seed, rangeEnd uint32) uint32 {
	if rangeEnd == 0 {
		return 0
	}
	base := mix.Base32(key, seed)

	w := bits.Len32(rangeEnd)
	d := flip32(base, w)
	if d <= rangeEnd {
		return d
	}
	return fold32(base, rangeEnd, w)
}

func flip32(base uint32, w int) uint32 {
	if w == 0 {
		return 0
	}
	a := mix.At32(base, 0) & mask32(w)
	if a < 2 {
		return a
	}
	j := bits.Len32(a) - 1
	hi := uint32(1) << j
	return hi | mix.At32(base, uint32(j))&(hi-1)
}

func fold32(base, rangeEnd uint32, w int) uint32 {
	m := rangeEnd + 1
	top := uint32(1) << (w - 1)
	shift := 32 - w

	for i := uint32(1); i <= maxFolds32; i++ {
		r := mix.At32(base, foldLevel32(w, i))
		if !intbits.Chance32(r, m, uint64(1)<<w) {
			continue
		}
		if d := r >> shift; d >= top {
			return d
		}
		break
	}
	return flip32(base, w-1)
}

// foldLevel32 indexes fold attempts above the selector levels [0, 32).
func foldLevel32(w int, attempt uint32) uint32 {
	return uint32(w)<<16 | attempt
}

func mask32(w int) uint32 {
	if w >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<w - 1
}
