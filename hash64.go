package fliphash

import (
	"math/bits"

	intbits "github.com/tamirms/fliphash/internal/bits"
	"github.com/tamirms/fliphash/internal/mix"
)

// maxFolds64 bounds the fold loop of the 64-bit resolver.
// Each attempt is accepted with probability above 1/2.
const maxFolds64 = 64

// Hash64 maps key to a value in [0, rangeEnd].
//
// The mapping is regular (each value receives a 1/(rangeEnd+1) share of keys)
// and monotone: when rangeEnd grows, a key either keeps its value or moves to
// one of the newly added values. Evaluation takes constant time.
func Hash64(key, rangeEnd uint64) uint64 {
	return Hash64WithSeed(key, 0, rangeEnd)
}

// Hash64WithSeed is Hash64 with an independent hash family per seed.
func Hash64WithSeed(key, seed, rangeEnd uint64) uint64 {
	if rangeEnd == 0 {
		return 0
	}
	base := mix.Base64(key, seed)

	// 2^(w-1) <= rangeEnd < 2^w
	w := bits.Len64(rangeEnd)
	d := flip64(base, w)
	if d <= rangeEnd {
		return d
	}
	return fold64(base, rangeEnd, w)
}

// flip64 returns a uniform value in [0, 2^w).
//
// flip64(base, w+1) is either flip64(base, w) or a value in [2^w, 2^(w+1)):
// growing w only sets a new high bit of the level-0 draw, and the value
// below the highest set bit j is always drawn from level j.
func flip64(base uint64, w int) uint64 {
	if w == 0 {
		return 0
	}
	a := mix.At64(base, 0) & mask64(w)
	if a < 2 {
		return a
	}
	j := bits.Len64(a) - 1
	hi := uint64(1) << j
	return hi | mix.At64(base, uint64(j))&(hi-1)
}

// fold64 resolves rangeEnd once flip64(base, w) fell above it.
// Requires 2^(w-1) <= rangeEnd < 2^w - 1.
//
// Each attempt draws a value d uniform in [0, 2^w) and keeps it when
// d <= rangeEnd. Kept values below top = 2^(w-1) resolve to the stable
// prefix through flip64(base, w-1); kept values in [top, rangeEnd] are the
// result. Attempts do not depend on rangeEnd, so a larger range can only
// keep an earlier attempt, whose value is then above the smaller range.
func fold64(base, rangeEnd uint64, w int) uint64 {
	m := rangeEnd + 1
	top := uint64(1) << (w - 1)
	shift := 64 - w

	for i := uint64(1); i <= maxFolds64; i++ {
		r := mix.At64(base, foldLevel64(w, i))
		if !accept64(r, m, w) {
			continue
		}
		if d := r >> shift; d >= top {
			return d
		}
		break
	}
	return flip64(base, w-1)
}

// accept64 reports whether the top w bits of r fall below m, as a weighted
// decision with probability m/2^w.
func accept64(r, m uint64, w int) bool {
	if w == 64 {
		// floor(m * 2^64 / 2^64) == m
		return r < m
	}
	return intbits.Chance64(r, m, uint64(1)<<w)
}

// foldLevel64 indexes fold attempts above the selector levels [0, 64).
func foldLevel64(w int, attempt uint64) uint64 {
	return uint64(w)<<32 | attempt
}

func mask64(w int) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<w - 1
}
