package fliphash

import (
	"fmt"
	"testing"

	jump "github.com/dgryski/go-jump"
	"github.com/zeebo/xxh3"
)

var benchRangeEnds = []uint64{10, 1000, 100000, 10000000}

// sink keeps results alive so the calls are not optimized away.
var sink uint64

func BenchmarkHashU64(b *testing.B) {
	rng := newTestRNG(b)
	for _, rangeEnd := range benchRangeEnds {
		key := rng.Uint64()
		b.Run(fmt.Sprintf("Jump/..=%d", rangeEnd), func(b *testing.B) {
			for range b.N {
				sink += uint64(jump.Hash(key, int(rangeEnd)+1))
			}
		})
		b.Run(fmt.Sprintf("Flip/..=%d", rangeEnd), func(b *testing.B) {
			for range b.N {
				sink += Hash64(key, rangeEnd)
			}
		})
		b.Run(fmt.Sprintf("Flip32/..=%d", rangeEnd), func(b *testing.B) {
			for range b.N {
				sink += uint64(Hash32(uint32(key), uint32(rangeEnd)))
			}
		})
	}
}

func BenchmarkHashBytes(b *testing.B) {
	rng := newTestRNG(b)
	var buf [128]byte
	for i := range buf {
		buf[i] = byte(rng.Uint32())
	}
	for _, rangeEnd := range benchRangeEnds {
		b.Run(fmt.Sprintf("XXH3_then_Jump/..=%d", rangeEnd), func(b *testing.B) {
			for range b.N {
				sink += uint64(jump.Hash(xxh3.Hash(buf[:]), int(rangeEnd)+1))
			}
		})
		b.Run(fmt.Sprintf("XXH3_then_Flip/..=%d", rangeEnd), func(b *testing.B) {
			for range b.N {
				sink += Hash64(xxh3.Hash(buf[:]), rangeEnd)
			}
		})
	}
}

// BenchmarkHashRandomKeys varies the key per iteration so the fold loop is
// taken at its natural rate.
func BenchmarkHashRandomKeys(b *testing.B) {
	rng := newTestRNG(b)
	keys := make([]uint64, 4096)
	for i := range keys {
		keys[i] = rng.Uint64()
	}
	for _, rangeEnd := range benchRangeEnds {
		b.Run(fmt.Sprintf("..=%d", rangeEnd), func(b *testing.B) {
			b.ReportAllocs()
			for i := range b.N {
				sink += Hash64(keys[i&(len(keys)-1)], rangeEnd)
			}
		})
	}
}
