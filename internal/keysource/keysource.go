// Package keysource supplies the keys hashed by experiments: either a seeded
// pseudorandom stream or a corpus file of fixed-size records.
//
// A Source hands out one Stream per worker. Streams of the same Source never
// share state, so workers can draw keys without coordination.
package keysource

import (
	"encoding/binary"
	"math/rand/v2"
)

// Source produces per-worker key streams.
type Source interface {
	// KeySize is the length in bytes of every key.
	KeySize() int
	// Stream returns the stream of worker out of workers.
	Stream(worker, workers int) Stream
}

// Stream yields keys one at a time.
type Stream interface {
	// Next fills dst, which must be KeySize bytes long, with the next key.
	Next(dst []byte) error
}

// Random is an endless source of pseudorandom keys.
// Worker w of a Random with seed s always sees the same keys.
type Random struct {
	seed uint64
	size int
}

// NewRandom returns a Random source of size-byte keys.
func NewRandom(seed uint64, size int) *Random {
	return &Random{seed: seed, size: size}
}

// KeySize implements Source.
func (r *Random) KeySize() int { return r.size }

// Stream implements Source. The worker count does not matter for random
// keys; each worker gets its own PCG sequence.
func (r *Random) Stream(worker, _ int) Stream {
	return &randomStream{rng: rand.New(rand.NewPCG(r.seed, uint64(worker)))}
}

type randomStream struct {
	rng *rand.Rand
}

func (s *randomStream) Next(dst []byte) error {
	fill(s.rng, dst)
	return nil
}

// fill fills buf with pseudo-random bytes from rng.
func fill(rng *rand.Rand, buf []byte) {
	i := 0
	for ; i+8 <= len(buf); i += 8 {
		binary.LittleEndian.PutUint64(buf[i:], rng.Uint64())
	}
	if i < len(buf) {
		v := rng.Uint64()
		for j := i; j < len(buf); j++ {
			buf[j] = byte(v >> ((j - i) * 8))
		}
	}
}
