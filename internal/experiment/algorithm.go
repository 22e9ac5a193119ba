package experiment

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	jump "github.com/dgryski/go-jump"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"

	"github.com/tamirms/fliphash"
	fherrors "github.com/tamirms/fliphash/errors"
	intbits "github.com/tamirms/fliphash/internal/bits"
)

// Algorithm is a range hash under test.
type Algorithm interface {
	// Name is the identifier used on the command line and in results.
	Name() string
	// Hash maps key to [0, rangeEnd] within the hash family chosen by seed.
	Hash(key []byte, seed, rangeEnd uint64) uint64
	// Validate reports whether the algorithm supports rangeEnd and keys of
	// keySize bytes.
	Validate(rangeEnd uint64, keySize int) error
}

// Algorithm names.
const (
	FlipHash64      = "flip-hash64"
	FlipHash32      = "flip-hash32"
	FlipHashXXH3    = "flip-hash-xxh3"
	FlipHashMurmur3 = "flip-hash-murmur3"
	JumpHash        = "jump-hash"
	FastRange       = "fast-range"
)

// DefaultAlgorithms is what the harness runs when no algorithm is named.
var DefaultAlgorithms = []string{FlipHash64, FlipHashXXH3, FlipHashMurmur3, JumpHash}

var registry = map[string]Algorithm{
	FlipHash64:      flipHash64{},
	FlipHash32:      flipHash32{},
	FlipHashXXH3:    flipHashXXH3{},
	FlipHashMurmur3: flipHashMurmur3{},
	JumpHash:        jumpHash{},
	FastRange:       fastRange{},
}

// ParseAlgorithm looks up an algorithm by name.
func ParseAlgorithm(name string) (Algorithm, error) {
	algo, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, fherrors.ErrUnknownAlgorithm)
	}
	return algo, nil
}

// ParseAlgorithms looks up every name, in order.
func ParseAlgorithms(names []string) ([]Algorithm, error) {
	if len(names) == 0 {
		return nil, fherrors.ErrNoAlgorithms
	}
	algos := make([]Algorithm, 0, len(names))
	for _, name := range names {
		algo, err := ParseAlgorithm(name)
		if err != nil {
			return nil, err
		}
		algos = append(algos, algo)
	}
	return algos, nil
}

// AlgorithmNames returns every registered name, sorted.
func AlgorithmNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func prefixKey(key []byte) uint64 {
	return binary.LittleEndian.Uint64(key[:8])
}

func needPrefix(keySize int) error {
	if keySize < 8 {
		return fmt.Errorf("need 8 bytes, got %d: %w", keySize, fherrors.ErrKeyTooShort)
	}
	return nil
}

// flipHash64 uses the first 8 key bytes directly as the integer key.
type flipHash64 struct{}

func (flipHash64) Name() string { return FlipHash64 }

func (flipHash64) Hash(key []byte, seed, rangeEnd uint64) uint64 {
	return fliphash.Hash64WithSeed(prefixKey(key), seed, rangeEnd)
}

func (flipHash64) Validate(_ uint64, keySize int) error { return needPrefix(keySize) }

// flipHash32 reduces the key with murmur3-32 and uses the low 32 bits of seed.
type flipHash32 struct{}

func (flipHash32) Name() string { return FlipHash32 }

func (flipHash32) Hash(key []byte, seed, rangeEnd uint64) uint64 {
	return uint64(fliphash.Hash32WithSeed(murmur3.Sum32(key), uint32(seed), uint32(rangeEnd)))
}

func (flipHash32) Validate(rangeEnd uint64, _ int) error {
	if rangeEnd > math.MaxUint32 {
		return fmt.Errorf("%s: range end %d: %w", FlipHash32, rangeEnd, fherrors.ErrRangeTooWide)
	}
	return nil
}

// flipHashXXH3 hashes the key bytes with seeded XXH3-64 first.
type flipHashXXH3 struct{}

func (flipHashXXH3) Name() string { return FlipHashXXH3 }

func (flipHashXXH3) Hash(key []byte, seed, rangeEnd uint64) uint64 {
	return fliphash.Hash64(xxh3.HashSeed(key, seed), rangeEnd)
}

func (flipHashXXH3) Validate(uint64, int) error { return nil }

// flipHashMurmur3 hashes the key bytes with murmur3-64 and passes the seed
// to the range hash.
type flipHashMurmur3 struct{}

func (flipHashMurmur3) Name() string { return FlipHashMurmur3 }

func (flipHashMurmur3) Hash(key []byte, seed, rangeEnd uint64) uint64 {
	return fliphash.Hash64WithSeed(murmur3.Sum64(key), seed, rangeEnd)
}

func (flipHashMurmur3) Validate(uint64, int) error { return nil }

// jumpHash is Lamping and Veach's jump consistent hash, the logarithmic-time
// baseline. Seeds are xored into the key.
type jumpHash struct{}

func (jumpHash) Name() string { return JumpHash }

func (jumpHash) Hash(key []byte, seed, rangeEnd uint64) uint64 {
	return uint64(jump.Hash(prefixKey(key)^seed, int(rangeEnd)+1))
}

func (jumpHash) Validate(rangeEnd uint64, keySize int) error {
	if rangeEnd >= math.MaxInt32 {
		return fmt.Errorf("%s: range end %d: %w", JumpHash, rangeEnd, fherrors.ErrRangeTooWide)
	}
	return needPrefix(keySize)
}

// fastRange is multiply-shift reduction of XXH3-64. It is regular but not
// monotone; it calibrates what a non-consistent hash scores.
type fastRange struct{}

func (fastRange) Name() string { return FastRange }

func (fastRange) Hash(key []byte, seed, rangeEnd uint64) uint64 {
	h := xxh3.HashSeed(key, seed)
	if rangeEnd == math.MaxUint64 {
		return h
	}
	return intbits.FastRange64(h, rangeEnd+1)
}

func (fastRange) Validate(uint64, int) error { return nil }
