package experiment

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	fherrors "github.com/tamirms/fliphash/errors"
)

func TestParseAlgorithm(t *testing.T) {
	as := require.New(t)

	for _, name := range AlgorithmNames() {
		algo, err := ParseAlgorithm(name)
		as.NoError(err)
		as.Equal(name, algo.Name())
	}

	_, err := ParseAlgorithm("rendezvous")
	as.ErrorIs(err, fherrors.ErrUnknownAlgorithm)

	_, err = ParseAlgorithms(nil)
	as.ErrorIs(err, fherrors.ErrNoAlgorithms)

	algos, err := ParseAlgorithms(DefaultAlgorithms)
	as.NoError(err)
	as.Len(algos, len(DefaultAlgorithms))
}

func TestAlgorithmValidate(t *testing.T) {
	tests := []struct {
		name     string
		rangeEnd uint64
		keySize  int
		wantErr  error
	}{
		{FlipHash64, math.MaxUint64, 8, nil},
		{FlipHash64, 10, 4, fherrors.ErrKeyTooShort},
		{FlipHash32, math.MaxUint32, 1, nil},
		{FlipHash32, math.MaxUint32 + 1, 8, fherrors.ErrRangeTooWide},
		{FlipHashXXH3, math.MaxUint64, 0, nil},
		{FlipHashMurmur3, math.MaxUint64, 3, nil},
		{JumpHash, math.MaxInt32 - 1, 8, nil},
		{JumpHash, math.MaxInt32, 8, fherrors.ErrRangeTooWide},
		{JumpHash, 10, 7, fherrors.ErrKeyTooShort},
		{FastRange, math.MaxUint64, 1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			algo, err := ParseAlgorithm(tt.name)
			require.NoError(t, err)
			err = algo.Validate(tt.rangeEnd, tt.keySize)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAlgorithmsStayInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	key := make([]byte, 16)
	for _, name := range AlgorithmNames() {
		algo, err := ParseAlgorithm(name)
		require.NoError(t, err)
		for _, rangeEnd := range []uint64{0, 1, 2, 9, 1000, math.MaxInt32 - 1} {
			for range 200 {
				binary.LittleEndian.PutUint64(key, rng.Uint64())
				binary.LittleEndian.PutUint64(key[8:], rng.Uint64())
				seed := rng.Uint64()
				h := algo.Hash(key, seed, rangeEnd)
				require.LessOrEqual(t, h, rangeEnd, "%s(range end %d)", name, rangeEnd)
				require.Equal(t, h, algo.Hash(key, seed, rangeEnd), "%s is not deterministic", name)
			}
		}
	}
}

func TestConsistentAlgorithmsAreMonotone(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	key := make([]byte, 8)
	for _, name := range []string{FlipHash64, FlipHash32, FlipHashXXH3, FlipHashMurmur3, JumpHash} {
		algo, err := ParseAlgorithm(name)
		require.NoError(t, err)
		for range 2000 {
			binary.LittleEndian.PutUint64(key, rng.Uint64())
			from := rng.Uint64N(1000)
			to := from + 1 + rng.Uint64N(1000)
			before, after := algo.Hash(key, 0, from), algo.Hash(key, 0, to)
			if before != after {
				require.Greater(t, after, from, "%s moved a key between old values", name)
			}
		}
	}
}

func TestFastRangeFullWidth(t *testing.T) {
	algo, err := ParseAlgorithm(FastRange)
	require.NoError(t, err)
	key := []byte("some key bytes")
	require.Equal(t, xxh3.HashSeed(key, 9), algo.Hash(key, 9, math.MaxUint64))
}
