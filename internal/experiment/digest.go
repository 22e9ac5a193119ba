package experiment

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/tamirms/fliphash/internal/keysource"
)

// Digest hashes n keys from src with algo and folds the little-endian
// results into one xxHash64 value. The same inputs give the same digest on
// every platform, so two builds can be compared by their digests.
//
// A finite source may run out before n keys; Digest then covers the keys it
// read and returns how many that was.
func Digest(algo Algorithm, src keysource.Source, n, seed, rangeEnd uint64) (digest, hashed uint64, err error) {
	if err := algo.Validate(rangeEnd, src.KeySize()); err != nil {
		return 0, 0, fmt.Errorf("digest %s: %w", algo.Name(), err)
	}
	stream := src.Stream(0, 1)
	key := make([]byte, src.KeySize())
	var buf [8]byte
	h := xxhash.New()
	for ; hashed < n; hashed++ {
		if err := stream.Next(key); err != nil {
			if keysource.IsExhausted(err) {
				break
			}
			return 0, hashed, fmt.Errorf("digest %s: %w", algo.Name(), err)
		}
		binary.LittleEndian.PutUint64(buf[:], algo.Hash(key, seed, rangeEnd))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64(), hashed, nil
}
