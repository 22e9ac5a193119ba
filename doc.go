// Package fliphash implements a constant-time consistent range-hashing
// function: it maps an integer key to a value in an inclusive range
// [0, rangeEnd], typically to pick a shard.
//
// The mapping is:
//
//   - regular: every value in the range receives an equal share of keys;
//   - monotone: when rangeEnd grows, a key either keeps its value or moves to
//     one of the newly added values, so only the minimal set of keys moves;
//   - constant time: the cost does not grow with the width of the range.
//
// It is a pure function of (key, seed, rangeEnd) that never allocates or
// fails, and calls may run concurrently.
//
// # Basic Usage
//
//	shard := fliphash.Hash64(userID, uint64(numShards-1))
//
// Any integer works as a key, sequential IDs included. Strings and byte
// slices must be hashed to an integer first, for example with XXH3:
//
//	shard := fliphash.Hash64(xxh3.HashString(name), uint64(numShards-1))
//
// # Algorithm
//
// For a range end r with 2^(w-1) <= r < 2^w, a key first draws a value
// uniform over the power-of-two range [0, 2^w) with a selector whose results
// for 2^w and 2^(w+1) agree or differ only by landing in the upper half. If
// the value exceeds r, a bounded loop of weighted draws decides between the
// stable prefix [0, 2^(w-1)) and the excess [2^(w-1), r] with probabilities
// proportional to their sizes. Draws come from a keyed bit generator indexed
// by level, so every decision is reproducible from the key alone.
//
// # Package Structure
//
//   - Public API: hash64.go (Hash64, Hash64WithSeed), hash32.go (Hash32, Hash32WithSeed)
//   - Keyed bit generator: internal/mix
//   - Weighted binary decision: internal/bits
//   - Experiment harness: internal/experiment, internal/keysource, cmd/fliphash-bench
package fliphash
