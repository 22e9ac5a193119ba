package experiment

import (
	"fmt"
	"math/rand/v2"
	"slices"

	fherrors "github.com/tamirms/fliphash/errors"
)

// maxCells caps the size of the joint table of an independence test.
const maxCells = 1 << 22

// IndependenceAcrossRanges tests whether the hashes of one key under several
// range ends are mutually independent once they are all distinct. For a
// monotone hash, distinct values fall in [0, r0] x (r0, r1] x ... and every
// cell of that table should be equally likely.
type IndependenceAcrossRanges struct {
	RangeEnds []uint64
}

// NewIndependenceAcrossRanges sorts rangeEnds and checks that there are at
// least two and that they are distinct.
func NewIndependenceAcrossRanges(rangeEnds []uint64) (IndependenceAcrossRanges, error) {
	if len(rangeEnds) < 2 {
		return IndependenceAcrossRanges{}, fmt.Errorf("got %d: %w", len(rangeEnds), fherrors.ErrTooFewRanges)
	}
	ends := slices.Clone(rangeEnds)
	slices.Sort(ends)
	for i := 1; i < len(ends); i++ {
		if ends[i] == ends[i-1] {
			return IndependenceAcrossRanges{}, fmt.Errorf("range end %d: %w", ends[i], fherrors.ErrDuplicateRange)
		}
	}
	return IndependenceAcrossRanges{RangeEnds: ends}, nil
}

// Name implements Experiment.
func (IndependenceAcrossRanges) Name() string { return "independence-across-ranges" }

// Validate implements Experiment.
func (e IndependenceAcrossRanges) Validate(algo Algorithm, keySize int) error {
	cells := uint64(1)
	prev := uint64(0)
	for i, end := range e.RangeEnds {
		width := end - prev
		if i == 0 {
			width = end + 1
		}
		if width == 0 || cells > maxCells/width {
			return fmt.Errorf("joint table over %v exceeds %d cells: %w", e.RangeEnds, maxCells, fherrors.ErrRangeTooWide)
		}
		cells *= width
		prev = end
	}
	return algo.Validate(e.RangeEnds[len(e.RangeEnds)-1], keySize)
}

// NewAccumulator implements Experiment.
func (e IndependenceAcrossRanges) NewAccumulator() *Cooccurrences {
	return NewCooccurrences(len(e.RangeEnds))
}

// Run implements Experiment. Keys whose hashes collide under two range ends
// are rejected.
func (e IndependenceAcrossRanges) Run(acc *Cooccurrences, algo Algorithm, key []byte) bool {
	hashes := make([]uint64, len(e.RangeEnds))
	for i, end := range e.RangeEnds {
		hashes[i] = algo.Hash(key, 0, end)
	}
	for i := range hashes {
		for j := i + 1; j < len(hashes); j++ {
			if hashes[i] == hashes[j] {
				return false
			}
		}
	}
	acc.Record(hashes)
	return true
}

// Summary implements Experiment.
func (e IndependenceAcrossRanges) Summary(acc *Cooccurrences) Summary {
	return Summary{
		{FieldNumKeys, acc.NumKeys()},
		{FieldPValue, independencePValue(acc)},
	}
}

// IndependenceAcrossSeeds tests whether the hashes of one key under several
// seeds are mutually independent.
type IndependenceAcrossSeeds struct {
	RangeEnd uint64
	Seeds    []uint64
}

// NewIndependenceAcrossSeeds draws numSeeds distinct seeds from a generator
// seeded with master.
func NewIndependenceAcrossSeeds(rangeEnd uint64, numSeeds int, master uint64) (IndependenceAcrossSeeds, error) {
	if numSeeds < 2 {
		return IndependenceAcrossSeeds{}, fmt.Errorf("got %d: %w", numSeeds, fherrors.ErrTooFewSeeds)
	}
	rng := rand.New(rand.NewPCG(master, 0x5eed))
	seen := make(map[uint64]struct{}, numSeeds)
	seeds := make([]uint64, 0, numSeeds)
	for len(seeds) < numSeeds {
		s := rng.Uint64()
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		seeds = append(seeds, s)
	}
	return IndependenceAcrossSeeds{RangeEnd: rangeEnd, Seeds: seeds}, nil
}

// Name implements Experiment.
func (IndependenceAcrossSeeds) Name() string { return "independence-across-seeds" }

// Validate implements Experiment.
func (e IndependenceAcrossSeeds) Validate(algo Algorithm, keySize int) error {
	width := e.RangeEnd + 1
	cells := uint64(1)
	for range e.Seeds {
		if width == 0 || cells > maxCells/width {
			return fmt.Errorf("joint table over %d seeds, range end %d exceeds %d cells: %w",
				len(e.Seeds), e.RangeEnd, maxCells, fherrors.ErrRangeTooWide)
		}
		cells *= width
	}
	return algo.Validate(e.RangeEnd, keySize)
}

// NewAccumulator implements Experiment.
func (e IndependenceAcrossSeeds) NewAccumulator() *Cooccurrences {
	return NewCooccurrences(len(e.Seeds))
}

// Run implements Experiment.
func (e IndependenceAcrossSeeds) Run(acc *Cooccurrences, algo Algorithm, key []byte) bool {
	hashes := make([]uint64, len(e.Seeds))
	for i, seed := range e.Seeds {
		hashes[i] = algo.Hash(key, seed, e.RangeEnd)
	}
	acc.Record(hashes)
	return true
}

// Summary implements Experiment.
func (e IndependenceAcrossSeeds) Summary(acc *Cooccurrences) Summary {
	return Summary{
		{FieldNumKeys, acc.NumKeys()},
		{FieldPValue, independencePValue(acc)},
	}
}
