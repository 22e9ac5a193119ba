package experiment

import (
	"fmt"

	"github.com/montanaflynn/stats"

	fherrors "github.com/tamirms/fliphash/errors"
)

// maxTableBuckets caps per-bucket count tables. Every worker holds one table
// per algorithm, each 8 bytes per bucket.
const maxTableBuckets = 1 << 24

func validateTable(rangeEnd uint64) error {
	if rangeEnd >= maxTableBuckets {
		return fmt.Errorf("range end %d, table limit %d: %w", rangeEnd, maxTableBuckets-1, fherrors.ErrRangeTooWide)
	}
	return nil
}

// Regularity tests the uniformity of the distribution of hashes over
// [0, RangeEnd] with a chi-squared test.
type Regularity struct {
	RangeEnd uint64
}

// Name implements Experiment.
func (Regularity) Name() string { return "regularity" }

// Validate implements Experiment.
func (e Regularity) Validate(algo Algorithm, keySize int) error {
	if err := validateTable(e.RangeEnd); err != nil {
		return err
	}
	return algo.Validate(e.RangeEnd, keySize)
}

// NewAccumulator implements Experiment.
func (e Regularity) NewAccumulator() *Occurrences {
	return NewOccurrences(int(e.RangeEnd) + 1)
}

// Run implements Experiment.
func (e Regularity) Run(acc *Occurrences, algo Algorithm, key []byte) bool {
	acc.Record(algo.Hash(key, 0, e.RangeEnd))
	return true
}

// Summary implements Experiment. Distances are between the observed value
// frequencies and the uniform distribution; spread is (max-min)/min of the
// raw counts.
func (e Regularity) Summary(acc *Occurrences) Summary {
	n := acc.NumKeys()
	if n == 0 {
		return Summary{{FieldNumKeys, n}}
	}
	counts := acc.Counts()
	observed := make(stats.Float64Data, len(counts))
	uniform := make(stats.Float64Data, len(counts))
	for i, c := range counts {
		observed[i] = float64(c) / float64(n)
		uniform[i] = 1 / float64(len(counts))
	}
	l1, _ := stats.ManhattanDistance(observed, uniform)
	l2, _ := stats.EuclideanDistance(observed, uniform)

	raw := stats.LoadRawData(counts)
	lo, _ := raw.Min()
	hi, _ := raw.Max()
	spread := hi - lo
	if lo > 0 {
		spread /= lo
	}

	return Summary{
		{FieldNumKeys, n},
		{"l1 distance", l1},
		{"l2 distance", l2},
		{"spread", spread},
		{FieldPValue, uniformityPValue(counts)},
	}
}

// Collisions compares the number of pairwise collisions with the number
// expected from a uniform distribution. The collision count is tied to the
// L2 distance to uniform, so this is another way to test regularity.
type Collisions struct {
	RangeEnd uint64
}

// Name implements Experiment.
func (Collisions) Name() string { return "collisions" }

// Validate implements Experiment.
func (e Collisions) Validate(algo Algorithm, keySize int) error {
	if err := validateTable(e.RangeEnd); err != nil {
		return err
	}
	return algo.Validate(e.RangeEnd, keySize)
}

// NewAccumulator implements Experiment.
func (e Collisions) NewAccumulator() *Occurrences {
	return NewOccurrences(int(e.RangeEnd) + 1)
}

// Run implements Experiment.
func (e Collisions) Run(acc *Occurrences, algo Algorithm, key []byte) bool {
	acc.Record(algo.Hash(key, 0, e.RangeEnd))
	return true
}

// Summary implements Experiment. The normalized collision rate is close to
// 1 for a uniform hash and grows with its L2 distance to uniform.
func (e Collisions) Summary(acc *Occurrences) Summary {
	n := float64(acc.NumKeys())
	if n < 2 {
		return Summary{{FieldNumKeys, acc.NumKeys()}}
	}
	var collisions float64
	for _, c := range acc.Counts() {
		if c > 1 {
			f := float64(c)
			collisions += f * (f - 1) / 2
		}
	}
	cHat := collisions / (n * (n - 1) / 2)
	return Summary{
		{FieldNumKeys, acc.NumKeys()},
		{"num collisions", collisions},
		{"c hat", cHat},
		{"normalized c hat", cHat * float64(len(acc.Counts()))},
	}
}
