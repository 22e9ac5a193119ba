package experiment

import (
	"fmt"

	fherrors "github.com/tamirms/fliphash/errors"
)

// Monotonicity grows the range from [0, From] to [0, To] and counts the keys
// that moved. A consistent range hash moves about (To-From)/(To+1) of the
// keys, and only into (From, To].
type Monotonicity struct {
	From, To uint64
}

// Name implements Experiment.
func (Monotonicity) Name() string { return "monotonicity" }

// Validate implements Experiment.
func (e Monotonicity) Validate(algo Algorithm, keySize int) error {
	if e.From >= e.To {
		return fmt.Errorf("from %d, to %d: %w", e.From, e.To, fherrors.ErrEmptyRange)
	}
	return algo.Validate(e.To, keySize)
}

// NewAccumulator implements Experiment.
func (Monotonicity) NewAccumulator() *Movement { return &Movement{} }

// Run implements Experiment.
func (e Monotonicity) Run(acc *Movement, algo Algorithm, key []byte) bool {
	acc.Record(algo.Hash(key, 0, e.From), algo.Hash(key, 0, e.To), e.From)
	return true
}

// ExpectedMoved is the fraction of keys a consistent range hash moves.
func (e Monotonicity) ExpectedMoved() float64 {
	return float64(e.To-e.From) / (float64(e.To) + 1)
}

// Summary implements Experiment.
func (e Monotonicity) Summary(acc *Movement) Summary {
	var moved float64
	if n := acc.NumKeys(); n > 0 {
		moved = float64(acc.Moved()) / float64(n)
	}
	return Summary{
		{FieldNumKeys, acc.NumKeys()},
		{"moved", moved},
		{"expected moved", e.ExpectedMoved()},
		{"violations", acc.Violations()},
	}
}
