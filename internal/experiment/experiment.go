// Package experiment measures range hashes: regularity, collisions,
// independence across ranges and seeds, and monotonicity. Experiments run
// on parallel workers and stream their running summaries as JSON lines.
package experiment

import (
	"bytes"
	"encoding/json"
)

// Experiment is one statistical test, generic over its accumulator.
type Experiment[A Accumulator[A]] interface {
	// Name is the results subdirectory and command name.
	Name() string
	// Validate checks that algo can run this experiment on keySize-byte keys.
	Validate(algo Algorithm, keySize int) error
	// NewAccumulator returns an empty accumulator.
	NewAccumulator() A
	// Run hashes key with algo and records the outcome in acc. It returns
	// false when the key was rejected and nothing was recorded.
	Run(acc A, algo Algorithm, key []byte) bool
	// Summary reduces an accumulator to reportable statistics.
	Summary(acc A) Summary
}

// Field is one named statistic.
type Field struct {
	Name  string
	Value any
}

// Summary is an ordered list of statistics. It marshals to a JSON object
// whose keys keep their order.
type Summary []Field

// Get returns the value of the named field.
func (s Summary) Get(name string) (any, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (s Summary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Summary field names shared by several experiments.
const (
	FieldAlgo    = "algo"
	FieldNumKeys = "num keys"
	FieldPValue  = "p-value"
)
