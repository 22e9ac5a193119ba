// Package errors defines all exported error sentinels for the fliphash tools.
//
// This is the single source of truth for error values. The experiment
// harness, key sources and the CLI all import from here, ensuring errors.Is
// checks work across package boundaries. The hash functions themselves are
// total and never fail.
package errors

import "errors"

// Algorithm errors
var (
	ErrNoAlgorithms     = errors.New("fliphash: no algorithms selected")
	ErrUnknownAlgorithm = errors.New("fliphash: unknown algorithm")
	ErrRangeTooWide     = errors.New("fliphash: range end exceeds what the algorithm or accumulator supports")
	ErrKeyTooShort      = errors.New("fliphash: key is shorter than the algorithm requires")
)

// Experiment errors
var (
	ErrUnknownExperiment = errors.New("fliphash: unknown experiment")
	ErrTooFewRanges      = errors.New("fliphash: independence across ranges needs at least two ranges")
	ErrDuplicateRange    = errors.New("fliphash: range ends must be pairwise distinct")
	ErrTooFewSeeds       = errors.New("fliphash: independence across seeds needs at least two seeds")
	ErrEmptyRange        = errors.New("fliphash: monotonicity needs from < to")
	ErrInvalidStepSize   = errors.New("fliphash: step size must be positive")
	ErrInvalidSampling   = errors.New("fliphash: perf needs at least one sample of at least one iteration")
)

// Key source errors
var (
	ErrEmptyKeyFile       = errors.New("fliphash: key file holds no complete record")
	ErrKeySourceExhausted = errors.New("fliphash: key source exhausted")
	ErrKeySourceClosed    = errors.New("fliphash: key source is closed")
)
