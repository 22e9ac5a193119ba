package experiment

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/tamirms/fliphash/internal/keysource"
)

const (
	// defaultStepSize is how many keys a worker hashes before handing its
	// accumulator to the collector.
	defaultStepSize = 1 << 16

	// defaultKeySize matches a 64-bit integer key.
	defaultKeySize = 8

	// defaultKeySeed seeds the random key source when none is given.
	defaultKeySeed = 0xf11f4a54
)

// RunOption is a functional option for configuring experiment runs.
type RunOption func(*runConfig)

type runConfig struct {
	workers     int
	stepSize    uint64
	maxKeys     uint64 // 0 runs until the context is cancelled
	reportEvery uint64 // write a summary line every reportEvery merges per algorithm
	logger      *zap.Logger
	keys        keysource.Source
}

func defaultRunConfig() *runConfig {
	return &runConfig{
		workers:     runtime.GOMAXPROCS(0),
		stepSize:    defaultStepSize,
		reportEvery: 1,
		logger:      zap.NewNop(),
		keys:        keysource.NewRandom(defaultKeySeed, defaultKeySize),
	}
}

// WithWorkers sets the number of parallel workers. Values below 1 use
// GOMAXPROCS.
func WithWorkers(n int) RunOption {
	return func(c *runConfig) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		c.workers = n
	}
}

// WithStepSize sets how many keys a worker accumulates per step.
func WithStepSize(n uint64) RunOption {
	return func(c *runConfig) {
		c.stepSize = n
	}
}

// WithMaxKeys stops the run once every algorithm has accumulated n keys.
// Zero runs until the context is cancelled or the key source is exhausted.
func WithMaxKeys(n uint64) RunOption {
	return func(c *runConfig) {
		c.maxKeys = n
	}
}

// WithReportEvery writes a summary line after every n merged steps.
func WithReportEvery(n uint64) RunOption {
	return func(c *runConfig) {
		if n == 0 {
			n = 1
		}
		c.reportEvery = n
	}
}

// WithLogger sets the progress logger.
func WithLogger(l *zap.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithKeySource sets where keys come from.
func WithKeySource(src keysource.Source) RunOption {
	return func(c *runConfig) {
		c.keys = src
	}
}
