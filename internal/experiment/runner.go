package experiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	fherrors "github.com/tamirms/fliphash/errors"
	"github.com/tamirms/fliphash/internal/keysource"
)

// resultChanBufferMultiplier is the multiplier for the step channel buffer size.
const resultChanBufferMultiplier = 2

// Result is the final summary of one algorithm.
type Result struct {
	Algorithm string
	Summary   Summary
}

// MarshalJSON implements json.Marshaler. The algorithm name comes first.
func (r Result) MarshalJSON() ([]byte, error) {
	line := make(Summary, 0, len(r.Summary)+1)
	line = append(line, Field{FieldAlgo, r.Algorithm})
	line = append(line, r.Summary...)
	return line.MarshalJSON()
}

// step is one worker's accumulation for one algorithm.
type step[A any] struct {
	algo int
	acc  A
}

// runner holds the shared state of one Run.
type runner[A Accumulator[A]] struct {
	exp   Experiment[A]
	algos []Algorithm
	cfg   *runConfig

	issued []atomic.Uint64 // keys handed out per algorithm
	pool   sync.Pool
	steps  chan step[A]
}

// Run evaluates exp against every algorithm on parallel workers.
//
// Each worker draws keys from its own stream, accumulates up to the step size
// per algorithm, and hands the accumulator to the collector. The collector
// merges steps per algorithm and writes one JSON line per report to out.
// Run returns when every algorithm has seen the configured number of keys,
// the key source is exhausted, or ctx is cancelled; in all of these cases it
// returns the final summaries.
func Run[A Accumulator[A]](ctx context.Context, exp Experiment[A], algos []Algorithm, out io.Writer, opts ...RunOption) ([]Result, error) {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.stepSize == 0 {
		return nil, fherrors.ErrInvalidStepSize
	}
	if len(algos) == 0 {
		return nil, fherrors.ErrNoAlgorithms
	}
	for _, algo := range algos {
		if err := exp.Validate(algo, cfg.keys.KeySize()); err != nil {
			return nil, fmt.Errorf("%s on %s: %w", exp.Name(), algo.Name(), err)
		}
	}

	r := &runner[A]{
		exp:    exp,
		algos:  algos,
		cfg:    cfg,
		issued: make([]atomic.Uint64, len(algos)),
		steps:  make(chan step[A], cfg.workers*resultChanBufferMultiplier),
	}
	r.pool.New = func() any { return exp.NewAccumulator() }

	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(workCtx)
	for w := range cfg.workers {
		g.Go(func() error { return r.runWorker(gctx, w) })
	}
	workersDone := make(chan error, 1)
	go func() {
		workersDone <- g.Wait()
		close(r.steps)
	}()

	totals := make([]A, len(algos))
	for i := range totals {
		totals[i] = exp.NewAccumulator()
	}
	merges := make([]uint64, len(algos))
	reported := make([]bool, len(algos))

	var writeErr error
	for s := range r.steps {
		if writeErr != nil {
			continue
		}
		totals[s.algo].Merge(s.acc)
		s.acc.Reset()
		r.pool.Put(s.acc)

		merges[s.algo]++
		reported[s.algo] = false
		if merges[s.algo]%cfg.reportEvery != 0 {
			continue
		}
		if writeErr = r.report(out, s.algo, totals[s.algo]); writeErr != nil {
			cancel()
			continue
		}
		reported[s.algo] = true
	}

	err := <-workersDone
	if writeErr != nil {
		return nil, writeErr
	}
	if err != nil && !(ctx.Err() != nil && errors.Is(err, ctx.Err())) {
		return nil, err
	}

	results := make([]Result, len(algos))
	for i, algo := range algos {
		if !reported[i] && merges[i] > 0 {
			if err := r.report(out, i, totals[i]); err != nil {
				return nil, err
			}
		}
		results[i] = Result{Algorithm: algo.Name(), Summary: exp.Summary(totals[i])}
		cfg.logger.Info("experiment finished",
			zap.String("experiment", exp.Name()),
			zap.String("algo", algo.Name()),
			zap.Uint64("num keys", totals[i].NumKeys()))
	}
	return results, nil
}

// report writes the running summary of one algorithm as a JSON line.
func (r *runner[A]) report(out io.Writer, algo int, total A) error {
	line, err := json.Marshal(Result{Algorithm: r.algos[algo].Name(), Summary: r.exp.Summary(total)})
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	line = append(line, '\n')
	if _, err := out.Write(line); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	r.cfg.logger.Info("processed keys",
		zap.String("experiment", r.exp.Name()),
		zap.String("algo", r.algos[algo].Name()),
		zap.Uint64("num keys", total.NumKeys()))
	return nil
}

// reserve hands out up to one step of keys for algo. It returns 0 once the
// algorithm has been given maxKeys keys in total.
func (r *runner[A]) reserve(algo int) uint64 {
	if r.cfg.maxKeys == 0 {
		return r.cfg.stepSize
	}
	prev := r.issued[algo].Add(r.cfg.stepSize) - r.cfg.stepSize
	if prev >= r.cfg.maxKeys {
		return 0
	}
	return min(r.cfg.stepSize, r.cfg.maxKeys-prev)
}

// runWorker round-robins over the algorithms until none has work left.
func (r *runner[A]) runWorker(ctx context.Context, worker int) error {
	log := r.cfg.logger.With(zap.Int("worker", worker))
	log.Debug("worker started")
	defer log.Debug("worker stopped")

	// Every algorithm reads its own stream so that all of them see the
	// same keys from a finite source.
	streams := make([]keysource.Stream, len(r.algos))
	for i := range streams {
		streams[i] = r.cfg.keys.Stream(worker, r.cfg.workers)
	}
	done := make([]bool, len(r.algos))
	key := make([]byte, r.cfg.keys.KeySize())

	for remaining := len(r.algos); remaining > 0; {
		for i, algo := range r.algos {
			if done[i] {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			n := r.reserve(i)
			if n == 0 {
				done[i] = true
				remaining--
				continue
			}

			acc := r.pool.Get().(A)
			var accepted uint64
			for accepted < n {
				if err := streams[i].Next(key); err != nil {
					if !keysource.IsExhausted(err) {
						return fmt.Errorf("worker %d: %w", worker, err)
					}
					done[i] = true
					remaining--
					break
				}
				if r.exp.Run(acc, algo, key) {
					accepted++
				}
			}

			if acc.NumKeys() == 0 {
				r.pool.Put(acc)
				continue
			}
			select {
			case r.steps <- step[A]{algo: i, acc: acc}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}
