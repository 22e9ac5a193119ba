package experiment

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	fherrors "github.com/tamirms/fliphash/errors"
	"github.com/tamirms/fliphash/internal/keysource"
)

// perfKeys is how many distinct keys a perf sample cycles through. It is a
// power of two so the key index is a mask.
const perfKeys = 1 << 10

// sink keeps the compiler from discarding timed hashes.
var sink uint64

// PerfResult is the timing of one algorithm at one range end.
type PerfResult struct {
	Algorithm string
	RangeEnd  uint64
	Median    float64 // ns per hash
	P99       float64 // ns per hash
	StdDev    float64
	PeakRSS   uint64 // bytes, for the whole process
}

// Perf times algo at every range end. Each of samples samples hashes
// iterations keys drawn from src and yields one ns/op figure.
func Perf(algo Algorithm, src keysource.Source, rangeEnds []uint64, samples, iterations int) ([]PerfResult, error) {
	if samples < 1 || iterations < 1 {
		return nil, fmt.Errorf("samples %d, iterations %d: %w", samples, iterations, fherrors.ErrInvalidSampling)
	}

	size := src.KeySize()
	keys := make([]byte, perfKeys*size)
	stream := src.Stream(0, 1)
	n := 0
	for ; n < perfKeys; n++ {
		if err := stream.Next(keys[n*size : (n+1)*size]); err != nil {
			if keysource.IsExhausted(err) {
				break
			}
			return nil, fmt.Errorf("perf %s: %w", algo.Name(), err)
		}
	}
	if n == 0 {
		return nil, fherrors.ErrEmptyKeyFile
	}
	// Reuse the first keys to fill a short corpus.
	for i := n; i < perfKeys; i++ {
		copy(keys[i*size:(i+1)*size], keys[(i%n)*size:])
	}

	results := make([]PerfResult, 0, len(rangeEnds))
	for _, rangeEnd := range rangeEnds {
		if err := algo.Validate(rangeEnd, size); err != nil {
			return nil, fmt.Errorf("perf %s: %w", algo.Name(), err)
		}
		timings := make(stats.Float64Data, samples)
		for s := range timings {
			var acc uint64
			start := time.Now()
			for i := range iterations {
				k := i & (perfKeys - 1)
				acc += algo.Hash(keys[k*size:(k+1)*size], 0, rangeEnd)
			}
			elapsed := time.Since(start)
			sink += acc
			timings[s] = float64(elapsed.Nanoseconds()) / float64(iterations)
		}

		median, _ := timings.Percentile(50)
		p99, _ := timings.Percentile(99)
		stddev, _ := timings.StandardDeviation()
		results = append(results, PerfResult{
			Algorithm: algo.Name(),
			RangeEnd:  rangeEnd,
			Median:    median,
			P99:       p99,
			StdDev:    stddev,
			PeakRSS:   peakRSS(),
		})
	}
	return results, nil
}
