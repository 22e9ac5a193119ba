package main

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/tamirms/fliphash"
	fherrors "github.com/tamirms/fliphash/errors"
	"github.com/tamirms/fliphash/internal/experiment"
)

func cmdPerf() *cli.Command {
	return &cli.Command{
		Name:  "perf",
		Usage: "time every algorithm at several range ends",
		Flags: []cli.Flag{
			&cli.Uint64SliceFlag{
				Name:    "range-end",
				Aliases: []string{"r"},
				Value:   cli.NewUint64Slice(10, 1000, 100000, 10000000),
				Usage:   "range ends to time",
			},
			&cli.IntFlag{
				Name:  "samples",
				Value: 100,
				Usage: "timed samples per range end",
			},
			&cli.IntFlag{
				Name:  "iterations",
				Value: 100_000,
				Usage: "hashes per sample",
			},
		},
		Action: func(ctx *cli.Context) error {
			logger := loggerFrom(ctx)
			algos, err := algorithms(ctx)
			if err != nil {
				return err
			}
			keys, closeKeys, err := openKeys(ctx)
			if err != nil {
				return err
			}
			defer closeKeys()

			out, err := createResult(ctx, "perf", fmt.Sprintf("%d_bytes", ctx.Int("key-size")))
			if err != nil {
				return err
			}
			defer out.Close()
			enc := json.NewEncoder(out)

			perfTable := table.NewWriter()
			perfTable.SetOutputMirror(ctx.App.Writer)
			perfTable.AppendHeader(table.Row{"Algo", "Range End", "Median ns/op", "P99 ns/op", "Std Dev", "Peak RSS MiB"})
			for _, algo := range algos {
				logger.Info("timing", zap.String("algo", algo.Name()))
				results, err := experiment.Perf(algo, keys, ctx.Uint64Slice("range-end"), ctx.Int("samples"), ctx.Int("iterations"))
				if err != nil {
					return err
				}
				for _, r := range results {
					if err := enc.Encode(experiment.Result{
						Algorithm: r.Algorithm,
						Summary: experiment.Summary{
							{Name: "range end", Value: r.RangeEnd},
							{Name: "median ns", Value: r.Median},
							{Name: "p99 ns", Value: r.P99},
							{Name: "stddev ns", Value: r.StdDev},
							{Name: "peak rss", Value: r.PeakRSS},
						},
					}); err != nil {
						return fmt.Errorf("write perf result: %w", err)
					}
					perfTable.AppendRow(table.Row{
						r.Algorithm,
						r.RangeEnd,
						fmt.Sprintf("%.2f", r.Median),
						fmt.Sprintf("%.2f", r.P99),
						fmt.Sprintf("%.2f", r.StdDev),
						fmt.Sprintf("%.1f", float64(r.PeakRSS)/(1<<20)),
					})
				}
			}
			perfTable.SetStyle(table.StyleDefault)
			perfTable.Render()
			return out.Close()
		},
	}
}

func cmdDigest() *cli.Command {
	return &cli.Command{
		Name:  "digest",
		Usage: "fingerprint the outputs of every algorithm over a fixed key stream",
		Flags: []cli.Flag{
			rangeEndFlag(),
			&cli.Uint64Flag{
				Name:    "num-keys",
				Aliases: []string{"n"},
				Value:   1_000_000,
				Usage:   "keys to hash",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 0,
				Usage: "hash seed",
			},
		},
		Action: func(ctx *cli.Context) error {
			algos, err := algorithms(ctx)
			if err != nil {
				return err
			}

			digestTable := table.NewWriter()
			digestTable.SetOutputMirror(ctx.App.Writer)
			digestTable.AppendHeader(table.Row{"Algo", "Keys", "Digest"})
			for _, algo := range algos {
				// Each algorithm restarts the key stream so all see the same keys.
				keys, closeKeys, err := openKeys(ctx)
				if err != nil {
					return err
				}
				digest, n, err := experiment.Digest(algo, keys, ctx.Uint64("num-keys"), ctx.Uint64("seed"), ctx.Uint64("range-end"))
				closeKeys()
				if err != nil {
					return err
				}
				digestTable.AppendRow(table.Row{algo.Name(), n, fmt.Sprintf("%016x", digest)})
			}
			digestTable.SetStyle(table.StyleDefault)
			digestTable.Render()
			return nil
		},
	}
}

func cmdHash() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "map integer keys to [0, range-end]",
		ArgsUsage: "KEY...",
		Flags: []cli.Flag{
			rangeEndFlag(),
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 0,
				Usage: "hash seed",
			},
			&cli.IntFlag{
				Name:  "bits",
				Value: 64,
				Usage: "hash width, 64 or 32; the 32-bit hash takes the low 32 bits of the seed",
			},
		},
		Action: func(ctx *cli.Context) error {
			rangeEnd, seed := ctx.Uint64("range-end"), ctx.Uint64("seed")
			var narrow bool
			switch bits := ctx.Int("bits"); bits {
			case 64:
			case 32:
				narrow = true
			default:
				return fmt.Errorf("hash width %d, want 64 or 32", bits)
			}
			if narrow && rangeEnd > math.MaxUint32 {
				return fmt.Errorf("range end %d: %w", rangeEnd, fherrors.ErrRangeTooWide)
			}
			for _, arg := range ctx.Args().Slice() {
				key, err := strconv.ParseUint(arg, 0, 64)
				if err != nil {
					return fmt.Errorf("parse key %q: %w", arg, err)
				}
				var h uint64
				if narrow {
					if key > math.MaxUint32 {
						return fmt.Errorf("key %d does not fit in 32 bits", key)
					}
					h = uint64(fliphash.Hash32WithSeed(uint32(key), uint32(seed), uint32(rangeEnd)))
				} else {
					h = fliphash.Hash64WithSeed(key, seed, rangeEnd)
				}
				fmt.Fprintf(ctx.App.Writer, "%d\t%d\n", key, h)
			}
			return nil
		},
	}
}
