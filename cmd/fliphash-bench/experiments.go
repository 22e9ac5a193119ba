package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/tamirms/fliphash/internal/experiment"
)

func runFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags,
		&cli.Uint64Flag{
			Name:  "max-keys",
			Value: 0,
			Usage: "stop after this many keys per algorithm, 0 to run until interrupted or out of keys",
		},
		&cli.Uint64Flag{
			Name:  "step-size",
			Value: 1 << 16,
			Usage: "keys a worker accumulates before merging",
		},
		&cli.Uint64Flag{
			Name:  "report-every",
			Value: 1,
			Usage: "write a summary line every this many merged steps",
		},
	)
}

func rangeEndFlag() *cli.Uint64Flag {
	return &cli.Uint64Flag{
		Name:     "range-end",
		Aliases:  []string{"r"},
		Usage:    "hash into [0, range-end]",
		Required: true,
	}
}

func cmdRegularity() *cli.Command {
	return &cli.Command{
		Name:   "regularity",
		Usage:  "test the uniformity of the distribution of hashes with a chi-squared test",
		Flags:  runFlags(rangeEndFlag()),
		Action: func(ctx *cli.Context) error {
			exp := experiment.Regularity{RangeEnd: ctx.Uint64("range-end")}
			return runExperiment[*experiment.Occurrences](ctx, exp, fmt.Sprintf("%d_bytes_to_range_to_incl_%d", ctx.Int("key-size"), exp.RangeEnd))
		},
	}
}

func cmdCollisions() *cli.Command {
	return &cli.Command{
		Name:   "collisions",
		Usage:  "compare the number of collisions with the value expected from a uniform distribution",
		Flags:  runFlags(rangeEndFlag()),
		Action: func(ctx *cli.Context) error {
			exp := experiment.Collisions{RangeEnd: ctx.Uint64("range-end")}
			return runExperiment[*experiment.Occurrences](ctx, exp, fmt.Sprintf("%d_bytes_to_range_to_incl_%d", ctx.Int("key-size"), exp.RangeEnd))
		},
	}
}

func cmdIndependenceAcrossRanges() *cli.Command {
	return &cli.Command{
		Name:  "independence-across-ranges",
		Usage: "test the mutual independence of hashes across ranges, given that they are pairwise distinct",
		Flags: runFlags(&cli.Uint64SliceFlag{
			Name:     "range-end",
			Aliases:  []string{"r"},
			Usage:    "range ends to compare, at least two",
			Required: true,
		}),
		Action: func(ctx *cli.Context) error {
			exp, err := experiment.NewIndependenceAcrossRanges(ctx.Uint64Slice("range-end"))
			if err != nil {
				return err
			}
			ends := make([]string, len(exp.RangeEnds))
			for i, end := range exp.RangeEnds {
				ends[i] = strconv.FormatUint(end, 10)
			}
			return runExperiment[*experiment.Cooccurrences](ctx, exp, fmt.Sprintf("%d_bytes_to_ranges_to_incl_%s", ctx.Int("key-size"), strings.Join(ends, "_")))
		},
	}
}

func cmdIndependenceAcrossSeeds() *cli.Command {
	return &cli.Command{
		Name:  "independence-across-seeds",
		Usage: "test the mutual independence of hashes across seeds",
		Flags: runFlags(
			rangeEndFlag(),
			&cli.IntFlag{
				Name:    "num-seeds",
				Aliases: []string{"n"},
				Value:   2,
				Usage:   "number of seeds to compare",
			},
			&cli.Uint64Flag{
				Name:  "seed",
				Value: 0,
				Usage: "master seed the compared seeds are drawn from",
			},
		),
		Action: func(ctx *cli.Context) error {
			exp, err := experiment.NewIndependenceAcrossSeeds(ctx.Uint64("range-end"), ctx.Int("num-seeds"), ctx.Uint64("seed"))
			if err != nil {
				return err
			}
			return runExperiment[*experiment.Cooccurrences](ctx, exp, fmt.Sprintf("%d_bytes_%d_seeds_to_range_to_incl_%d", ctx.Int("key-size"), len(exp.Seeds), exp.RangeEnd))
		},
	}
}

func cmdMonotonicity() *cli.Command {
	return &cli.Command{
		Name:  "monotonicity",
		Usage: "grow the range and count the keys that move, and those that move between old values",
		Flags: runFlags(
			&cli.Uint64Flag{Name: "from", Usage: "smaller range end", Required: true},
			&cli.Uint64Flag{Name: "to", Usage: "larger range end", Required: true},
		),
		Action: func(ctx *cli.Context) error {
			exp := experiment.Monotonicity{From: ctx.Uint64("from"), To: ctx.Uint64("to")}
			return runExperiment[*experiment.Movement](ctx, exp, fmt.Sprintf("%d_bytes_from_range_to_incl_%d_to_%d", ctx.Int("key-size"), exp.From, exp.To))
		},
	}
}

func runExperiment[A experiment.Accumulator[A]](ctx *cli.Context, exp experiment.Experiment[A], file string) error {
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

	out, err := createResult(ctx, exp.Name(), file)
	if err != nil {
		return err
	}
	defer out.Close()

	logger.Info("running experiment",
		zap.String("experiment", exp.Name()),
		zap.Strings("algos", ctx.StringSlice("algo")),
		zap.String("results", out.Name()))

	results, err := experiment.Run(ctx.Context, exp, algos, out,
		experiment.WithWorkers(ctx.Int("workers")),
		experiment.WithStepSize(ctx.Uint64("step-size")),
		experiment.WithMaxKeys(ctx.Uint64("max-keys")),
		experiment.WithReportEvery(ctx.Uint64("report-every")),
		experiment.WithLogger(logger),
		experiment.WithKeySource(keys),
	)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close results file: %w", err)
	}

	renderSummaries(ctx.App.Writer, results)
	return nil
}

func renderSummaries(w io.Writer, results []experiment.Result) {
	if len(results) == 0 {
		return
	}
	summaryTable := table.NewWriter()
	summaryTable.SetOutputMirror(w)

	header := table.Row{experiment.FieldAlgo}
	for _, f := range results[0].Summary {
		header = append(header, f.Name)
	}
	summaryTable.AppendHeader(header)
	for _, r := range results {
		row := table.Row{r.Algorithm}
		for _, f := range r.Summary {
			row = append(row, formatValue(f.Value))
		}
		summaryTable.AppendRow(row)
	}

	summaryTable.SetStyle(table.StyleDefault)
	summaryTable.Render()
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', 6, 64)
	default:
		return fmt.Sprint(v)
	}
}
