package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamirms/fliphash/internal/experiment"
	"github.com/tamirms/fliphash/internal/keysource"
)

var (
	Build = "head"
)

const (
	defaultResultsDir = "results"
	defaultKeySeed    = 0xf11f4a54
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "fliphash-bench",
		Usage:           fmt.Sprintf("range hash experiments, build for %s on %s", runtime.GOARCH, runtime.GOOS),
		Version:         Build,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Value: false,
				Usage: "enable verbose logging",
			},
			&cli.StringSliceFlag{
				Name:    "algo",
				Aliases: []string{"a"},
				Value:   cli.NewStringSlice(experiment.DefaultAlgorithms...),
				Usage:   fmt.Sprintf("algorithms to evaluate, any of %v", experiment.AlgorithmNames()),
			},
			&cli.IntFlag{
				Name:    "workers",
				Value:   runtime.GOMAXPROCS(0),
				Usage:   "number of parallel workers",
				EnvVars: []string{"FLIPHASH_WORKERS"},
			},
			&cli.PathFlag{
				Name:    "results",
				Value:   defaultResultsDir,
				Usage:   "directory for experiment results",
				EnvVars: []string{"FLIPHASH_RESULTS"},
			},
			&cli.PathFlag{
				Name:  "keys-file",
				Usage: "read keys from a file of fixed-size records instead of generating them",
			},
			&cli.IntFlag{
				Name:    "key-size",
				Aliases: []string{"i"},
				Value:   8,
				Usage:   "key size in bytes",
			},
			&cli.Uint64Flag{
				Name:  "key-seed",
				Value: defaultKeySeed,
				Usage: "seed of the generated keys",
			},
		},
		Commands: []*cli.Command{
			cmdRegularity(),
			cmdCollisions(),
			cmdIndependenceAcrossRanges(),
			cmdIndependenceAcrossSeeds(),
			cmdMonotonicity(),
			cmdPerf(),
			cmdDigest(),
			cmdHash(),
		},
		Before: configLogger,
		After: func(ctx *cli.Context) error {
			if logger, ok := ctx.App.Metadata["logger"].(*zap.Logger); ok {
				_ = logger.Sync()
			}
			return nil
		},
	}
}

func configLogger(ctx *cli.Context) error {
	var config zap.Config
	if ctx.Bool("verbose") {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}
	// Results go to stdout and files; logs go to stderr.
	config.OutputPaths = []string{"stderr"}
	logger, err := config.Build()
	if err != nil {
		return err
	}
	ctx.App.Metadata["logger"] = logger
	return nil
}

func loggerFrom(ctx *cli.Context) *zap.Logger {
	return ctx.App.Metadata["logger"].(*zap.Logger)
}

// openKeys returns the key source selected by the global flags. The returned
// close function releases a key file.
func openKeys(ctx *cli.Context) (keysource.Source, func(), error) {
	size := ctx.Int("key-size")
	path := ctx.Path("keys-file")
	if path == "" {
		return keysource.NewRandom(ctx.Uint64("key-seed"), size), func() {}, nil
	}
	f, err := keysource.Open(path, size)
	if err != nil {
		return nil, nil, err
	}
	loggerFrom(ctx).Info("using key file",
		zap.String("path", path),
		zap.Int("key size", size),
		zap.Int("records", f.Records()))
	return f, func() { _ = f.Close() }, nil
}

func algorithms(ctx *cli.Context) ([]experiment.Algorithm, error) {
	return experiment.ParseAlgorithms(ctx.StringSlice("algo"))
}

// createResult creates <results>/<dir>/<name>, truncating an earlier run.
func createResult(ctx *cli.Context, dir, name string) (*os.File, error) {
	dir = filepath.Join(ctx.Path("results"), dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}
	return f, nil
}
