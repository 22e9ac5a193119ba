package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tamirms/fliphash"
	fherrors "github.com/tamirms/fliphash/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.RunContext(context.Background(), append([]string{"fliphash-bench"}, args...))
	return out.String(), err
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestHashCommand(t *testing.T) {
	as := require.New(t)

	out, err := run(t, "hash", "--range-end", "17", "0", "1", "0x10")
	as.NoError(err)
	as.Equal(fmt.Sprintf("0\t13\n1\t%d\n16\t%d\n", fliphash.Hash64(1, 17), fliphash.Hash64(16, 17)), out)

	out, err = run(t, "hash", "--bits", "32", "--range-end", "1000", "1")
	as.NoError(err)
	as.Equal("1\t666\n", out)

	out, err = run(t, "hash", "--range-end", "17", "--seed", "2", "10427592028180905159")
	as.NoError(err)
	as.Equal("10427592028180905159\t4\n", out)

	_, err = run(t, "hash", "--bits", "32", "--range-end", "5000000000", "1")
	as.ErrorIs(err, fherrors.ErrRangeTooWide)

	_, err = run(t, "hash", "--range-end", "17", "not-a-number")
	as.Error(err)

	_, err = run(t, "hash", "--bits", "16", "--range-end", "17", "1")
	as.Error(err)
}

func TestRegularityCommand(t *testing.T) {
	as := require.New(t)
	dir := t.TempDir()

	out, err := run(t,
		"--results", dir, "--workers", "2", "--algo", "flip-hash64", "--algo", "jump-hash",
		"regularity", "--range-end", "9", "--max-keys", "20000", "--step-size", "1000")
	as.NoError(err)
	as.Contains(out, "flip-hash64")
	as.Contains(out, "jump-hash")
	as.Contains(strings.ToLower(out), "p-value")

	lines := readLines(t, filepath.Join(dir, "regularity", "8_bytes_to_range_to_incl_9"))
	final := map[string]float64{}
	for _, line := range lines {
		final[line["algo"].(string)] = line["num keys"].(float64)
	}
	as.Equal(map[string]float64{"flip-hash64": 20000, "jump-hash": 20000}, final)
}

func TestResultsDirFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FLIPHASH_RESULTS", dir)
	t.Setenv("FLIPHASH_WORKERS", "1")

	_, err := run(t, "--algo", "flip-hash-xxh3", "monotonicity", "--from", "10", "--to", "20", "--max-keys", "5000")
	require.NoError(t, err)

	lines := readLines(t, filepath.Join(dir, "monotonicity", "8_bytes_from_range_to_incl_10_to_20"))
	require.NotEmpty(t, lines)
	last := lines[len(lines)-1]
	require.Equal(t, "flip-hash-xxh3", last["algo"])
	require.Equal(t, 0.0, last["violations"])
}

func TestIndependenceCommands(t *testing.T) {
	as := require.New(t)
	dir := t.TempDir()

	_, err := run(t, "--results", dir, "--algo", "flip-hash64",
		"independence-across-ranges", "-r", "9", "-r", "3", "--max-keys", "5000")
	as.NoError(err)
	as.FileExists(filepath.Join(dir, "independence-across-ranges", "8_bytes_to_ranges_to_incl_3_9"))

	_, err = run(t, "--results", dir, "--algo", "flip-hash64",
		"independence-across-seeds", "-r", "4", "-n", "3", "--max-keys", "5000")
	as.NoError(err)
	as.FileExists(filepath.Join(dir, "independence-across-seeds", "8_bytes_3_seeds_to_range_to_incl_4"))

	_, err = run(t, "--results", dir, "independence-across-ranges", "-r", "9", "-r", "9")
	as.ErrorIs(err, fherrors.ErrDuplicateRange)

	_, err = run(t, "--results", dir, "independence-across-seeds", "-r", "9", "-n", "1")
	as.ErrorIs(err, fherrors.ErrTooFewSeeds)
}

func TestCommandErrors(t *testing.T) {
	as := require.New(t)
	dir := t.TempDir()

	_, err := run(t, "--results", dir, "--algo", "no-such-hash", "collisions", "-r", "9", "--max-keys", "10")
	as.ErrorIs(err, fherrors.ErrUnknownAlgorithm)

	_, err = run(t, "--results", dir, "--algo", "jump-hash", "--key-size", "4", "collisions", "-r", "9", "--max-keys", "10")
	as.ErrorIs(err, fherrors.ErrKeyTooShort)

	_, err = run(t, "--results", dir, "--keys-file", filepath.Join(dir, "missing"), "collisions", "-r", "9")
	as.ErrorIs(err, os.ErrNotExist)
}

func TestDigestCommandWithKeyFile(t *testing.T) {
	as := require.New(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "keys.bin")
	data := make([]byte, 8*300)
	for i := range 300 {
		binary.LittleEndian.PutUint64(data[8*i:], uint64(i))
	}
	as.NoError(os.WriteFile(path, data, 0o644))

	args := []string{"--keys-file", path, "--algo", "flip-hash64", "--algo", "flip-hash32", "digest", "-r", "99", "-n", "1000"}
	first, err := run(t, args...)
	as.NoError(err)
	second, err := run(t, args...)
	as.NoError(err)
	as.Equal(first, second)
	as.Contains(first, "flip-hash32")
	as.Equal(2, strings.Count(first, " 300 "), "each algorithm hashes the whole file")
}

func TestPerfCommand(t *testing.T) {
	as := require.New(t)
	dir := t.TempDir()

	out, err := run(t, "--results", dir, "--algo", "flip-hash64",
		"perf", "-r", "10", "-r", "1000", "--samples", "3", "--iterations", "100")
	as.NoError(err)
	as.Contains(strings.ToLower(out), "median ns/op")

	lines := readLines(t, filepath.Join(dir, "perf", "8_bytes"))
	as.Len(lines, 2)
	as.Equal(10.0, lines[0]["range end"])
	as.Equal(1000.0, lines[1]["range end"])
}
