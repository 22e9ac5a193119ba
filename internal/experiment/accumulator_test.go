package experiment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOccurrencesMergeAndReset(t *testing.T) {
	as := require.New(t)

	a, b := NewOccurrences(3), NewOccurrences(3)
	a.Record(0)
	a.Record(2)
	b.Record(2)
	b.Record(1)
	b.Record(2)

	a.Merge(b)
	as.Equal([]uint64{1, 1, 3}, a.Counts())
	as.Equal(uint64(5), a.NumKeys())

	a.Reset()
	as.Equal([]uint64{0, 0, 0}, a.Counts())
	as.Zero(a.NumKeys())
}

func TestCooccurrencesCountsTuples(t *testing.T) {
	as := require.New(t)

	a, b := NewCooccurrences(2), NewCooccurrences(2)
	a.Record([]uint64{1, 2})
	a.Record([]uint64{1, 2})
	b.Record([]uint64{2, 1})
	b.Record([]uint64{1 << 40, 0})
	a.Merge(b)

	as.Equal(2, a.Width())
	as.Equal(3, a.Distinct())
	as.Equal(uint64(4), a.NumKeys())

	got := map[[2]uint64]uint64{}
	a.Each(func(tuple []uint64, count uint64) {
		got[[2]uint64{tuple[0], tuple[1]}] = count
	})
	as.Equal(map[[2]uint64]uint64{
		{1, 2}:       2,
		{2, 1}:       1,
		{1 << 40, 0}: 1,
	}, got)

	a.Reset()
	as.Zero(a.Distinct())
	as.Zero(a.NumKeys())
}

func TestMovementClassifiesMoves(t *testing.T) {
	as := require.New(t)

	var m Movement
	m.Record(3, 3, 5) // stayed
	m.Record(3, 7, 5) // moved into the new values
	m.Record(3, 1, 5) // moved between old values

	var other Movement
	other.Record(0, 6, 5)
	m.Merge(&other)

	as.Equal(uint64(4), m.NumKeys())
	as.Equal(uint64(3), m.Moved())
	as.Equal(uint64(1), m.Violations())

	m.Reset()
	as.Zero(m.NumKeys())
	as.Zero(m.Moved())
}
