package experiment

import (
	"encoding/binary"
)

// Accumulator collects per-key observations. Workers fill their own
// accumulators; the collector merges them.
type Accumulator[A any] interface {
	// Merge adds other's observations into the receiver.
	Merge(other A)
	// NumKeys is the number of keys recorded.
	NumKeys() uint64
	// Reset empties the accumulator for reuse.
	Reset()
}

// Occurrences counts how often each hash value occurred.
type Occurrences struct {
	counts []uint64
	n      uint64
}

// NewOccurrences returns a counter for values in [0, buckets).
func NewOccurrences(buckets int) *Occurrences {
	return &Occurrences{counts: make([]uint64, buckets)}
}

// Record counts one occurrence of v.
func (o *Occurrences) Record(v uint64) {
	o.counts[v]++
	o.n++
}

// Counts returns the per-value counts. The slice is owned by o.
func (o *Occurrences) Counts() []uint64 { return o.counts }

// NumKeys implements Accumulator.
func (o *Occurrences) NumKeys() uint64 { return o.n }

// Reset implements Accumulator.
func (o *Occurrences) Reset() {
	clear(o.counts)
	o.n = 0
}

// Merge implements Accumulator.
func (o *Occurrences) Merge(other *Occurrences) {
	for i, c := range other.counts {
		o.counts[i] += c
	}
	o.n += other.n
}

// Cooccurrences counts how often each tuple of hash values occurred together.
type Cooccurrences struct {
	width  int
	counts map[string]uint64
	n      uint64
	buf    []byte
}

// NewCooccurrences returns a counter for tuples of width values.
func NewCooccurrences(width int) *Cooccurrences {
	return &Cooccurrences{
		width:  width,
		counts: make(map[string]uint64),
		buf:    make([]byte, 8*width),
	}
}

// Record counts one occurrence of the tuple vs. len(vs) must equal the width.
func (c *Cooccurrences) Record(vs []uint64) {
	for i, v := range vs {
		binary.LittleEndian.PutUint64(c.buf[8*i:], v)
	}
	c.counts[string(c.buf)]++
	c.n++
}

// Width is the tuple length.
func (c *Cooccurrences) Width() int { return c.width }

// Distinct is the number of distinct tuples seen.
func (c *Cooccurrences) Distinct() int { return len(c.counts) }

// Each calls fn for every distinct tuple with its count. The tuple slice is
// reused between calls.
func (c *Cooccurrences) Each(fn func(tuple []uint64, count uint64)) {
	tuple := make([]uint64, c.width)
	for k, count := range c.counts {
		for i := range tuple {
			tuple[i] = binary.LittleEndian.Uint64([]byte(k[8*i:]))
		}
		fn(tuple, count)
	}
}

// NumKeys implements Accumulator.
func (c *Cooccurrences) NumKeys() uint64 { return c.n }

// Reset implements Accumulator.
func (c *Cooccurrences) Reset() {
	clear(c.counts)
	c.n = 0
}

// Merge implements Accumulator.
func (c *Cooccurrences) Merge(other *Cooccurrences) {
	for k, count := range other.counts {
		c.counts[k] += count
	}
	c.n += other.n
}

// Movement tallies keys whose value changed between two range ends.
type Movement struct {
	n          uint64
	moved      uint64
	violations uint64
}

// Record notes a key that hashed to before under the smaller range end from
// and to after under the larger one.
func (m *Movement) Record(before, after, from uint64) {
	m.n++
	if before == after {
		return
	}
	m.moved++
	if after <= from {
		m.violations++
	}
}

// Moved is the number of keys whose value changed.
func (m *Movement) Moved() uint64 { return m.moved }

// Violations is the number of keys that moved to a value already in range.
func (m *Movement) Violations() uint64 { return m.violations }

// NumKeys implements Accumulator.
func (m *Movement) NumKeys() uint64 { return m.n }

// Reset implements Accumulator.
func (m *Movement) Reset() { *m = Movement{} }

// Merge implements Accumulator.
func (m *Movement) Merge(other *Movement) {
	m.n += other.n
	m.moved += other.moved
	m.violations += other.violations
}
