package buffer

import "golang.org/x/exp/slices"

// PrefixSumComputer maintains an ordered sequence of non-negative integers
// and answers cumulative-sum and inverse-lookup queries against it. A
// parallel prefix-sum array is memoized lazily: any mutation only lowers
// the "valid up to" watermark, and the next lookup that needs an index
// past the watermark rebuilds just the missing suffix.
type PrefixSumComputer struct {
	values    []int
	prefixSum []int
	validUpTo int // highest index for which prefixSum[i] is accurate, -1 if none
}

// NewPrefixSumComputer builds a computer over a copy of values. Passing the
// computer's own backing slice back in later (via Values) never aliases it.
func NewPrefixSumComputer(values []int) *PrefixSumComputer {
	v := slices.Clone(values)
	return &PrefixSumComputer{
		values:    v,
		prefixSum: make([]int, len(v)),
		validUpTo: -1,
	}
}

// Clone returns an independent computer over a copy of the current values.
// Used when a Piece's lineStarts must be detached before one half of a
// split mutates it.
func (c *PrefixSumComputer) Clone() *PrefixSumComputer {
	return NewPrefixSumComputer(c.values)
}

// Len returns the number of entries.
func (c *PrefixSumComputer) Len() int {
	return len(c.values)
}

// GetValue returns the raw entry at i, with no accumulation.
func (c *PrefixSumComputer) GetValue(i int) int {
	return c.values[i]
}

// Values returns a copy of the underlying values, safe for the caller to
// retain or mutate without affecting the computer.
func (c *PrefixSumComputer) Values() []int {
	return slices.Clone(c.values)
}

func (c *PrefixSumComputer) invalidate(from int) {
	if from-1 < c.validUpTo {
		c.validUpTo = from - 1
	}
}

// ensureValid rebuilds prefixSum[validUpTo+1 .. index] in place.
func (c *PrefixSumComputer) ensureValid(index int) {
	n := len(c.values)
	if n == 0 || index < 0 {
		return
	}
	if index >= n {
		index = n - 1
	}
	if index <= c.validUpTo {
		return
	}
	start := c.validUpTo + 1
	if start == 0 {
		c.prefixSum[0] = c.values[0]
		start = 1
	}
	for i := start; i <= index; i++ {
		c.prefixSum[i] = c.prefixSum[i-1] + c.values[i]
	}
	c.validUpTo = index
}

// ChangeValue sets entry i to v, invalidating cached sums from i onward.
func (c *PrefixSumComputer) ChangeValue(i, v int) {
	if v < 0 {
		panic("buffer: PrefixSumComputer value must be non-negative")
	}
	if c.values[i] == v {
		return
	}
	c.values[i] = v
	c.invalidate(i)
}

// RemoveValues removes the cnt contiguous entries starting at start.
func (c *PrefixSumComputer) RemoveValues(start, cnt int) {
	if cnt <= 0 {
		return
	}
	c.values = slices.Delete(c.values, start, start+cnt)
	c.prefixSum = slices.Delete(c.prefixSum, start, start+cnt)
	c.invalidate(start)
}

// InsertValues inserts vs before position start.
func (c *PrefixSumComputer) InsertValues(start int, vs []int) {
	if len(vs) == 0 {
		return
	}
	c.values = slices.Insert(c.values, start, vs...)
	c.prefixSum = slices.Insert(c.prefixSum, start, make([]int, len(vs))...)
	c.invalidate(start)
}

// GetAccumulatedValue returns sum(v[0..=i]). Negative i returns 0; i at or
// past the last index returns the total.
func (c *PrefixSumComputer) GetAccumulatedValue(i int) int {
	if i < 0 {
		return 0
	}
	n := len(c.values)
	if n == 0 {
		return 0
	}
	if i >= n-1 {
		i = n - 1
	}
	c.ensureValid(i)
	return c.prefixSum[i]
}

// TotalValue returns sum(v).
func (c *PrefixSumComputer) TotalValue() int {
	return c.GetAccumulatedValue(len(c.values) - 1)
}

// GetIndexOf finds, for 0 <= target <= total, the segment containing it:
// GetAccumulatedValue(index-1) + remainder == target, 0 <= remainder <= v[index].
// When target lands exactly on a segment boundary the later segment is
// returned with remainder 0, except target == 0 which always yields (0, 0).
func (c *PrefixSumComputer) GetIndexOf(target int) (index int, remainder int) {
	n := len(c.values)
	if n == 0 {
		return 0, 0
	}
	if target <= 0 {
		return 0, 0
	}

	low, high := 0, n-1
	for low < high {
		mid := low + (high-low)/2
		if c.GetAccumulatedValue(mid) > target {
			high = mid
		} else {
			low = mid + 1
		}
	}
	index = low
	remainder = target - c.GetAccumulatedValue(index-1)
	return index, remainder
}
