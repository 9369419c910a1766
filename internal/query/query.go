// Package query answers the two aggregate questions asked of a size table:
// how much space do the small directories use, and which single directory
// is the cheapest one to delete to reach a free-space target.
package query

import (
	"errors"
	"fmt"
	"math"

	"dirsize/internal/tree"
)

var ErrNoFeasibleCandidate = errors.New("no directory is large enough")

// Params holds the thresholds for Solve.
type Params struct {
	Threshold  int64 `yaml:"threshold"`
	Capacity   int64 `yaml:"capacity"`
	TargetFree int64 `yaml:"target_free"`
}

func DefaultParams() Params {
	return Params{
		Threshold:  100_000,
		Capacity:   70_000_000,
		TargetFree: 30_000_000,
	}
}

// Answer is the result of both queries over one size table.
type Answer struct {
	BoundedSum  int64
	Used        int64
	Deficit     int64
	MinFeasible int64
}

// BoundedSum returns the sum of all values strictly below threshold,
// saturating at math.MaxInt64.
func BoundedSum(values []int64, threshold int64) int64 {
	var sum int64
	for _, v := range values {
		if v < 0 || v >= threshold {
			continue
		}
		if sum > math.MaxInt64-v {
			return math.MaxInt64
		}
		sum += v
	}
	return sum
}

// Deficit is how much must be freed so that capacity-used >= targetFree.
// A result <= 0 means nothing needs deleting; callers decide what to do.
func Deficit(used, capacity, targetFree int64) int64 {
	return used - (capacity - targetFree)
}

// MinFeasible returns the smallest value that is at least deficit.
func MinFeasible(values []int64, deficit int64) (int64, error) {
	best, found := int64(0), false
	for _, v := range values {
		if v >= deficit && (!found || v < best) {
			best, found = v, true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: need %d", ErrNoFeasibleCandidate, deficit)
	}
	return best, nil
}

// Solve runs both queries with the root's aggregate size as used space.
func Solve(table tree.SizeTable, p Params) (Answer, error) {
	values := table.Values()
	ans := Answer{
		BoundedSum: BoundedSum(values, p.Threshold),
		Used:       table.Root(),
	}
	ans.Deficit = Deficit(ans.Used, p.Capacity, p.TargetFree)

	best, err := MinFeasible(values, ans.Deficit)
	if err != nil {
		return ans, err
	}
	ans.MinFeasible = best
	return ans, nil
}
