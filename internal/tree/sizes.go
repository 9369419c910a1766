package tree

import (
	"math"
	"sort"
)

// addSize adds two non-negative sizes, saturating at math.MaxInt64 instead
// of wrapping negative.
func addSize(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// TotalSize returns the size of every file in d and all of its descendants.
// Totals too large for an int64 are reported as math.MaxInt64.
func (d *Directory) TotalSize() int64 {
	var total int64
	for _, size := range d.Files {
		total = addSize(total, size)
	}
	for _, sub := range d.Dirs {
		total = addSize(total, sub.TotalSize())
	}
	return total
}

// SizeTable maps each directory's path key to its aggregate size.
type SizeTable map[string]int64

// Aggregate computes the aggregate size of every directory under root,
// root included.
func Aggregate(root *Directory) SizeTable {
	table := make(SizeTable)
	aggregate(root, "", table)
	return table
}

// aggregate fills table bottom-up and returns d's total, so each node is
// summed once.
func aggregate(d *Directory, key string, table SizeTable) int64 {
	var total int64
	for _, size := range d.Files {
		total = addSize(total, size)
	}
	for name, sub := range d.Dirs {
		total = addSize(total, aggregate(sub, key+"/"+name, table))
	}
	table[key] = total
	return total
}

// Root returns the aggregate size of the root directory.
func (t SizeTable) Root() int64 {
	return t[""]
}

// Values returns every aggregate size in ascending order.
func (t SizeTable) Values() []int64 {
	values := make([]int64, 0, len(t))
	for _, size := range t {
		values = append(values, size)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}

// Paths returns the table's keys in lexical order.
func (t SizeTable) Paths() []string {
	paths := make([]string, 0, len(t))
	for path := range t {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
