package compare

import (
	"fmt"
	"sort"
	"strings"

	"dirsize/internal/hash"
	"dirsize/internal/tree"
)

type ChangeType string

const (
	Added   ChangeType = "ADDED"
	Resized ChangeType = "RESIZED"
	Deleted ChangeType = "DELETED"
)

// Change describes one directory whose aggregate size differs between the
// two trees. OldSize is zero for additions, NewSize for deletions.
type Change struct {
	Type    ChangeType
	Path    string
	OldSize int64
	NewSize int64
}

type CompareResult struct {
	Added   []Change
	Resized []Change
	Deleted []Change
}

func (r *CompareResult) HasChanges() bool {
	return len(r.Added) > 0 || len(r.Resized) > 0 || len(r.Deleted) > 0
}

// Compare walks both trees together. Subtrees with matching fingerprints
// are skipped, so unchanged branches cost one hash each.
func Compare(oldTree, newTree *tree.Directory) *CompareResult {
	result := &CompareResult{
		Added:   make([]Change, 0),
		Resized: make([]Change, 0),
		Deleted: make([]Change, 0),
	}

	compareDir(tree.Path{}, oldTree, newTree, result)

	sort.Slice(result.Added, func(i, j int) bool {
		return result.Added[i].Path < result.Added[j].Path
	})
	sort.Slice(result.Resized, func(i, j int) bool {
		return result.Resized[i].Path < result.Resized[j].Path
	})
	sort.Slice(result.Deleted, func(i, j int) bool {
		return result.Deleted[i].Path < result.Deleted[j].Path
	})

	return result
}

func compareDir(path tree.Path, oldDir, newDir *tree.Directory, result *CompareResult) {
	if hash.Fingerprint(oldDir) == hash.Fingerprint(newDir) {
		return
	}

	if oldSize, newSize := oldDir.TotalSize(), newDir.TotalSize(); oldSize != newSize {
		result.Resized = append(result.Resized, Change{
			Type:    Resized,
			Path:    path.String(),
			OldSize: oldSize,
			NewSize: newSize,
		})
	}

	for name, newSub := range newDir.Dirs {
		subPath := append(path[:len(path):len(path)], name)
		if oldSub, exists := oldDir.Dirs[name]; exists {
			compareDir(subPath, oldSub, newSub, result)
		} else {
			collect(subPath, newSub, Added, &result.Added)
		}
	}

	for name, oldSub := range oldDir.Dirs {
		if _, exists := newDir.Dirs[name]; !exists {
			subPath := append(path[:len(path):len(path)], name)
			collect(subPath, oldSub, Deleted, &result.Deleted)
		}
	}
}

// collect records d and every directory beneath it as added or deleted.
func collect(path tree.Path, d *tree.Directory, changeType ChangeType, changes *[]Change) {
	change := Change{Type: changeType, Path: path.String()}
	if changeType == Added {
		change.NewSize = d.TotalSize()
	} else {
		change.OldSize = d.TotalSize()
	}
	*changes = append(*changes, change)

	for name, sub := range d.Dirs {
		collect(append(path[:len(path):len(path)], name), sub, changeType, changes)
	}
}

func FormatReport(result *CompareResult) string {
	if !result.HasChanges() {
		return "No changes detected."
	}

	var report strings.Builder
	report.WriteString("Changes detected:\n\n")

	if len(result.Added) > 0 {
		fmt.Fprintf(&report, "ADDED (%d directories):\n", len(result.Added))
		for _, change := range result.Added {
			fmt.Fprintf(&report, "  + %s (size: %d)\n", change.Path, change.NewSize)
		}
		report.WriteString("\n")
	}

	if len(result.Resized) > 0 {
		fmt.Fprintf(&report, "RESIZED (%d directories):\n", len(result.Resized))
		for _, change := range result.Resized {
			fmt.Fprintf(&report, "  ~ %s (%d -> %d, %+d)\n",
				change.Path, change.OldSize, change.NewSize, change.NewSize-change.OldSize)
		}
		report.WriteString("\n")
	}

	if len(result.Deleted) > 0 {
		fmt.Fprintf(&report, "DELETED (%d directories):\n", len(result.Deleted))
		for _, change := range result.Deleted {
			fmt.Fprintf(&report, "  - %s (size: %d)\n", change.Path, change.OldSize)
		}
		report.WriteString("\n")
	}

	fmt.Fprintf(&report, "Summary: %d added, %d resized, %d deleted\n",
		len(result.Added), len(result.Resized), len(result.Deleted))

	return report.String()
}
