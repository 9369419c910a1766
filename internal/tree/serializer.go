package tree

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
)

type Snapshot struct {
	Generator string     `json:"generator"`
	Created   time.Time  `json:"created"`
	Manifest  string     `json:"manifest,omitempty"`
	Size      string     `json:"size"`
	Tree      *Directory `json:"tree"`
}

// FormatSize renders a byte count the way snapshots and reports print it.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return humanize.IBytes(uint64(bytes))
}

// NewSnapshot wraps root for saving. manifest is an optional digest of the
// tree's size table.
func NewSnapshot(root *Directory, manifest string) *Snapshot {
	return &Snapshot{
		Generator: "dirsize",
		Created:   time.Now(),
		Manifest:  manifest,
		Size:      FormatSize(root.TotalSize()),
		Tree:      root,
	}
}

func Save(snapshot *Snapshot, path string) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tree: %w", err)
	}

	if snapshot.Tree == nil {
		snapshot.Tree = NewDirectory()
	}
	normalize(snapshot.Tree)

	return &snapshot, nil
}

// normalize restores the empty maps dropped by omitempty.
func normalize(d *Directory) {
	if d.Dirs == nil {
		d.Dirs = make(map[string]*Directory)
	}
	if d.Files == nil {
		d.Files = make(map[string]int64)
	}
	for name, sub := range d.Dirs {
		if sub == nil {
			sub = NewDirectory()
			d.Dirs[name] = sub
		}
		normalize(sub)
	}
}
