package hash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"dirsize/internal/tree"

	"github.com/cespare/xxhash/v2"
	"github.com/txaty/go-merkletree"
)

// XXHashFunc is a custom hash function adapter for go-merkletree
// It converts []byte input to xxHash []byte output
func XXHashFunc(data []byte) ([]byte, error) {
	h := xxhash.New()
	h.Write(data)
	sum := h.Sum64()

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, sum)
	return buf, nil
}

// Fingerprint returns a digest of d's contents. Two directories with the
// same files, sizes and sub-directories share a fingerprint no matter what
// order they were announced in.
func Fingerprint(d *tree.Directory) string {
	return hex.EncodeToString(fingerprint(d))
}

func fingerprint(d *tree.Directory) []byte {
	h := xxhash.New()

	files := make([]string, 0, len(d.Files))
	for name := range d.Files {
		files = append(files, name)
	}
	sort.Strings(files)
	for _, name := range files {
		h.WriteString("f\x00" + name + "\x00" + strconv.FormatInt(d.Files[name], 10) + "\n")
	}

	dirs := make([]string, 0, len(d.Dirs))
	for name := range d.Dirs {
		dirs = append(dirs, name)
	}
	sort.Strings(dirs)
	for _, name := range dirs {
		h.WriteString("d\x00" + name + "\x00")
		h.Write(fingerprint(d.Dirs[name]))
		h.WriteString("\n")
	}

	return h.Sum(nil)
}

// sizeRecord is one (path, size) leaf of the manifest tree.
type sizeRecord struct {
	path string
	size int64
}

func (r sizeRecord) Serialize() ([]byte, error) {
	return []byte(r.path + "\x00" + strconv.FormatInt(r.size, 10)), nil
}

// ManifestRoot builds a Merkle tree over the table's (path, size) records
// in path order and returns its root.
func ManifestRoot(table tree.SizeTable) (string, error) {
	paths := table.Paths()
	if len(paths) == 0 {
		return "", fmt.Errorf("failed to build manifest: empty size table")
	}

	blocks := make([]merkletree.DataBlock, 0, len(paths)+1)
	for _, path := range paths {
		blocks = append(blocks, sizeRecord{path: path, size: table[path]})
	}
	// go-merkletree needs at least two leaves; duplicate a lone record the
	// same way odd nodes are paired with themselves.
	if len(blocks) == 1 {
		blocks = append(blocks, blocks[0])
	}

	mt, err := merkletree.New(&merkletree.Config{
		HashFunc: XXHashFunc,
		Mode:     merkletree.ModeTreeBuild,
	}, blocks)
	if err != nil {
		return "", fmt.Errorf("failed to build manifest: %w", err)
	}

	return hex.EncodeToString(mt.Root), nil
}
