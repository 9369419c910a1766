package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dirsize/internal/tree"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleTranscript = `$ cd /
$ ls
dir a
14848514 b.txt
8504156 c.dat
dir d
$ cd a
$ ls
dir e
29116 f
2557 g
62596 h.lst
$ cd e
$ ls
584 i
$ cd ..
$ cd ..
$ cd d
$ ls
4060174 j
8033020 d.log
5626152 d.ext
7214296 k
`

// newTestCmd returns a command with no flags set and captured output, and
// points the global config at a path that does not exist.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	logger = zap.NewNop()
	configPath = filepath.Join(t.TempDir(), "missing.yaml")

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSolveCmd(t *testing.T) {
	cmd, out := newTestCmd(t)

	require.NoError(t, runSolve(cmd, []string{writeTranscript(t, sampleTranscript)}))

	assert.Contains(t, out.String(), "Directories: 4")
	assert.Contains(t, out.String(), "below 100000 is 95437")
	assert.Contains(t, out.String(), "at least 8381165 is 24933642")
}

func TestSolveCmd_NothingToDelete(t *testing.T) {
	cmd, out := newTestCmd(t)

	require.NoError(t, runSolve(cmd, []string{writeTranscript(t, "$ cd /\n$ ls\n100 f\n")}))

	assert.Contains(t, out.String(), "Nothing needs deleting")
}

func TestSolveCmd_InvalidNavigation(t *testing.T) {
	cmd, _ := newTestCmd(t)

	err := runSolve(cmd, []string{writeTranscript(t, "$ cd /\n$ cd ..\n")})
	assert.True(t, errors.Is(err, tree.ErrInvalidNavigation), "got %v", err)
}

func TestSolveCmd_StrictConfig(t *testing.T) {
	cmd, _ := newTestCmd(t)
	require.NoError(t, os.WriteFile(configPath, []byte("strict: true\n"), 0644))

	err := runSolve(cmd, []string{writeTranscript(t, "$ cd /\nnot a line\n")})
	assert.Error(t, err)
}

func TestSizesCmd(t *testing.T) {
	cmd, out := newTestCmd(t)

	require.NoError(t, runSizes(cmd, []string{writeTranscript(t, sampleTranscript)}))

	want := "/ 48381165\n/a 94853\n/a/e 584\n/d 24933642\n"
	assert.Equal(t, want, out.String())
}

func TestSnapshotAndDiff(t *testing.T) {
	cmd, out := newTestCmd(t)
	snapshotPath := filepath.Join(t.TempDir(), "snap", "tree.json")

	require.NoError(t, runSnapshot(cmd, []string{writeTranscript(t, sampleTranscript), snapshotPath}))
	assert.Contains(t, out.String(), "Snapshot saved")
	assert.FileExists(t, snapshotPath)

	out.Reset()
	require.NoError(t, runDiff(cmd, []string{snapshotPath, writeTranscript(t, sampleTranscript)}))
	assert.Contains(t, out.String(), "No changes detected.")

	grown := strings.Replace(sampleTranscript, "584 i", "1584 i", 1)
	out.Reset()
	err := runDiff(cmd, []string{snapshotPath, writeTranscript(t, grown)})
	assert.ErrorIs(t, err, errChangesDetected)
	assert.Contains(t, out.String(), "~ /a/e (584 -> 1584, +1000)")
}

func TestRecordCmd(t *testing.T) {
	cmd, out := newTestCmd(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "f"), []byte("hello"), 0644))

	outputPath := filepath.Join(t.TempDir(), "recorded.txt")
	require.NoError(t, runRecord(cmd, []string{dir, outputPath}))
	assert.Contains(t, out.String(), "Recorded 1 files in 2 directories")

	out.Reset()
	require.NoError(t, runSizes(cmd, []string{outputPath}))
	assert.Equal(t, "/ 5\n/sub 5\n", out.String())
}
