package walker

import (
	"os"
	"path/filepath"
	"testing"

	"dirsize/internal/transcript"
	"dirsize/internal/tree"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for f, content := range files {
		fullPath := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}
}

func TestRecord_Transcript(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"b.txt":     "12345",
		"a/f":       "123",
		"a/e/i":     "1",
		"d/j":       "1234567",
		"d/k.log.x": "",
	})

	result, err := Record(tmpDir, []string{})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	want := []transcript.Event{
		transcript.Cd("/"),
		transcript.Ls(),
		transcript.Dir("a"),
		transcript.File(5, "b.txt"),
		transcript.Dir("d"),
		transcript.Cd("a"),
		transcript.Ls(),
		transcript.Dir("e"),
		transcript.File(3, "f"),
		transcript.Cd("e"),
		transcript.Ls(),
		transcript.File(1, "i"),
		transcript.Cd(".."),
		transcript.Cd(".."),
		transcript.Cd("d"),
		transcript.Ls(),
		transcript.File(7, "j"),
		transcript.File(0, "k.log.x"),
		transcript.Cd(".."),
	}

	if len(result.Events) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(result.Events), result.Events)
	}
	for i := range want {
		if result.Events[i] != want[i] {
			t.Errorf("Event %d: expected %q, got %q", i, want[i], result.Events[i])
		}
	}

	if result.Files != 5 {
		t.Errorf("Expected 5 files, got %d", result.Files)
	}
	if result.Dirs != 3 {
		t.Errorf("Expected 3 directories, got %d", result.Dirs)
	}
}

func TestRecord_RebuildsSizes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"x/y/z.bin": "0123456789",
		"x/w":       "abc",
		"top":       "ab",
	})

	result, err := Record(tmpDir, nil)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	root, err := tree.Build(result.Events)
	if err != nil {
		t.Fatalf("Build failed on recorded transcript: %v", err)
	}

	table := tree.Aggregate(root)
	expected := tree.SizeTable{"": 15, "/x": 13, "/x/y": 10}
	for path, size := range expected {
		if table[path] != size {
			t.Errorf("%q: expected size %d, got %d", path, size, table[path])
		}
	}
	if len(table) != len(expected) {
		t.Errorf("Expected %d directories, got %d", len(expected), len(table))
	}
}

func TestRecord_WithExclusions(t *testing.T) {
	tmpDir := t.TempDir()

	// Create test directory structure
	files := map[string]bool{
		"file1.txt":           false, // should be included
		"file2.tmp":           true,  // should be excluded (*.tmp)
		"file3.log":           true,  // should be excluded (*.log)
		"node_modules/lib.js": true,  // should be excluded (node_modules/)
		"src/main.go":         false, // should be included
		"dist/output.js":      true,  // should be excluded (dist/)
		".git/config":         true,  // should be excluded (.git/)
	}
	contents := make(map[string]string)
	for f := range files {
		contents[f] = "content"
	}
	writeFiles(t, tmpDir, contents)

	exclusions := []string{
		"*.tmp",
		"*.log",
		"node_modules/",
		"dist/",
		".git/",
	}

	result, err := Record(tmpDir, exclusions)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if result.Files != 2 {
		t.Errorf("Expected 2 files, got %d", result.Files)
	}
	if result.Dirs != 1 {
		t.Errorf("Expected only src to be recorded, got %d directories", result.Dirs)
	}

	for _, ev := range result.Events {
		if ev.Kind == transcript.DirectoryAnnouncement && ev.Name != "src" {
			t.Errorf("Directory %s should have been excluded", ev.Name)
		}
		if ev.Kind == transcript.FileAnnouncement && files[ev.Name] {
			t.Errorf("File %s should have been excluded", ev.Name)
		}
	}
}

func TestRecord_GlobPatternExclusion(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"test.go":      "",
		"test_test.go": "",
		"main_test.go": "",
		"main.go":      "",
	})

	result, err := Record(tmpDir, []string{"*_test.go"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Should only include test.go and main.go
	if result.Files != 2 {
		t.Errorf("Expected 2 files, got %d", result.Files)
	}
}

func TestRecord_EmptyDirectory(t *testing.T) {
	result, err := Record(t.TempDir(), []string{})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if len(result.Events) != 2 {
		t.Errorf("Expected cd / and ls only, got %v", result.Events)
	}
}

func TestRecord_NonExistentDirectory(t *testing.T) {
	_, err := Record("/nonexistent/directory", []string{})
	if err == nil {
		t.Error("Record should return error for nonexistent directory")
	}
}

func TestRecord_FileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if _, err := Record(path, nil); err == nil {
		t.Error("Record should reject a file as root")
	}
}
