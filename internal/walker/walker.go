package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dirsize/internal/transcript"
)

type RecordResult struct {
	Events []transcript.Event
	Files  int
	Dirs   int
	Errors []error
}

// Record walks rootPath and produces the transcript of a shell session that
// lists every directory: "cd /", "ls" and its entries, then a "cd name" /
// "cd .." pair around each sub-directory. Entries matching exclusions are
// left out. Unreadable sub-directories are reported in Errors and recorded
// as empty.
func Record(rootPath string, exclusions []string) (*RecordResult, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", rootPath)
	}

	result := &RecordResult{
		Events: []transcript.Event{transcript.Cd(transcript.Root)},
		Errors: make([]error, 0),
	}

	// If reading the root fails, return it rather than an empty transcript
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	record(rootPath, rootPath, entries, exclusions, result)

	return result, nil
}

func record(rootPath, dirPath string, entries []os.DirEntry, exclusions []string, result *RecordResult) {
	result.Events = append(result.Events, transcript.Ls())

	subdirs := make([]string, 0)
	for _, entry := range entries {
		path := filepath.Join(dirPath, entry.Name())
		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		if shouldExclude(relPath, entry, exclusions) {
			continue
		}

		// Names with spaces cannot be expressed in a cd line
		if entry.IsDir() {
			if strings.Contains(entry.Name(), " ") {
				result.Errors = append(result.Errors, fmt.Errorf("%s: directory name contains a space", path))
				continue
			}
			result.Events = append(result.Events, transcript.Dir(entry.Name()))
			subdirs = append(subdirs, entry.Name())
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Events = append(result.Events, transcript.File(info.Size(), entry.Name()))
		result.Files++
	}

	for _, name := range subdirs {
		result.Dirs++
		subPath := filepath.Join(dirPath, name)
		result.Events = append(result.Events, transcript.Cd(name))

		children, err := os.ReadDir(subPath)
		if err != nil {
			// Skip permission errors and continue walking
			result.Errors = append(result.Errors, err)
			children = nil
		}
		record(rootPath, subPath, children, exclusions, result)

		result.Events = append(result.Events, transcript.Cd(transcript.Parent))
	}
}

func shouldExclude(relPath string, d os.DirEntry, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Directory patterns end with / and match any path component
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			parts := strings.Split(relPath, string(filepath.Separator))
			if !d.IsDir() {
				parts = parts[:len(parts)-1]
			}
			for _, part := range parts {
				if matched, _ := filepath.Match(dirPattern, part); matched || part == dirPattern {
					return true
				}
			}
		} else {
			matched, err := filepath.Match(pattern, filepath.Base(relPath))
			if err == nil && matched {
				return true
			}
			// Patterns with / are matched against the full relative path
			if strings.Contains(pattern, "/") {
				matched, err := filepath.Match(pattern, relPath)
				if err == nil && matched {
					return true
				}
			}
		}
	}
	return false
}
