package transcript

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	cdPrefix  = "$ cd "
	lsCommand = "$ ls"
	dirPrefix = "dir "
)

// ErrParse is returned when a line matches none of the transcript grammars.
var ErrParse = errors.New("unrecognized transcript line")

// ParseError reports the offending line. Line is 1-based and zero when the
// line was classified outside of Parse.
type ParseError struct {
	Line int
	Text string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %q", e.Line, ErrParse, e.Text)
	}
	return fmt.Sprintf("%v: %q", ErrParse, e.Text)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}

// validName reports whether name can be a single path component. Names
// containing "/" would collide with nested paths in size table keys.
func validName(name string) bool {
	return name != "" && !strings.Contains(name, "/")
}

// Classify turns one transcript line into an Event. Grammars are tried in
// order: cd, ls, dir, file listing. The first match wins.
func Classify(line string) (Event, error) {
	switch {
	case strings.HasPrefix(line, cdPrefix):
		target := line[len(cdPrefix):]
		if target != Root && (!validName(target) || strings.Contains(target, " ")) {
			return Event{}, &ParseError{Text: line}
		}
		return Cd(target), nil

	case line == lsCommand || strings.HasPrefix(line, lsCommand+" "):
		return Ls(), nil

	case strings.HasPrefix(line, dirPrefix):
		name := line[len(dirPrefix):]
		if !validName(name) {
			return Event{}, &ParseError{Text: line}
		}
		return Dir(name), nil
	}

	sizeText, name, ok := strings.Cut(line, " ")
	if !ok || !validName(name) {
		return Event{}, &ParseError{Text: line}
	}
	size, err := strconv.ParseUint(sizeText, 10, 63)
	if err != nil {
		return Event{}, &ParseError{Text: line}
	}
	return File(int64(size), name), nil
}
