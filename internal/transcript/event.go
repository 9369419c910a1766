package transcript

import (
	"fmt"
	"io"
	"strconv"
)

// Kind identifies which of the four transcript line shapes an Event came from.
type Kind uint8

const (
	ChangeDirectory Kind = iota
	ListRequest
	DirectoryAnnouncement
	FileAnnouncement
)

func (k Kind) String() string {
	switch k {
	case ChangeDirectory:
		return "cd"
	case ListRequest:
		return "ls"
	case DirectoryAnnouncement:
		return "dir"
	case FileAnnouncement:
		return "file"
	default:
		return "unknown"
	}
}

// Targets with special meaning for ChangeDirectory.
const (
	Root   = "/"
	Parent = ".."
)

// Event is one classified transcript line. Size is only meaningful for
// FileAnnouncement; Name is empty for ListRequest.
type Event struct {
	Kind Kind
	Name string
	Size int64
}

func Cd(target string) Event {
	return Event{Kind: ChangeDirectory, Name: target}
}

func Ls() Event {
	return Event{Kind: ListRequest}
}

func Dir(name string) Event {
	return Event{Kind: DirectoryAnnouncement, Name: name}
}

func File(size int64, name string) Event {
	return Event{Kind: FileAnnouncement, Name: name, Size: size}
}

// String renders the event as the transcript line it was parsed from.
func (e Event) String() string {
	switch e.Kind {
	case ChangeDirectory:
		return cdPrefix + e.Name
	case ListRequest:
		return lsCommand
	case DirectoryAnnouncement:
		return dirPrefix + e.Name
	case FileAnnouncement:
		return strconv.FormatInt(e.Size, 10) + " " + e.Name
	default:
		return fmt.Sprintf("<invalid event kind %d>", e.Kind)
	}
}

// Write renders events as a newline-terminated transcript.
func Write(w io.Writer, events []Event) error {
	for _, ev := range events {
		if _, err := io.WriteString(w, ev.String()+"\n"); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
	}
	return nil
}
