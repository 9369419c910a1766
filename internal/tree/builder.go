package tree

import (
	"errors"
	"fmt"

	"dirsize/internal/transcript"

	"go.uber.org/zap"
)

var (
	// ErrInvalidNavigation is returned for "cd .." at the root.
	ErrInvalidNavigation = errors.New("cannot ascend above root")
	// ErrInvariantViolation means the builder lost track of a directory it
	// should have created. Well-formed transcripts never produce it.
	ErrInvariantViolation = errors.New("current directory missing from tree")
)

type Option func(*Builder)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder replays transcript events against a tree, tracking the current
// working directory.
type Builder struct {
	root   *Directory
	path   Path
	logger *zap.Logger
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		root:   NewDirectory(),
		path:   Path{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Root returns the tree built so far.
func (b *Builder) Root() *Directory {
	return b.root
}

// Path returns a copy of the current working directory.
func (b *Builder) Path() Path {
	return append(Path{}, b.path...)
}

// Apply processes a single event.
func (b *Builder) Apply(ev transcript.Event) error {
	switch ev.Kind {
	case transcript.ChangeDirectory:
		return b.changeDirectory(ev.Name)

	case transcript.ListRequest:
		// Entries that follow belong to the current directory.
		return nil

	case transcript.DirectoryAnnouncement:
		cwd, err := b.resolve(b.path)
		if err != nil {
			return err
		}
		cwd.child(ev.Name)
		return nil

	case transcript.FileAnnouncement:
		cwd, err := b.resolve(b.path)
		if err != nil {
			return err
		}
		if cwd.Files == nil {
			cwd.Files = make(map[string]int64)
		}
		if old, ok := cwd.Files[ev.Name]; ok && old != ev.Size {
			b.logger.Debug("file re-announced with new size",
				zap.Stringer("dir", b.path), zap.String("file", ev.Name),
				zap.Int64("old", old), zap.Int64("new", ev.Size))
		}
		cwd.Files[ev.Name] = ev.Size
		return nil

	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

func (b *Builder) changeDirectory(target string) error {
	switch target {
	case transcript.Root:
		b.path = b.path[:0]

	case transcript.Parent:
		if len(b.path) == 0 {
			return ErrInvalidNavigation
		}
		b.path = b.path[:len(b.path)-1]

	default:
		cwd, err := b.resolve(b.path)
		if err != nil {
			return err
		}
		cwd.child(target)
		b.path = append(b.path, target)
	}

	b.logger.Debug("changed directory", zap.Stringer("path", b.path))
	return nil
}

// resolve walks from the root to the directory at path.
func (b *Builder) resolve(path Path) (*Directory, error) {
	node := b.root
	for i, name := range path {
		next, ok := node.Dirs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvariantViolation, path[:i+1])
		}
		node = next
	}
	return node, nil
}

// Build replays events in order and returns the completed tree.
func Build(events []transcript.Event, opts ...Option) (*Directory, error) {
	b := NewBuilder(opts...)
	for i, ev := range events {
		if err := b.Apply(ev); err != nil {
			return nil, fmt.Errorf("event %d (%s): %w", i+1, ev, err)
		}
	}
	return b.Root(), nil
}
