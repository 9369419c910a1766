package tree

import "strings"

// Directory is one node of the reconstructed tree. Each directory owns its
// children; a name is either a sub-directory or a file, never both.
type Directory struct {
	Dirs  map[string]*Directory `json:"dirs,omitempty"`
	Files map[string]int64      `json:"files,omitempty"`
}

func NewDirectory() *Directory {
	return &Directory{
		Dirs:  make(map[string]*Directory),
		Files: make(map[string]int64),
	}
}

// child returns the named sub-directory, creating it when absent.
func (d *Directory) child(name string) *Directory {
	if d.Dirs == nil {
		d.Dirs = make(map[string]*Directory)
	}
	sub, ok := d.Dirs[name]
	if !ok {
		sub = NewDirectory()
		d.Dirs[name] = sub
	}
	return sub
}

// Path is the sequence of directory names from the root to a directory.
type Path []string

// Key is the SizeTable key for the path: "" for the root, "/a/b" otherwise.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	return "/" + strings.Join(p, "/")
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return p.Key()
}
