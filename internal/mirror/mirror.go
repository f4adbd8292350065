// Package mirror provides the backing stores a document loads from and
// saves to.
//
// A Mirror is the persistent copy of a document's text. File mirrors
// read and write a path through an FS, decoding the file's encoding on
// the way in and re-encoding it on the way out. Memory mirrors hold the
// text in memory and are used for scratch documents and tests.
package mirror

import "errors"

// Errors returned by mirrors.
var (
	// ErrNotExist is returned when reading a mirror whose content is gone.
	ErrNotExist = errors.New("mirror does not exist")

	// ErrBinary is returned when a file looks like binary content.
	ErrBinary = errors.New("binary content")
)

// Mirror is the backing store of a document.
type Mirror interface {
	// Exists reports whether the backing content exists.
	Exists() bool

	// Changed reports whether the content differs from what was last
	// read or committed. It is true before the first Read.
	Changed() bool

	// Read returns the current content and makes it the new baseline.
	Read() (string, error)

	// Commit stores text and makes it the new baseline.
	Commit(text string) error

	// Title is a short display name.
	Title() string
}

// Pather is implemented by mirrors backed by a file path.
type Pather interface {
	Path() string
}

// PathOf returns the path of m, or "" if m has none.
func PathOf(m Mirror) string {
	if p, ok := m.(Pather); ok {
		return p.Path()
	}
	return ""
}
