package mirror

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// File is a mirror backed by a file. It remembers a hash of the bytes it
// last read or wrote; Changed compares the file against that baseline.
type File struct {
	fs       FS
	path     string
	perm     fs.FileMode
	encoding Encoding

	baseline    [sha256.Size]byte
	hasBaseline bool
}

// FileOption configures a File.
type FileOption func(*File)

// WithFS sets the file system used by the mirror.
func WithFS(fsys FS) FileOption {
	return func(f *File) {
		f.fs = fsys
	}
}

// WithEncoding sets the encoding used when committing a file that has
// never been read.
func WithEncoding(enc Encoding) FileOption {
	return func(f *File) {
		f.encoding = enc
	}
}

// NewFile creates a mirror for path. Nothing is read until Read.
func NewFile(path string, opts ...FileOption) *File {
	f := &File{
		fs:       OSFS{},
		path:     path,
		perm:     0o644,
		encoding: EncodingUTF8,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Ensure File implements Mirror and Pather.
var (
	_ Mirror = (*File)(nil)
	_ Pather = (*File)(nil)
)

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Title returns the file's base name.
func (f *File) Title() string {
	return filepath.Base(f.path)
}

// Encoding returns the encoding detected by the last Read.
func (f *File) Encoding() Encoding {
	return f.encoding
}

// Exists reports whether the file exists.
func (f *File) Exists() bool {
	_, err := f.fs.Stat(f.path)
	return err == nil
}

// Changed reports whether the file differs from the last read or commit.
// A file that cannot be read counts as changed once a baseline exists.
func (f *File) Changed() bool {
	if !f.hasBaseline {
		return true
	}
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		return true
	}
	return sha256.Sum256(data) != f.baseline
}

// Read loads and decodes the file.
func (f *File) Read() (string, error) {
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", f.path, ErrNotExist)
		}
		return "", fmt.Errorf("reading %s: %w", f.path, err)
	}

	text, enc, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.path, err)
	}

	f.encoding = enc
	f.baseline = sha256.Sum256(data)
	f.hasBaseline = true
	return text, nil
}

// Commit encodes text in the file's encoding and replaces the file
// through a temporary file and rename.
func (f *File) Commit(text string) error {
	data, err := Encode(text, f.encoding)
	if err != nil {
		return fmt.Errorf("%s: %w", f.path, err)
	}

	perm := f.perm
	if info, err := f.fs.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}

	tempPath := f.path + ".tmp"
	if err := f.fs.WriteFile(tempPath, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", tempPath, err)
	}
	if err := f.fs.Rename(tempPath, f.path); err != nil {
		return fmt.Errorf("renaming %s: %w", tempPath, err)
	}

	f.baseline = sha256.Sum256(data)
	f.hasBaseline = true
	return nil
}
