package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EntryPoint is the script run for a directory plugin.
const EntryPoint = "init.lua"

// Source is a discovered script.
type Source struct {
	// Name is the file name without .lua, or the directory name.
	Name string
	// Path is the Lua file to run.
	Path string
}

// Discover finds scripts in dirs. Missing directories are skipped and
// the first directory to provide a name wins. Results are sorted by
// name.
func Discover(dirs ...string) ([]Source, error) {
	found := make(map[string]Source)
	var errs []error

	for _, dir := range dirs {
		if err := discoverIn(dir, found); err != nil {
			errs = append(errs, err)
		}
	}

	sources := make([]Source, 0, len(found))
	for _, src := range found {
		sources = append(sources, src)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})
	return sources, errors.Join(errs...)
}

func discoverIn(dir string, found map[string]Source) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading plugin directory %s: %w", dir, err)
	}

	var errs []error
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		src, err := inspect(dir, entry)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if src.Name == "" {
			continue
		}
		if _, exists := found[src.Name]; !exists {
			found[src.Name] = src
		}
	}
	return errors.Join(errs...)
}

// inspect returns the script an entry provides, or a zero Source for
// entries that are not scripts.
func inspect(dir string, entry fs.DirEntry) (Source, error) {
	path := filepath.Join(dir, entry.Name())
	if !entry.IsDir() {
		if filepath.Ext(entry.Name()) != ".lua" {
			return Source{}, nil
		}
		return Source{Name: strings.TrimSuffix(entry.Name(), ".lua"), Path: path}, nil
	}

	main := filepath.Join(path, EntryPoint)
	if _, err := os.Stat(main); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Source{}, fmt.Errorf("%s: %w", path, ErrNoEntryPoint)
		}
		return Source{}, err
	}
	return Source{Name: entry.Name(), Path: main}, nil
}
