package grammar

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout of a grammar file.
type file struct {
	Grammars []Grammar `yaml:"grammars"`
}

// LoadYAML registers every grammar in r's YAML document and returns how
// many were added. Nothing is registered if any entry is invalid.
func (r *Registry) LoadYAML(rd io.Reader) (int, error) {
	var f file
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("decoding grammars: %w", err)
	}

	for i := range f.Grammars {
		if err := f.Grammars[i].compile(); err != nil {
			return 0, err
		}
	}
	for _, g := range f.Grammars {
		if err := r.Register(g); err != nil {
			return 0, err
		}
	}
	return len(f.Grammars), nil
}

// LoadFile registers the grammars in a YAML file.
func (r *Registry) LoadFile(path string) (int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening grammar file %s: %w", path, err)
	}
	defer fh.Close()

	n, err := r.LoadYAML(fh)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
