package grammar

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Registry holds grammars by ID. It always contains the default grammar.
type Registry struct {
	grammars map[string]*Grammar
	order    []string
}

// NewRegistry creates a registry holding only the default grammar.
func NewRegistry() *Registry {
	r := &Registry{grammars: make(map[string]*Grammar)}
	for _, g := range Builtins() {
		if g.ID == DefaultID {
			_ = r.Register(g)
		}
	}
	return r
}

// NewBuiltinRegistry creates a registry holding every built-in grammar.
func NewBuiltinRegistry() *Registry {
	r := &Registry{grammars: make(map[string]*Grammar)}
	for _, g := range Builtins() {
		// Built-in patterns are known to compile.
		_ = r.Register(g)
	}
	return r
}

// Register adds g, replacing any grammar with the same ID.
func (r *Registry) Register(g Grammar) error {
	if err := g.compile(); err != nil {
		return err
	}
	if _, exists := r.grammars[g.ID]; !exists {
		r.order = append(r.order, g.ID)
	}
	r.grammars[g.ID] = &g
	return nil
}

// Lookup returns the grammar with the given ID.
func (r *Registry) Lookup(id string) (*Grammar, error) {
	g, ok := r.grammars[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrammar, id)
	}
	return g, nil
}

// Default returns the fallback grammar.
func (r *Registry) Default() *Grammar {
	if g, ok := r.grammars[DefaultID]; ok {
		return g
	}
	g := Builtins()[0]
	_ = g.compile()
	return &g
}

// IDs returns grammar IDs in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered grammars.
func (r *Registry) Len() int {
	return len(r.grammars)
}

// ForFile picks the grammar for a file name. Registered extensions are
// tried first, then chroma's filename matching against each grammar's
// lexer. Unknown files get the default grammar.
func (r *Registry) ForFile(name string) *Grammar {
	if name == "" {
		return r.Default()
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, id := range r.order {
		for _, e := range r.grammars[id].Extensions {
			if ext != "" && strings.EqualFold(e, ext) {
				return r.grammars[id]
			}
		}
	}

	lexer := lexers.Match(filepath.Base(name))
	if lexer == nil {
		return r.Default()
	}
	cfg := lexer.Config()
	for _, id := range r.order {
		g := r.grammars[id]
		if g.Lexer == "" {
			continue
		}
		if strings.EqualFold(g.Lexer, cfg.Name) {
			return g
		}
		for _, alias := range cfg.Aliases {
			if strings.EqualFold(g.Lexer, alias) {
				return g
			}
		}
	}
	return r.Default()
}
