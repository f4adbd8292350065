package grammar

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// Errors returned by grammar operations.
var (
	ErrUnknownGrammar = errors.New("unknown grammar")
	ErrInvalidGrammar = errors.New("invalid grammar")
)

// DefaultWordPattern matches a run of word characters.
const DefaultWordPattern = `^\w+$`

// matchTimeout bounds a single word-pattern match.
const matchTimeout = 100 * time.Millisecond

// Grammar is the per-language data the engine needs.
type Grammar struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	Lexer      string   `yaml:"lexer"`
	Word       string   `yaml:"word"`
	Comment    string   `yaml:"comment"`

	word *regexp2.Regexp
}

// compile validates g and compiles its word pattern.
func (g *Grammar) compile() error {
	if g.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidGrammar)
	}
	if g.Word == "" {
		g.Word = DefaultWordPattern
	}
	if g.Name == "" {
		g.Name = g.ID
	}
	re, err := regexp2.Compile(g.Word, regexp2.None)
	if err != nil {
		return fmt.Errorf("%w: %s: word pattern %q: %v", ErrInvalidGrammar, g.ID, g.Word, err)
	}
	re.MatchTimeout = matchTimeout
	g.word = re
	return nil
}

// MatchWord reports whether s as a whole is a word in this grammar.
// A pattern that fails to evaluate counts as no match.
func (g *Grammar) MatchWord(s string) bool {
	if g.word == nil {
		if err := g.compile(); err != nil {
			return false
		}
	}
	ok, err := g.word.MatchString(s)
	return err == nil && ok
}

// String returns the grammar ID.
func (g *Grammar) String() string {
	return g.ID
}
