package grammar

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// lexer returns the chroma lexer for g, or the plain-text fallback.
func (g *Grammar) lexer() chroma.Lexer {
	l := lexers.Get(g.Lexer)
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// RootScope returns the outermost scope of text in this grammar.
func (g *Grammar) RootScope() string {
	return "source." + g.ID
}

// ScopeAt returns the lexical scope hierarchy at a character offset of
// text, outermost first: the root scope followed by the dotted token
// type of the token covering offset, one entry per level. For example a
// Go line comment yields ["source.go", "comment", "comment.single"].
func (g *Grammar) ScopeAt(text string, offset int) ([]string, error) {
	scopes := []string{g.RootScope()}
	if text == "" {
		return scopes, nil
	}

	// EnsureLF would rewrite CRLF breaks and shift every later token
	// against the caller's offsets.
	it, err := g.lexer().Tokenise(&chroma.TokeniseOptions{State: "root", EnsureLF: false}, text)
	if err != nil {
		return nil, err
	}

	var (
		pos  int
		last chroma.TokenType = chroma.Text
	)
	for tok := it(); tok != chroma.EOF; tok = it() {
		n := utf8.RuneCountInString(tok.Value)
		last = tok.Type
		if offset >= pos && offset < pos+n {
			return append(scopes, tokenScopes(tok.Type)...), nil
		}
		pos += n
	}
	// Offset at (or past) the end belongs to the final token.
	return append(scopes, tokenScopes(last)...), nil
}

// tokenScopes splits a token type name such as "LiteralStringDouble" into
// cumulative dotted scopes: literal, literal.string, literal.string.double.
func tokenScopes(tt chroma.TokenType) []string {
	words := splitCamel(tt.String())
	out := make([]string, 0, len(words))
	for i := range words {
		out = append(out, strings.ToLower(strings.Join(words[:i+1], ".")))
	}
	return out
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > start && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}
