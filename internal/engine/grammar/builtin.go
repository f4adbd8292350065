package grammar

// DefaultID is the ID of the fallback grammar.
const DefaultID = "default"

// Builtins returns the grammars every registry starts with.
func Builtins() []Grammar {
	return []Grammar{
		{
			ID:      DefaultID,
			Name:    "Plain Text",
			Lexer:   "plaintext",
			Word:    DefaultWordPattern,
			Comment: "--",
		},
		{
			ID:         "java",
			Name:       "Java",
			Extensions: []string{".java"},
			Lexer:      "java",
			Word:       DefaultWordPattern,
			Comment:    "//",
		},
		{
			ID:         "ruby",
			Name:       "Ruby",
			Extensions: []string{".rb", ".rake", ".gemspec"},
			Lexer:      "ruby",
			Word:       `^(\w)+(\?|\!)?$`,
			Comment:    "#",
		},
		{
			ID:         "go",
			Name:       "Go",
			Extensions: []string{".go"},
			Lexer:      "go",
			Word:       DefaultWordPattern,
			Comment:    "//",
		},
		{
			ID:         "python",
			Name:       "Python",
			Extensions: []string{".py"},
			Lexer:      "python",
			Word:       DefaultWordPattern,
			Comment:    "#",
		},
	}
}
