package grammar

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuiltinRegistry(t *testing.T) {
	r := NewBuiltinRegistry()

	tests := []struct {
		id      string
		comment string
	}{
		{"default", "--"},
		{"java", "//"},
		{"ruby", "#"},
		{"go", "//"},
		{"python", "#"},
	}

	for _, tt := range tests {
		g, err := r.Lookup(tt.id)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", tt.id, err)
		}
		if g.Comment != tt.comment {
			t.Errorf("%s: expected comment %q, got %q", tt.id, tt.comment, g.Comment)
		}
	}

	if _, err := r.Lookup("cobol"); !errors.Is(err, ErrUnknownGrammar) {
		t.Errorf("expected ErrUnknownGrammar, got %v", err)
	}
}

func TestNewRegistryHasOnlyDefault(t *testing.T) {
	r := NewRegistry()
	if r.Len() != 1 || r.Default().ID != DefaultID {
		t.Errorf("expected only the default grammar, got %v", r.IDs())
	}
}

func TestMatchWord(t *testing.T) {
	r := NewBuiltinRegistry()
	ruby, _ := r.Lookup("ruby")
	java, _ := r.Lookup("java")

	tests := []struct {
		g    *Grammar
		s    string
		want bool
	}{
		{java, "quick", true},
		{java, "qu ick", false},
		{java, "", false},
		{java, "empty?", false},
		{ruby, "empty?", true},
		{ruby, "save!", true},
		{ruby, "?x", false},
	}

	for _, tt := range tests {
		if got := tt.g.MatchWord(tt.s); got != tt.want {
			t.Errorf("%s.MatchWord(%q) = %v, want %v", tt.g.ID, tt.s, got, tt.want)
		}
	}
}

func TestRegisterInvalidPattern(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Grammar{ID: "broken", Word: "(unclosed"})
	if !errors.Is(err, ErrInvalidGrammar) {
		t.Errorf("expected ErrInvalidGrammar, got %v", err)
	}
	if err := r.Register(Grammar{Word: "x"}); !errors.Is(err, ErrInvalidGrammar) {
		t.Errorf("expected ErrInvalidGrammar for missing id, got %v", err)
	}
}

func TestForFile(t *testing.T) {
	r := NewBuiltinRegistry()

	tests := []struct {
		name string
		want string
	}{
		{"Main.java", "java"},
		{"lib/tasks/db.rake", "ruby"},
		{"main.go", "go"},
		{"script.PY", "python"},
		{"Rakefile", "ruby"},
		{"notes.unknownext", DefaultID},
		{"", DefaultID},
	}

	for _, tt := range tests {
		if got := r.ForFile(tt.name).ID; got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	r := NewBuiltinRegistry()
	doc := `
grammars:
  - id: lua
    name: Lua
    extensions: [".lua"]
    lexer: lua
    comment: "--"
  - id: ruby
    extensions: [".rb"]
    lexer: ruby
    word: '^[a-z_]+$'
    comment: "#"
`
	n, err := r.LoadYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 grammars, got %d", n)
	}

	lua := r.ForFile("init.lua")
	if lua.ID != "lua" || lua.Word != DefaultWordPattern {
		t.Errorf("unexpected lua grammar %+v", lua)
	}

	ruby, _ := r.Lookup("ruby")
	if ruby.MatchWord("empty?") {
		t.Error("ruby grammar should have been replaced")
	}
}

func TestLoadYAMLRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	doc := `
grammars:
  - id: good
  - id: bad
    word: "(["
`
	if _, err := r.LoadYAML(strings.NewReader(doc)); !errors.Is(err, ErrInvalidGrammar) {
		t.Errorf("expected ErrInvalidGrammar, got %v", err)
	}
	if _, err := r.Lookup("good"); err == nil {
		t.Error("no grammar should be registered when one is invalid")
	}
}

func TestScopeAt(t *testing.T) {
	r := NewBuiltinRegistry()
	g, _ := r.Lookup("go")
	text := "package main\n// note\n"

	scopes, err := g.ScopeAt(text, 16)
	if err != nil {
		t.Fatalf("ScopeAt failed: %v", err)
	}
	want := []string{"source.go", "comment", "comment.single"}
	if !reflect.DeepEqual(scopes, want) {
		t.Errorf("expected %v, got %v", want, scopes)
	}

	scopes, _ = g.ScopeAt("", 0)
	if !reflect.DeepEqual(scopes, []string{"source.go"}) {
		t.Errorf("empty text should give root scope only, got %v", scopes)
	}
}

func TestScopeAtCRLF(t *testing.T) {
	r := NewBuiltinRegistry()
	g, _ := r.Lookup("go")
	lines := []string{"package main", `var y = "s"`, "// note", ""}
	lf := strings.Join(lines, "\n")
	crlf := strings.Join(lines, "\r\n")

	for line := 1; line <= 2; line++ {
		lfStart, crlfStart := 0, 0
		for _, l := range lines[:line] {
			lfStart += utf8.RuneCountInString(l) + 1
			crlfStart += utf8.RuneCountInString(l) + 2
		}
		for col := 0; col < utf8.RuneCountInString(lines[line]); col++ {
			want, err := g.ScopeAt(lf, lfStart+col)
			if err != nil {
				t.Fatalf("ScopeAt failed: %v", err)
			}
			got, err := g.ScopeAt(crlf, crlfStart+col)
			if err != nil {
				t.Fatalf("ScopeAt failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("line %d col %d: expected %v, got %v", line, col, want, got)
			}
		}
	}

	scopes, _ := g.ScopeAt(crlf, len("package main\r\nvar y = \"s\"\r\n// n"))
	want := []string{"source.go", "comment", "comment.single"}
	if !reflect.DeepEqual(scopes, want) {
		t.Errorf("expected %v, got %v", want, scopes)
	}
}

func TestSplitCamel(t *testing.T) {
	if w := splitCamel("LiteralStringDouble"); !reflect.DeepEqual(w, []string{"Literal", "String", "Double"}) {
		t.Errorf("unexpected split %v", w)
	}
}
