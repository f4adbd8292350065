package api

import (
	"bytes"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/mirror"
)

func setupDocumentTest(t *testing.T, text string) (*lua.LState, *document.Document, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &out})
	d := document.New(document.WithText(text), document.WithGrammar("ruby"))
	t.Cleanup(func() { d.Close() })

	L := setupModule(t, NewDocumentModule(d, logger))
	if err := L.DoString(`q = require("quill")`); err != nil {
		t.Fatalf("require error = %v", err)
	}
	return L, d, &out
}

func TestDocumentModuleName(t *testing.T) {
	if got := NewDocumentModule(document.New(), nil).Name(); got != "quill" {
		t.Errorf("Name() = %q, want %q", got, "quill")
	}
}

func TestDocumentModuleQueries(t *testing.T) {
	L, d, _ := setupDocumentTest(t, "def foo?\n  bar\nend")
	if err := d.SetCursorOffset(12); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		expr string
		want string
	}{
		{`q.text()`, "def foo?\n  bar\nend"},
		{`q.text_range(4, 4)`, "foo?"},
		{`q.len()`, "18"},
		{`q.line_count()`, "3"},
		{`q.line(1)`, "  bar"},
		{`q.line_at(12)`, "1"},
		{`q.offset_at_line(2)`, "15"},
		{`q.delimiter()`, "\n"},
		{`q.cursor()`, "12"},
		{`q.comment()`, "#"},
		{`q.title()`, document.Untitled},
		{`tostring(q.modified())`, "false"},
		{`(q.word_at(5))`, "foo?"},
		{`select(3, q.word_at(5))`, "8"},
		{`q.word_at(3)`, "def"},
		{`tostring(q.word_at(10))`, "nil"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if err := L.DoString(`result = ` + tt.expr); err != nil {
				t.Fatalf("DoString error = %v", err)
			}
			if got := L.GetGlobal("result").String(); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestDocumentModuleEdits(t *testing.T) {
	L, d, _ := setupDocumentTest(t, "hello world")

	err := L.DoString(`
		q.replace(0, 5, "howdy")
		q.insert(q.len(), "!")
		q.delete(5, 1)
		q.set_cursor(2)
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if d.Text() != "howdyworld!" {
		t.Errorf("text = %q, want %q", d.Text(), "howdyworld!")
	}
	if d.CursorOffset() != 2 {
		t.Errorf("cursor = %d, want 2", d.CursorOffset())
	}
	if !d.Modified() {
		t.Error("expected document to be modified")
	}

	if err := L.DoString(`q.replace_line(0, "one\ntwo")`); err != nil {
		t.Fatal(err)
	}
	if err := d.SetSelectionRange(7, 4); err != nil {
		t.Fatal(err)
	}
	if err := L.DoString(`s, e = q.selection(); sel = q.selected_text()`); err != nil {
		t.Fatal(err)
	}
	if L.GetGlobal("s").String() != "4" || L.GetGlobal("e").String() != "7" || L.GetGlobal("sel").String() != "two" {
		t.Errorf("selection = %v %v %q", L.GetGlobal("s"), L.GetGlobal("e"), L.GetGlobal("sel"))
	}
}

func TestDocumentModuleErrors(t *testing.T) {
	L, d, _ := setupDocumentTest(t, "abc")

	tests := []struct {
		code string
		want string
	}{
		{`q.insert(10, "x")`, "insert"},
		{`q.delete(0, -1)`, "non-negative"},
		{`q.line(5)`, "line"},
		{`q.set_cursor(-1)`, "set_cursor"},
		{`q.insert("x")`, "number expected"},
	}
	for _, tt := range tests {
		err := L.DoString(tt.code)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error = %v, want %q", tt.code, err, tt.want)
		}
	}
	if d.Text() != "abc" {
		t.Errorf("failed calls changed the text to %q", d.Text())
	}
}

func TestDocumentModuleMirror(t *testing.T) {
	L, d, _ := setupDocumentTest(t, "")
	if err := d.SetMirror(mirror.NewMemory("notes.rb", "x")); err != nil {
		t.Fatal(err)
	}
	if err := L.DoString(`result = q.title() .. "|" .. q.path()`); err != nil {
		t.Fatal(err)
	}
	if got := L.GetGlobal("result").String(); got != "notes.rb|" {
		t.Errorf("result = %q, want %q", got, "notes.rb|")
	}
}

func TestDocumentModuleLog(t *testing.T) {
	L, _, out := setupDocumentTest(t, "")

	if err := L.DoString(`q.log("hello from lua"); q.warn("careful")`); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[INFO] hello from lua") {
		t.Errorf("log output %q missing info line", out.String())
	}
	if !strings.Contains(out.String(), "[WARN]") {
		t.Errorf("log output %q missing warn line", out.String())
	}
}
