package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/mirror"
	plua "github.com/dshills/quill/internal/plugin/lua"
)

func writeScript(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newDocument(t *testing.T, dir string, opts ...document.Option) *document.Document {
	t.Helper()
	sources, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	catalog := document.NewCatalog()
	Register(catalog, sources, WithTimeout(time.Second))

	d := document.New(append([]document.Option{document.WithCatalog(catalog)}, opts...)...)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDiscover(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeScript(t, first, "trim.lua", `-- trim`)
	writeScript(t, first, "notes.txt", `not a script`)
	writeScript(t, first, ".hidden.lua", `-- hidden`)
	writeScript(t, first, "indent/init.lua", `-- indent`)
	writeScript(t, second, "trim.lua", `-- shadowed`)
	writeScript(t, second, "words.lua", `-- words`)

	sources, err := Discover(first, filepath.Join(first, "missing"), second)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	want := []Source{
		{Name: "indent", Path: filepath.Join(first, "indent", "init.lua")},
		{Name: "trim", Path: filepath.Join(first, "trim.lua")},
		{Name: "words", Path: filepath.Join(second, "words.lua")},
	}
	if len(sources) != len(want) {
		t.Fatalf("Discover() = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("source %d = %v, want %v", i, sources[i], want[i])
		}
	}
}

func TestDiscoverNoEntryPoint(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken/helpers.lua", `-- no init`)
	writeScript(t, dir, "ok.lua", `-- ok`)

	sources, err := Discover(dir)
	if !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("Discover() error = %v, want ErrNoEntryPoint", err)
	}
	if len(sources) != 1 || sources[0].Name != "ok" {
		t.Errorf("Discover() = %v, want only ok", sources)
	}
}

func TestScriptListeners(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "all.lua", `
		function before_modify(s, e, text) end
		function after_newline(line) end
		function cursor_moved(offset) end
		function before_save() end
	`)
	writeScript(t, dir, "none.lua", `x = 1`)

	d := newDocument(t, dir)
	ls := d.Listeners()
	if len(ls.Modification) != 1 || len(ls.Newline) != 1 || len(ls.Cursor) != 1 || len(ls.Save) != 1 {
		t.Errorf("unexpected listener counts %d/%d/%d/%d",
			len(ls.Modification), len(ls.Newline), len(ls.Cursor), len(ls.Save))
	}
	if len(d.Failures()) != 0 {
		t.Errorf("unexpected failures %v", d.Failures())
	}
}

func TestAutoIndentOnNewline(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "indent.lua", `
		local q = require("quill")
		local text = require("quill.text")

		function after_newline(line)
			local indent = text.indent(q.line(line - 1))
			if indent ~= "" then
				q.insert(q.offset_at_line(line), indent)
			end
		end
	`)
	d := newDocument(t, dir, document.WithText("  foo"))

	if err := d.Insert(5, "\n"); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if d.Text() != "  foo\n  " {
		t.Errorf("text = %q, want %q", d.Text(), "  foo\n  ")
	}
	if d.CursorOffset() != 0 {
		t.Errorf("cursor = %d, want 0", d.CursorOffset())
	}
}

func TestModifyHooksSeeEdit(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "count.lua", `
		local q = require("quill")
		edits = 0
		function before_modify(s, e, text)
			last = string.format("%d:%d:%s:%d", s, e, text, q.len())
		end
		function after_modify()
			edits = edits + 1
			after_len = q.len()
		end
	`)
	d := newDocument(t, dir, document.WithText("abc"))

	if err := d.Replace(1, 1, "XY"); err != nil {
		t.Fatal(err)
	}
	script := d.Listeners().Modification[0].(modificationHook)
	L := script.State().L
	if got := L.GetGlobal("last").String(); got != "1:2:XY:3" {
		t.Errorf("before_modify saw %q, want %q", got, "1:2:XY:3")
	}
	if got := L.GetGlobal("after_len").String(); got != "4" {
		t.Errorf("after_modify saw length %s, want 4", got)
	}
	if got := L.GetGlobal("edits").String(); got != "1" {
		t.Errorf("edits = %s, want 1", got)
	}
}

func TestFailingHookIsIsolated(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "angry.lua", `
		function before_modify() error("no edits allowed") end
		function after_modify() return false, "still angry" end
	`)
	d := newDocument(t, dir, document.WithText("abc"))

	if err := d.Insert(0, "x"); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if d.Text() != "xabc" {
		t.Errorf("text = %q, want %q", d.Text(), "xabc")
	}

	failures := d.Failures()
	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}
	if failures[0].Listener != "angry" || failures[0].Hook != document.HookBeforeModify {
		t.Errorf("unexpected failure %+v", failures[0])
	}
	var he *HookError
	if !errors.As(failures[1], &he) || he.Message != "still angry" {
		t.Errorf("expected HookError with message, got %v", failures[1].Err)
	}
}

func TestNestedEditFromVerifyFails(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "nested.lua", `
		local q = require("quill")
		function before_modify() q.insert(0, "!") end
	`)
	d := newDocument(t, dir, document.WithText("abc"))

	if err := d.Insert(3, "d"); err != nil {
		t.Fatal(err)
	}
	if d.Text() != "abcd" {
		t.Errorf("text = %q, want %q", d.Text(), "abcd")
	}
	failures := d.Failures()
	if len(failures) != 1 || !errorContains(failures[0], "re-entrant edit") {
		t.Errorf("expected re-entrant edit failure, got %v", failures)
	}
}

func TestCursorMovedHook(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "cursor.lua", `
		moves = {}
		function cursor_moved(offset) table.insert(moves, offset) end
	`)
	d := newDocument(t, dir, document.WithText("hello"))

	if err := d.SetCursorOffset(2); err != nil {
		t.Fatal(err)
	}
	if err := d.Insert(0, "xx"); err != nil {
		t.Fatal(err)
	}

	L := d.Listeners().Cursor[0].(cursorHook).State().L
	if err := L.DoString(`result = table.concat(moves, ",")`); err != nil {
		t.Fatal(err)
	}
	if got := L.GetGlobal("result").String(); got != "2,4" {
		t.Errorf("moves = %q, want %q", got, "2,4")
	}
}

func TestBeforeSaveTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "trim.lua", `
		local q = require("quill")
		local text = require("quill.text")

		function before_save()
			for line = 0, q.line_count() - 1 do
				local s = q.line(line)
				local trimmed = text.trim_right(s)
				if trimmed ~= s then
					q.replace_line(line, trimmed)
				end
			end
		end
	`)
	d := newDocument(t, dir)
	m := mirror.NewMemory("a.txt", "one  \ntwo\t\nthree")
	if err := d.SetMirror(m); err != nil {
		t.Fatal(err)
	}

	if err := d.Save(context.Background()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if m.Text() != "one\ntwo\nthree" {
		t.Errorf("saved %q, want %q", m.Text(), "one\ntwo\nthree")
	}
}

func TestBeforeSaveVeto(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "guard.lua", `
		local q = require("quill")
		function before_save()
			if string.find(q.text(), "TODO", 1, true) then
				return false, "unfinished"
			end
		end
	`)
	d := newDocument(t, dir)
	m := mirror.NewMemory("a.txt", "TODO: write")
	if err := d.SetMirror(m); err != nil {
		t.Fatal(err)
	}
	if err := d.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}

	err := d.Save(context.Background())
	if !errors.Is(err, document.ErrSaveHookFailed) || !errors.Is(err, ErrHookFailed) {
		t.Fatalf("Save() error = %v, want hook failure", err)
	}
	if m.Commits() != 0 || !d.Modified() {
		t.Error("vetoed save changed the mirror or modified flag")
	}
}

func TestScriptTimeout(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spin.lua", `function after_modify() while true do end end`)

	sources, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	catalog := document.NewCatalog()
	Register(catalog, sources, WithTimeout(50*time.Millisecond))
	d := document.New(document.WithCatalog(catalog))
	defer d.Close()

	if err := d.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}
	failures := d.Failures()
	if len(failures) != 1 || !errors.Is(failures[0], plua.ErrExecutionTimeout) {
		t.Errorf("expected timeout failure, got %v", failures)
	}
}

func TestBrokenScriptIsIsolated(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `function (`)
	writeScript(t, dir, "sneaky.lua", `local os = require("os")`)

	d := newDocument(t, dir, document.WithText("abc"))

	failures := d.Failures()
	if len(failures) != 2 {
		t.Fatalf("failures = %d, want 2", len(failures))
	}
	for _, f := range failures {
		if f.Hook != document.HookProvide {
			t.Errorf("failure hook = %s, want %s", f.Hook, document.HookProvide)
		}
	}
	if err := d.Insert(0, "x"); err != nil {
		t.Errorf("document unusable after broken scripts: %v", err)
	}
}

func TestCloseClosesScripts(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "hooks.lua", `
		function after_modify() end
		function before_save() end
	`)
	d := newDocument(t, dir)
	script := d.Listeners().Modification[0].(modificationHook).Script

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !script.State().IsClosed() {
		t.Error("expected script state closed")
	}
	if err := script.call(FuncAfterModify); !errors.Is(err, ErrStateClosed) {
		t.Errorf("call after close error = %v, want ErrStateClosed", err)
	}
}

func errorContains(err error, substr string) bool {
	return err != nil && strings.Contains(err.Error(), substr)
}
