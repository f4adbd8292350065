package document

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/quill/internal/mirror"
)

func TestSaveCommitsToMirror(t *testing.T) {
	view := NewHeadlessView(10, 4, true)
	d := New(WithView(view))
	m := mirror.NewMemory("notes.txt", "hello")

	var mirrors []mirror.Mirror
	d.OnNewMirror(func(m mirror.Mirror) { mirrors = append(mirrors, m) })

	if err := d.SetMirror(m); err != nil {
		t.Fatal(err)
	}
	if len(mirrors) != 1 {
		t.Errorf("expected 1 new-mirror notification, got %d", len(mirrors))
	}
	if d.Text() != "hello" || d.Modified() {
		t.Fatalf("expected clean %q, got %q (modified %v)", "hello", d.Text(), d.Modified())
	}

	if err := d.Insert(5, "!"); err != nil {
		t.Fatal(err)
	}
	if view.Title != "*notes.txt" {
		t.Errorf("expected view title %q, got %q", "*notes.txt", view.Title)
	}

	if err := d.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if m.Text() != "hello!" {
		t.Errorf("expected mirror %q, got %q", "hello!", m.Text())
	}
	if d.Modified() {
		t.Error("expected document to be clean after save")
	}
	if view.Resets != 1 {
		t.Errorf("expected 1 last-checked reset, got %d", view.Resets)
	}
	if view.Title != "notes.txt" {
		t.Errorf("expected view title %q, got %q", "notes.txt", view.Title)
	}
}

func TestSaveWithoutMirror(t *testing.T) {
	d := New(WithText("x"))
	if err := d.Save(context.Background()); !errors.Is(err, ErrNoMirror) {
		t.Errorf("expected ErrNoMirror, got %v", err)
	}
	if err := d.UpdateFromMirror(); !errors.Is(err, ErrNoMirror) {
		t.Errorf("expected ErrNoMirror, got %v", err)
	}
}

func TestSaveHookVeto(t *testing.T) {
	tests := []struct {
		name string
		hook SaveHookFunc
	}{
		{"error", func(context.Context, *Document) error { return errors.New("not today") }},
		{"panic", func(context.Context, *Document) error { panic("save hook exploded") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			m := mirror.NewMemory("a.txt", "abc")
			if err := d.SetMirror(m); err != nil {
				t.Fatal(err)
			}
			if err := d.Insert(0, "x"); err != nil {
				t.Fatal(err)
			}
			later := false
			d.AddListener(tt.hook)
			d.AddListener(SaveHookFunc(func(context.Context, *Document) error {
				later = true
				return nil
			}))

			err := d.Save(context.Background())
			if !errors.Is(err, ErrSaveHookFailed) {
				t.Fatalf("expected ErrSaveHookFailed, got %v", err)
			}
			var she *SaveHookError
			if !errors.As(err, &she) {
				t.Fatalf("expected *SaveHookError, got %T", err)
			}
			if later {
				t.Error("hook after the veto ran")
			}
			if m.Commits() != 0 || m.Text() != "abc" {
				t.Errorf("mirror changed: %d commits, %q", m.Commits(), m.Text())
			}
			if !d.Modified() || d.Text() != "xabc" {
				t.Errorf("document changed: modified %v, %q", d.Modified(), d.Text())
			}
		})
	}
}

func TestSaveHookCanEdit(t *testing.T) {
	d := New()
	m := mirror.NewMemory("a.txt", "one  \ntwo\t\n")
	if err := d.SetMirror(m); err != nil {
		t.Fatal(err)
	}
	d.AddListener(SaveHookFunc(func(_ context.Context, d *Document) error {
		for line := 0; line < d.LineCount(); line++ {
			if err := d.ReplaceLineFunc(line, func(s string) string {
				return strings.TrimRight(s, " \t")
			}); err != nil {
				return err
			}
		}
		return nil
	}))

	if err := d.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Text() != "one\ntwo\n" {
		t.Errorf("expected %q, got %q", "one\ntwo\n", m.Text())
	}
	if d.Modified() {
		t.Error("expected clean document after save")
	}
}

func TestSaveCancelled(t *testing.T) {
	d := New()
	m := mirror.NewMemory("a.txt", "abc")
	if err := d.SetMirror(m); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.AddListener(SaveHookFunc(func(context.Context, *Document) error {
		cancel()
		return nil
	}))

	if err := d.Save(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if m.Commits() != 0 {
		t.Errorf("expected no commits, got %d", m.Commits())
	}
}

func TestSaveToFile(t *testing.T) {
	fsys := mirror.NewMemFS()
	if err := fsys.WriteFile("/work/main.go", []byte("package main\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := mirror.NewFile("/work/main.go", mirror.WithFS(fsys))
	d := New(WithFilename(f.Path()))
	if err := d.SetMirror(f); err != nil {
		t.Fatal(err)
	}

	if d.Path() != "/work/main.go" || d.Title() != "main.go" {
		t.Errorf("unexpected path %q title %q", d.Path(), d.Title())
	}
	if d.Delimiter().Name() != "crlf" {
		t.Errorf("expected crlf delimiter, got %s", d.Delimiter().Name())
	}
	if err := d.Insert(d.Len(), "\r\nfunc main() {}\r\n"); err != nil {
		t.Fatal(err)
	}
	if err := d.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := fsys.ReadFile("/work/main.go")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "package main\r\n\r\nfunc main() {}\r\n" {
		t.Errorf("unexpected file content %q", data)
	}
	if d.MirrorChanged() {
		t.Error("expected mirror to match after save")
	}
}

func TestUpdateFromMirrorKeepsCursorLine(t *testing.T) {
	view := NewHeadlessView(2, 4, true)
	d := New(WithView(view))
	m := mirror.NewMemory("a.txt", "a\nb\nc\nd")
	if err := d.SetMirror(m); err != nil {
		t.Fatal(err)
	}
	if err := d.SetCursorOffset(5); err != nil {
		t.Fatal(err)
	}
	view.ScrollToLine(1)

	m.Write("xx\nyy\nzz\nww\n")
	reloaded, err := d.CheckMirror()
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded {
		t.Fatal("expected reload")
	}
	if d.Text() != "xx\nyy\nzz\nww\n" {
		t.Errorf("unexpected text %q", d.Text())
	}
	if d.CursorLine() != 2 || d.CursorOffset() != 6 {
		t.Errorf("expected cursor at start of line 2, got line %d offset %d", d.CursorLine(), d.CursorOffset())
	}
	if d.SmallestVisibleLine() != 1 {
		t.Errorf("expected top line 1, got %d", d.SmallestVisibleLine())
	}
	if d.Modified() {
		t.Error("expected clean document after reload")
	}

	reloaded, err = d.CheckMirror()
	if err != nil || reloaded {
		t.Errorf("expected no reload without a change, got %v %v", reloaded, err)
	}
}

func TestCheckMirrorConflict(t *testing.T) {
	d := New()
	m := mirror.NewMemory("a.txt", "abc")
	if err := d.SetMirror(m); err != nil {
		t.Fatal(err)
	}
	if err := d.Insert(0, "local "); err != nil {
		t.Fatal(err)
	}
	m.Write("remote")

	reloaded, err := d.CheckMirror()
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	if reloaded || d.Text() != "local abc" {
		t.Errorf("document reloaded over local changes: %q", d.Text())
	}
}

func TestDisplayTitle(t *testing.T) {
	d := New()
	if d.DisplayTitle() != Untitled {
		t.Errorf("expected %q, got %q", Untitled, d.DisplayTitle())
	}

	if err := d.SetMirror(mirror.NewMemory("notes.txt", "")); err != nil {
		t.Fatal(err)
	}
	var flips []bool
	d.OnModifiedChanged(func(modified bool) { flips = append(flips, modified) })

	if d.DisplayTitle() != "notes.txt" {
		t.Errorf("expected %q, got %q", "notes.txt", d.DisplayTitle())
	}
	if err := d.Insert(0, "a"); err != nil {
		t.Fatal(err)
	}
	if err := d.Insert(1, "b"); err != nil {
		t.Fatal(err)
	}
	if d.DisplayTitle() != "*notes.txt" {
		t.Errorf("expected %q, got %q", "*notes.txt", d.DisplayTitle())
	}
	if len(flips) != 1 || !flips[0] {
		t.Errorf("expected one flip to modified, got %v", flips)
	}
}
