package lua

import (
	"errors"
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func TestSandboxRemovesLoaders(t *testing.T) {
	state := newTestState(t)

	for _, fn := range []string{"dofile", "loadfile", "load", "loadstring"} {
		if v := state.L.GetGlobal(fn); v != glua.LNil {
			t.Errorf("%s should be removed, got %T", fn, v)
		}
	}
	for _, lib := range []string{"io", "os", "debug"} {
		if v := state.L.GetGlobal(lib); v != glua.LNil {
			t.Errorf("%s library should not be open", lib)
		}
	}
}

func TestSandboxAllows(t *testing.T) {
	s := NewSandbox(nil)
	s.Allow("quill", "")

	tests := []struct {
		module string
		want   bool
	}{
		{"string", true},
		{"quill", true},
		{"quill.text", true},
		{"quillx", false},
		{"io", false},
		{"os", false},
		{"socket", false},
	}
	for _, tt := range tests {
		if got := s.Allows(tt.module); got != tt.want {
			t.Errorf("Allows(%q) = %v, want %v", tt.module, got, tt.want)
		}
	}
}

func TestSandboxRequire(t *testing.T) {
	state := newTestState(t, WithModules("quill"))

	err := state.Preload("quill", func(L *glua.LState) int {
		mod := L.NewTable()
		L.SetField(mod, "answer", glua.LNumber(42))
		L.Push(mod)
		return 1
	})
	if err != nil {
		t.Fatalf("Preload() error = %v", err)
	}

	if err := state.DoString(`local q = require("quill"); answer = q.answer`); err != nil {
		t.Fatalf("require(quill) error = %v", err)
	}
	if v := state.L.GetGlobal("answer"); v.String() != "42" {
		t.Errorf("answer = %v, want 42", v)
	}
	if err := state.DoString(`local s = require("string"); up = s.upper("a")`); err != nil {
		t.Errorf("require(string) error = %v", err)
	}

	err = state.DoString(`require("os")`)
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Errorf("require(os) error = %v, want not available", err)
	}
}

func TestPreloadNotAllowed(t *testing.T) {
	state := newTestState(t)

	err := state.Preload("net", func(L *glua.LState) int { return 0 })
	if !errors.Is(err, ErrModuleNotAllowed) {
		t.Errorf("Preload() error = %v, want ErrModuleNotAllowed", err)
	}
}
