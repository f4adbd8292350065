package api

import (
	"strings"
	"unicode"

	lua "github.com/yuin/gopher-lua"
)

// TextModule implements the quill.text helper module.
type TextModule struct{}

// NewTextModule creates the text module.
func NewTextModule() *TextModule {
	return &TextModule{}
}

// Name returns the module name.
func (m *TextModule) Name() string {
	return Namespace + ".text"
}

// Loader pushes the module table.
func (m *TextModule) Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"split":          m.split,
		"lines":          m.lines,
		"trim":           m.trim,
		"trim_right":     m.trimRight,
		"indent":         m.indent,
		"starts_with":    m.startsWith,
		"ends_with":      m.endsWith,
		"escape_pattern": m.escapePattern,
	})
	L.Push(mod)
	return 1
}

// split(str, sep) -> {parts}
func (m *TextModule) split(L *lua.LState) int {
	str := L.CheckString(1)
	sep := L.CheckString(2)

	L.Push(stringList(L, strings.Split(str, sep)))
	return 1
}

// lines(str) -> {lines}
// Splits on \r\n, \n and \r.
func (m *TextModule) lines(L *lua.LState) int {
	str := L.CheckString(1)

	normalized := strings.ReplaceAll(str, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	L.Push(stringList(L, strings.Split(normalized, "\n")))
	return 1
}

// trim(str) -> string
func (m *TextModule) trim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}

// trim_right(str) -> string
func (m *TextModule) trimRight(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimRightFunc(L.CheckString(1), unicode.IsSpace)))
	return 1
}

// indent(str) -> string
// Returns the leading spaces and tabs of str.
func (m *TextModule) indent(L *lua.LState) int {
	str := L.CheckString(1)
	body := strings.TrimLeft(str, " \t")
	L.Push(lua.LString(str[:len(str)-len(body)]))
	return 1
}

// starts_with(str, prefix) -> bool
func (m *TextModule) startsWith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasPrefix(L.CheckString(1), L.CheckString(2))))
	return 1
}

// ends_with(str, suffix) -> bool
func (m *TextModule) endsWith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasSuffix(L.CheckString(1), L.CheckString(2))))
	return 1
}

// escape_pattern(str) -> string
// Escapes Lua pattern magic characters.
func (m *TextModule) escapePattern(L *lua.LState) int {
	str := L.CheckString(1)

	var b strings.Builder
	for _, r := range str {
		if strings.ContainsRune("^$()%.[]*+-?", r) {
			b.WriteByte('%')
		}
		b.WriteRune(r)
	}
	L.Push(lua.LString(b.String()))
	return 1
}

func stringList(L *lua.LState, parts []string) *lua.LTable {
	tbl := L.CreateTable(len(parts), 0)
	for i, part := range parts {
		tbl.RawSetInt(i+1, lua.LString(part))
	}
	return tbl
}
