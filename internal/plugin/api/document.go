package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/logging"
)

// DocumentModule implements the quill module for one document.
type DocumentModule struct {
	doc    *document.Document
	logger *logging.Logger
}

// NewDocumentModule creates the quill module bound to d. Script log
// calls go to logger.
func NewDocumentModule(d *document.Document, logger *logging.Logger) *DocumentModule {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DocumentModule{doc: d, logger: logger}
}

// Name returns the module name.
func (m *DocumentModule) Name() string {
	return Namespace
}

// Loader pushes the module table.
func (m *DocumentModule) Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":           m.text,
		"text_range":     m.textRange,
		"len":            m.docLen,
		"line_count":     m.lineCount,
		"line":           m.line,
		"line_at":        m.lineAt,
		"offset_at_line": m.offsetAtLine,
		"delimiter":      m.delimiter,
		"cursor":         m.cursor,
		"set_cursor":     m.setCursor,
		"selection":      m.selection,
		"selected_text":  m.selectedText,
		"insert":         m.insert,
		"delete":         m.delete,
		"replace":        m.replace,
		"replace_line":   m.replaceLine,
		"word_at":        m.wordAt,
		"comment":        m.comment,
		"title":          m.title,
		"path":           m.path,
		"modified":       m.modified,
		"log":            m.log,
		"warn":           m.warn,
	})
	L.Push(mod)
	return 1
}

// text() -> string
func (m *DocumentModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Text()))
	return 1
}

// text_range(offset, length) -> string
func (m *DocumentModule) textRange(L *lua.LState) int {
	offset := L.CheckInt(1)
	length := L.CheckInt(2)

	text, err := m.doc.GetRange(offset, length)
	if err != nil {
		L.RaiseError("text_range: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// len() -> number
func (m *DocumentModule) docLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.Len()))
	return 1
}

// line_count() -> number
func (m *DocumentModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.LineCount()))
	return 1
}

// line(n) -> string
// Returns line n without its delimiter.
func (m *DocumentModule) line(L *lua.LState) int {
	n := L.CheckInt(1)

	text, err := m.doc.GetLineWithoutEndOfLine(n)
	if err != nil {
		L.RaiseError("line: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// line_at(offset) -> number
func (m *DocumentModule) lineAt(L *lua.LState) int {
	offset := L.CheckInt(1)

	line, err := m.doc.LineAtOffset(offset)
	if err != nil {
		L.RaiseError("line_at: %v", err)
		return 0
	}
	L.Push(lua.LNumber(line))
	return 1
}

// offset_at_line(n) -> number
func (m *DocumentModule) offsetAtLine(L *lua.LState) int {
	n := L.CheckInt(1)

	offset, err := m.doc.OffsetAtLine(n)
	if err != nil {
		L.RaiseError("offset_at_line: %v", err)
		return 0
	}
	L.Push(lua.LNumber(offset))
	return 1
}

// delimiter() -> string
func (m *DocumentModule) delimiter(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Delimiter().Sequence()))
	return 1
}

// cursor() -> number
func (m *DocumentModule) cursor(L *lua.LState) int {
	L.Push(lua.LNumber(m.doc.CursorOffset()))
	return 1
}

// set_cursor(offset)
func (m *DocumentModule) setCursor(L *lua.LState) int {
	offset := L.CheckInt(1)

	if err := m.doc.SetCursorOffset(offset); err != nil {
		L.RaiseError("set_cursor: %v", err)
	}
	return 0
}

// selection() -> start, end
func (m *DocumentModule) selection(L *lua.LState) int {
	r := m.doc.SelectionRange()
	L.Push(lua.LNumber(r.Start))
	L.Push(lua.LNumber(r.End))
	return 2
}

// selected_text() -> string
func (m *DocumentModule) selectedText(L *lua.LState) int {
	text, err := m.doc.SelectedText()
	if err != nil {
		L.RaiseError("selected_text: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// insert(offset, text)
// Inside after_modify or after_newline the edit runs once the current
// edit completes.
func (m *DocumentModule) insert(L *lua.LState) int {
	offset := L.CheckInt(1)
	text := L.CheckString(2)

	if err := m.doc.Insert(offset, text); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// delete(offset, length)
func (m *DocumentModule) delete(L *lua.LState) int {
	offset := L.CheckInt(1)
	length := L.CheckInt(2)

	if length < 0 {
		L.ArgError(2, "length must be non-negative")
		return 0
	}
	if err := m.doc.Delete(offset, length); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// replace(offset, length, text)
func (m *DocumentModule) replace(L *lua.LState) int {
	offset := L.CheckInt(1)
	length := L.CheckInt(2)
	text := L.CheckString(3)

	if length < 0 {
		L.ArgError(2, "length must be non-negative")
		return 0
	}
	if err := m.doc.Replace(offset, length, text); err != nil {
		L.RaiseError("replace: %v", err)
	}
	return 0
}

// replace_line(n, text)
// Replaces the text of line n, keeping its delimiter.
func (m *DocumentModule) replaceLine(L *lua.LState) int {
	n := L.CheckInt(1)
	text := L.CheckString(2)

	if err := m.doc.ReplaceLine(n, text); err != nil {
		L.RaiseError("replace_line: %v", err)
	}
	return 0
}

// word_at(offset) -> word, start, end
// Returns nil when there is no word at offset.
func (m *DocumentModule) wordAt(L *lua.LState) int {
	offset := L.CheckInt(1)

	r, err := m.doc.WordRangeAtOffset(offset)
	if err != nil {
		L.RaiseError("word_at: %v", err)
		return 0
	}
	if r.IsEmpty() {
		L.Push(lua.LNil)
		return 1
	}
	word, err := m.doc.GetSlice(r.Start, r.End)
	if err != nil {
		L.RaiseError("word_at: %v", err)
		return 0
	}
	L.Push(lua.LString(word))
	L.Push(lua.LNumber(r.Start))
	L.Push(lua.LNumber(r.End))
	return 3
}

// comment() -> string
func (m *DocumentModule) comment(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Comment()))
	return 1
}

// title() -> string
func (m *DocumentModule) title(L *lua.LState) int {
	L.Push(lua.LString(m.doc.DisplayTitle()))
	return 1
}

// path() -> string
func (m *DocumentModule) path(L *lua.LState) int {
	L.Push(lua.LString(m.doc.Path()))
	return 1
}

// modified() -> bool
func (m *DocumentModule) modified(L *lua.LState) int {
	L.Push(lua.LBool(m.doc.Modified()))
	return 1
}

// log(msg)
func (m *DocumentModule) log(L *lua.LState) int {
	m.logger.Info("%s", L.CheckString(1))
	return 0
}

// warn(msg)
func (m *DocumentModule) warn(L *lua.LState) int {
	m.logger.Warn("%s", L.CheckString(1))
	return 0
}
