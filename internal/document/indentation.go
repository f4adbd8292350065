package document

import (
	"strings"
	"unicode"

	"github.com/dshills/quill/internal/engine/cursor"
)

// Indentation measures and sets line indentation using the view's tab
// settings.
type Indentation struct {
	doc      *Document
	tabWidth int
	softTabs bool
}

// Indentation returns the indentation helper bound to the view's current
// tab width and soft-tab setting.
func (d *Document) Indentation() Indentation {
	return Indentation{
		doc:      d,
		tabWidth: max(d.view.TabWidth(), 1),
		softTabs: d.view.SoftTabs(),
	}
}

// TabWidth returns the tab width.
func (in Indentation) TabWidth() int {
	return in.tabWidth
}

// SoftTabs reports whether indentation uses spaces.
func (in Indentation) SoftTabs() bool {
	return in.softTabs
}

// Whitespace returns the indentation for level.
func (in Indentation) Whitespace(level int) string {
	if level <= 0 {
		return ""
	}
	if in.softTabs {
		return strings.Repeat(" ", level*in.tabWidth)
	}
	return strings.Repeat("\t", level)
}

// Leading returns the whitespace at the start of line.
func (in Indentation) Leading(line int) (string, error) {
	text, err := in.doc.buf.LineText(line)
	if err != nil {
		return "", err
	}
	return leadingWhitespace(text), nil
}

// Level returns the indentation level of line: the display width of its
// leading whitespace divided by the tab width, rounded down.
func (in Indentation) Level(line int) (int, error) {
	ws, err := in.Leading(line)
	if err != nil {
		return 0, err
	}
	return cursor.VisualColumn(ws, len([]rune(ws)), in.tabWidth) / in.tabWidth, nil
}

// SetLevel re-indents line to level.
func (in Indentation) SetLevel(line, level int) error {
	return in.doc.ReplaceLineFunc(line, func(text string) string {
		return in.Whitespace(level) + strings.TrimLeftFunc(text, isIndent)
	})
}

func leadingWhitespace(text string) string {
	return text[:len(text)-len(strings.TrimLeftFunc(text, isIndent))]
}

func isIndent(r rune) bool {
	return r == ' ' || r == '\t' || (r != '\n' && r != '\r' && unicode.IsSpace(r))
}
