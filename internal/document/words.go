package document

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/grammar"
	"github.com/dshills/quill/internal/engine/mark"
)

// Grammar returns the document's grammar.
func (d *Document) Grammar() *grammar.Grammar {
	return d.grammar
}

// SetGrammar switches to the grammar with the given ID.
func (d *Document) SetGrammar(id string) error {
	g, err := d.grammars.Lookup(id)
	if err != nil {
		return err
	}
	d.grammar = g
	d.words.SetGrammar(g)
	return nil
}

// Comment returns the grammar's line comment token.
func (d *Document) Comment() string {
	return d.grammar.Comment
}

// WordRangeAtOffset returns the range of the word at offset, empty if
// there is none.
func (d *Document) WordRangeAtOffset(offset int) (buffer.Range, error) {
	return d.words.RangeAt(offset)
}

// WordAtOffset returns the word at offset.
func (d *Document) WordAtOffset(offset int) (string, error) {
	return d.words.WordAt(offset)
}

// CurrentWord returns the word at the cursor.
func (d *Document) CurrentWord() (string, error) {
	return d.words.WordAt(d.CursorOffset())
}

// CurrentWordRange returns the range of the word at the cursor.
func (d *Document) CurrentWordRange() (buffer.Range, error) {
	return d.words.RangeAt(d.CursorOffset())
}

// ScopeAt returns the lexical scope hierarchy at offset.
func (d *Document) ScopeAt(offset int) ([]string, error) {
	if err := d.checkSpan("ScopeAt", offset, 0); err != nil {
		return nil, err
	}
	return d.grammar.ScopeAt(d.buf.Text(), offset)
}

// CursorScope returns the lexical scope hierarchy at the cursor.
func (d *Document) CursorScope() ([]string, error) {
	return d.ScopeAt(d.CursorOffset())
}

// CreateMark creates a mark at offset.
func (d *Document) CreateMark(offset int, g mark.Gravity) (*mark.Mark, error) {
	return d.marks.Create(offset, g)
}

// DeleteMark releases m.
func (d *Document) DeleteMark(m *mark.Mark) error {
	return d.marks.Delete(m)
}

// MarkOffset returns the current offset of m.
func (d *Document) MarkOffset(m *mark.Mark) (int, error) {
	return d.marks.Offset(m)
}

// Marks returns the live marks in position order.
func (d *Document) Marks() []*mark.Mark {
	return d.marks.All()
}
