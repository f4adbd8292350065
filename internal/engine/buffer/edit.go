package buffer

import (
	"fmt"
	"unicode/utf8"
)

// Edit describes one splice applied to the buffer: the range that was
// replaced, in pre-edit coordinates, and the text that replaced it.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at an offset.
func NewInsert(offset int, text string) Edit {
	return Edit{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end int) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsInsert returns true if this is a pure insertion (empty range).
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// IsDelete returns true if this is a pure deletion (empty replacement).
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewText == ""
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// NewLen returns the length of the replacement text in characters.
func (e Edit) NewLen() int {
	return utf8.RuneCountInString(e.NewText)
}

// NewRange returns the range the replacement text occupies after the edit.
func (e Edit) NewRange() Range {
	return Range{Start: e.Range.Start, End: e.Range.Start + e.NewLen()}
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() int {
	return e.NewLen() - e.Range.Len()
}

// Observer is notified after each splice has been applied. Offsets in the
// edit refer to the buffer as it was before the splice.
type Observer interface {
	BufferChanged(e Edit)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Edit)

// BufferChanged calls f(e).
func (f ObserverFunc) BufferChanged(e Edit) {
	f(e)
}
