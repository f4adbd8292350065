package cursor

import "github.com/dshills/quill/internal/engine/buffer"

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
//
// Transformation rules:
//   - Edit entirely before offset: shift by the edit's delta
//   - Edit starts at or after offset: unchanged
//   - Edit spans offset: move to the end of the new text
func TransformOffset(offset int, edit Edit) int {
	return TransformOffsetSticky(offset, edit, true)
}

// TransformOffsetSticky is like TransformOffset but decides what happens
// to an insertion made exactly at offset. A sticky offset stays put; a
// non-sticky one moves to the end of the inserted text.
func TransformOffsetSticky(offset int, edit Edit, sticky bool) int {
	if edit.Range.End <= offset && !(edit.Range.IsEmpty() && edit.Range.Start == offset) {
		return offset + edit.Delta()
	}

	if edit.Range.IsEmpty() && edit.Range.Start == offset {
		if sticky {
			return offset
		}
		return offset + edit.NewLen()
	}

	if edit.Range.Start >= offset {
		return offset
	}

	return edit.Range.Start + edit.NewLen()
}

// TransformSelection updates a selection after an edit. A bare cursor
// follows text inserted at its position; a non-empty selection does not
// grow when text is inserted at either boundary.
func TransformSelection(sel Selection, edit Edit) Selection {
	if sel.IsEmpty() {
		return NewCursorSelection(TransformOffsetSticky(sel.Head, edit, false))
	}
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// TransformSet updates all selections in a set after an edit.
func TransformSet(ss *SelectionSet, edit Edit) {
	for i := range ss.selections {
		ss.selections[i] = TransformSelection(ss.selections[i], edit)
	}
	ss.normalize()
}
