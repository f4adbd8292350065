package document

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/cursor"
)

// CursorOffset returns the cursor offset.
func (d *Document) CursorOffset() int {
	return d.state.CursorOffset()
}

// SetCursorOffset moves the cursor, collapsing the selection.
func (d *Document) SetCursorOffset(offset int) error {
	return d.state.SetCursorOffset(offset)
}

// SelectionOffset returns the anchor of the selection.
func (d *Document) SelectionOffset() int {
	return d.state.SelectionOffset()
}

// HasSelection reports whether any text is selected.
func (d *Document) HasSelection() bool {
	return d.state.HasSelection()
}

// SelectionRange returns the primary selection as a range. In block
// mode it is the block's bounding range.
func (d *Document) SelectionRange() buffer.Range {
	return d.state.SelectionRange()
}

// SelectionRanges returns every selected range.
func (d *Document) SelectionRanges() []buffer.Range {
	return d.state.SelectionRanges()
}

// Selections returns every selection in position order.
func (d *Document) Selections() []cursor.Selection {
	return d.state.Selections()
}

// SelectedText returns the selected text, "" if nothing is selected.
func (d *Document) SelectedText() (string, error) {
	return d.state.SelectedText()
}

// SelectAll selects the whole text with the cursor at offset 0.
func (d *Document) SelectAll() {
	d.state.SelectAll()
}

// SetSelectionRange selects from selection to cursor.
func (d *Document) SetSelectionRange(cursorOffset, selectionOffset int) error {
	return d.state.SetSelectionRange(cursorOffset, selectionOffset)
}

// AddSelection adds a secondary selection and makes it primary.
func (d *Document) AddSelection(cursorOffset, selectionOffset int) error {
	return d.state.AddSelection(cursorOffset, selectionOffset)
}

// ClearSecondarySelections drops all but the primary selection.
func (d *Document) ClearSecondarySelections() {
	d.state.ClearSecondary()
}

// BlockSelectionMode reports whether block selection is on.
func (d *Document) BlockSelectionMode() bool {
	return d.state.BlockSelectionMode()
}

// SetBlockSelectionMode turns block selection on or off.
func (d *Document) SetBlockSelectionMode(on bool) {
	d.state.SetBlockSelectionMode(on)
}

// Block returns the block selection and whether block mode is on.
func (d *Document) Block() (cursor.Block, bool) {
	return d.state.Block()
}
