// Package cursor holds the selection and cursor state of a document.
//
// The cursor package handles:
//
//   - Text selections with the anchor/head model via Selection
//   - Multi-range selection with SelectionSet
//   - Rectangular block selection in visual columns via Block
//   - Transformation of selections after buffer edits
//   - State, the canonical selection of one document, which raises a
//     notification for every selection change and every cursor move
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The cursor position (where typing would occur)
//
// When Anchor == Head, the selection represents just a cursor with no
// selected text. The cursor offset of a document is always the head of
// its primary selection.
//
// Block Mode:
//
// In block mode the anchor and head define opposite corners of a
// rectangle measured in visual columns (tabs expanded, wide characters
// counted by display width). Block mode and multi-range selection are
// mutually exclusive.
//
// Thread Safety:
//
// Selection and Block are value types. SelectionSet and State are not
// safe for concurrent use.
package cursor
