// Package mark tracks logical positions in a buffer that survive edits.
//
// A Mark is anchored to a line and a line-relative offset. The Registry
// observes its buffer and moves every live mark after each splice, so a
// mark's absolute offset can always be re-derived from its line's current
// start plus the stored line offset.
//
// Gravity decides what happens when text is inserted exactly at a mark:
//
//   - GravityRight: the inserted text lands to the right of the mark and
//     the mark keeps its offset.
//   - GravityLeft: the inserted text lands to the left of the mark and the
//     mark advances past it.
//
// A mark inside a replaced span collapses to the start of the edit
// (GravityRight) or to the end of the replacement text (GravityLeft).
//
// Marks are owned by their creator and stay registered until Delete is
// called or the registry is closed.
package mark
