// Package api provides the Lua modules document scripts load with
// require.
//
//   - quill: the document the script is attached to (text, lines,
//     cursor, edits, words, title)
//   - quill.text: string helpers for editing scripts
//
// Offsets, lengths and line numbers are 0-based character counts, the
// same as in the document package. Errors from the document raise Lua
// errors, so a failing call aborts the hook that made it.
package api
