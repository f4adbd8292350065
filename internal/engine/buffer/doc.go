// Package buffer provides the text buffer that backs a document. Text is
// held as a slice of runes together with a cached table of line starts, so
// every offset in the engine is a character offset rather than a byte offset.
//
// The buffer package provides:
//
//   - Offset to line translation through a binary-searched line-start table
//   - A single mutation entry point, Replace, which rewrites only the
//     line-table entries for the lines it touches
//   - Line delimiter detection (LF or CRLF)
//   - Observers that learn about every splice after it has been applied
//
// Basic usage:
//
//	buf := buffer.NewFromString("Hello\nWorld")
//
//	line, _ := buf.LineAtOffset(7)    // 1
//	start, _ := buf.OffsetAtLine(1)   // 6
//
//	_ = buf.Replace(0, 5, "Howdy")    // "Howdy\nWorld"
//
// Line breaks:
//
// A line break is a "\n". A "\r\n" pair counts as a single break that ends
// at the "\n"; OffsetAtInnerEndOfLine returns the position before the whole
// pair. A lone "\r" is ordinary text.
//
// Thread Safety:
//
// Buffer is not safe for concurrent use. A document owns its buffer and is
// the only mutator; callers serialize access on one goroutine.
package buffer
