package document

import (
	"fmt"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Len returns the number of characters.
func (d *Document) Len() int {
	return d.buf.Len()
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	return d.buf.LineCount()
}

// Delimiter returns the document's line delimiter.
func (d *Document) Delimiter() buffer.Delimiter {
	return d.buf.Delimiter()
}

// Text returns the whole text.
func (d *Document) Text() string {
	return d.buf.Text()
}

// SetText replaces the whole text through the edit protocol.
func (d *Document) SetText(text string) error {
	return d.Replace(0, d.buf.Len(), text)
}

// GetRange returns length characters starting at offset.
func (d *Document) GetRange(offset, length int) (string, error) {
	return d.buf.GetRange(offset, length)
}

// GetSlice returns the text in [start, end).
func (d *Document) GetSlice(start, end int) (string, error) {
	return d.buf.Slice(start, end)
}

// LineAtOffset returns the line containing offset.
func (d *Document) LineAtOffset(offset int) (int, error) {
	return d.buf.LineAtOffset(offset)
}

// OffsetAtLine returns the offset of the first character of line.
func (d *Document) OffsetAtLine(line int) (int, error) {
	return d.buf.OffsetAtLine(line)
}

// OffsetAtLineEnd returns the offset just past line's delimiter, or Len
// for the last line.
func (d *Document) OffsetAtLineEnd(line int) (int, error) {
	return d.buf.OffsetAtLineEnd(line)
}

// OffsetAtInnerEndOfLine returns the offset before line's delimiter.
func (d *Document) OffsetAtInnerEndOfLine(line int) (int, error) {
	return d.buf.OffsetAtInnerEndOfLine(line)
}

// GetLine returns line including its delimiter.
func (d *Document) GetLine(line int) (string, error) {
	return d.buf.LineWithDelimiter(line)
}

// GetLineWithoutEndOfLine returns line without its delimiter.
func (d *Document) GetLineWithoutEndOfLine(line int) (string, error) {
	return d.buf.LineText(line)
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) error {
	return d.Replace(offset, 0, text)
}

// InsertAtCursor inserts text at the cursor.
func (d *Document) InsertAtCursor(text string) error {
	return d.Insert(d.CursorOffset(), text)
}

// Delete removes length characters at offset.
func (d *Document) Delete(offset, length int) error {
	return d.Replace(offset, length, "")
}

// ReplaceLine replaces the text of line, leaving its delimiter alone.
func (d *Document) ReplaceLine(line int, text string) error {
	r, err := d.innerLineRange(line)
	if err != nil {
		return err
	}
	return d.Replace(r.Start, r.Len(), text)
}

// ReplaceLineFunc replaces the text of line with fn's result for it.
func (d *Document) ReplaceLineFunc(line int, fn func(current string) string) error {
	current, err := d.buf.LineText(line)
	if err != nil {
		return err
	}
	return d.ReplaceLine(line, fn(current))
}

func (d *Document) innerLineRange(line int) (buffer.Range, error) {
	start, err := d.buf.OffsetAtLine(line)
	if err != nil {
		return buffer.Range{}, err
	}
	end, err := d.buf.OffsetAtInnerEndOfLine(line)
	if err != nil {
		return buffer.Range{}, err
	}
	return buffer.NewRange(start, end), nil
}

// ReplaceSelection replaces the selected text and selects the
// replacement, keeping the selection's direction.
func (d *Document) ReplaceSelection(text string) error {
	if err := d.requireIdle("ReplaceSelection"); err != nil {
		return err
	}
	prevCursor := d.CursorOffset()
	sr := d.SelectionRange()

	if err := d.Replace(sr.Start, sr.Len(), text); err != nil {
		return err
	}

	newEnd := sr.Start + len([]rune(d.strip(text)))
	if prevCursor == sr.End {
		return d.SetSelectionRange(newEnd, sr.Start)
	}
	return d.SetSelectionRange(sr.Start, newEnd)
}

// ReplaceSelectionFunc replaces the selected text with fn's result for
// it.
func (d *Document) ReplaceSelectionFunc(fn func(selected string) string) error {
	selected, err := d.SelectedText()
	if err != nil {
		return err
	}
	return d.ReplaceSelection(fn(selected))
}

// ReplaceWordAtOffset replaces the word at offset. The cursor ends up at
// the earlier of its old offset and the end of the replacement.
func (d *Document) ReplaceWordAtOffset(offset int, text string) error {
	if err := d.requireIdle("ReplaceWordAtOffset"); err != nil {
		return err
	}
	prevCursor := d.CursorOffset()
	wr, err := d.WordRangeAtOffset(offset)
	if err != nil {
		return err
	}

	if err := d.Replace(wr.Start, wr.Len(), text); err != nil {
		return err
	}
	return d.SetCursorOffset(min(prevCursor, wr.Start+len([]rune(d.strip(text)))))
}

// ReplaceWordAtOffsetFunc replaces the word at offset with fn's result
// for it.
func (d *Document) ReplaceWordAtOffsetFunc(offset int, fn func(word string) string) error {
	w, err := d.WordAtOffset(offset)
	if err != nil {
		return err
	}
	return d.ReplaceWordAtOffset(offset, fn(w))
}

// CursorLine returns the line the cursor is on.
func (d *Document) CursorLine() int {
	line, _ := d.buf.LineAtOffset(d.CursorOffset())
	return line
}

// CursorLineOffset returns the cursor's offset within its line.
func (d *Document) CursorLineOffset() int {
	return d.CursorOffset() - d.CursorLineStartOffset()
}

// CursorLineStartOffset returns the offset of the cursor line's start.
func (d *Document) CursorLineStartOffset() int {
	offset, _ := d.buf.OffsetAtLine(d.CursorLine())
	return offset
}

// CursorLineEndOffset returns the offset just past the cursor line.
func (d *Document) CursorLineEndOffset() int {
	offset, _ := d.buf.OffsetAtLineEnd(d.CursorLine())
	return offset
}

// SelectionLine returns the line holding the selection's anchor.
func (d *Document) SelectionLine() int {
	line, _ := d.buf.LineAtOffset(d.SelectionOffset())
	return line
}

// strip returns text as the edit protocol will insert it.
func (d *Document) strip(text string) string {
	if d.singleLine {
		return stripLineBreaks(text)
	}
	return text
}

// requireIdle rejects compound operations while an edit is in progress.
func (d *Document) requireIdle(op string) error {
	if d.closed {
		return ErrClosed
	}
	if d.phase != phaseIdle {
		return fmt.Errorf("%s while %s: %w", op, d.phase, ErrReentrantEdit)
	}
	return nil
}
