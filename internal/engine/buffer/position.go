package buffer

import "fmt"

// Position represents a line and a line-relative character offset.
// Both Line and Column are 0-indexed.
type Position struct {
	Line   int // 0-indexed line number
	Column int // characters from the start of the line
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// PositionAt converts an offset into a line and line-relative offset.
func (b *Buffer) PositionAt(offset int) (Position, error) {
	line, err := b.LineAtOffset(offset)
	if err != nil {
		return Position{}, err
	}
	return Position{Line: line, Column: offset - b.lineStarts[line]}, nil
}

// OffsetAt converts a position back into an absolute offset. The column
// is not checked against the line's length, only against the buffer.
func (b *Buffer) OffsetAt(p Position) (int, error) {
	start, err := b.OffsetAtLine(p.Line)
	if err != nil {
		return 0, err
	}
	offset := start + p.Column
	if p.Column < 0 || offset > len(b.text) {
		return 0, offsetError("OffsetAt", offset, len(b.text))
	}
	return offset, nil
}
