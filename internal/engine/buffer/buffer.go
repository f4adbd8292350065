package buffer

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Delimiter specifies the line delimiter style of a buffer.
type Delimiter uint8

const (
	DelimiterLF   Delimiter = iota // Unix: \n
	DelimiterCRLF                  // Windows: \r\n
)

// String returns the string representation of the delimiter.
func (d Delimiter) String() string {
	switch d {
	case DelimiterCRLF:
		return "\\r\\n"
	default:
		return "\\n"
	}
}

// Name returns the configuration name of the delimiter ("lf" or "crlf").
func (d Delimiter) Name() string {
	if d == DelimiterCRLF {
		return "crlf"
	}
	return "lf"
}

// Sequence returns the actual delimiter characters.
func (d Delimiter) Sequence() string {
	if d == DelimiterCRLF {
		return "\r\n"
	}
	return "\n"
}

// Len returns the delimiter length in characters.
func (d Delimiter) Len() int {
	return len(d.Sequence())
}

// ParseDelimiter converts a configuration value into a Delimiter.
// Accepts "lf", "crlf", or the literal sequences.
func ParseDelimiter(s string) (Delimiter, error) {
	switch strings.ToLower(s) {
	case "lf", "unix", "\n":
		return DelimiterLF, nil
	case "crlf", "windows", "dos", "\r\n":
		return DelimiterCRLF, nil
	default:
		return DelimiterLF, fmt.Errorf("%w: %q", ErrUnknownDelimiter, s)
	}
}

// Buffer holds document text as runes plus the offset of the first
// character of every line. lineStarts[0] is always 0 and the table is
// strictly increasing.
type Buffer struct {
	text       []rune
	lineStarts []int
	delimiter  Delimiter
	observers  []Observer
}

// New creates a new empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lineStarts: []int{0},
		delimiter:  DelimiterLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewFromString creates a buffer with initial content. The content is
// kept as-is; delimiters are not normalized.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.text = []rune(s)
	b.lineStarts = scanLineStarts(b.text, 0, []int{0})
	return b
}

// scanLineStarts appends the start of every line that begins inside runes
// (that is, after each '\n') to starts, offsetting by base.
func scanLineStarts(runes []rune, base int, starts []int) []int {
	for i, r := range runes {
		if r == '\n' {
			starts = append(starts, base+i+1)
		}
	}
	return starts
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	return string(b.text)
}

// Len returns the total length of the buffer in characters.
func (b *Buffer) Len() int {
	return len(b.text)
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return len(b.lineStarts)
}

// Delimiter returns the buffer's line delimiter.
func (b *Buffer) Delimiter() Delimiter {
	return b.delimiter
}

// SetDelimiter changes the delimiter used by callers that insert line
// breaks. Existing text is not rewritten.
func (b *Buffer) SetDelimiter(d Delimiter) {
	b.delimiter = d
}

// RuneAt returns the character at offset, or false past the end.
func (b *Buffer) RuneAt(offset int) (rune, bool) {
	if offset < 0 || offset >= len(b.text) {
		return 0, false
	}
	return b.text[offset], true
}

// GetRange returns length characters starting at offset.
func (b *Buffer) GetRange(offset, length int) (string, error) {
	if err := b.checkSpan("GetRange", offset, length); err != nil {
		return "", err
	}
	return string(b.text[offset : offset+length]), nil
}

// Slice returns the text in [start, end).
func (b *Buffer) Slice(start, end int) (string, error) {
	if end < start {
		return "", offsetError("Slice", start, end)
	}
	return b.GetRange(start, end-start)
}

// LineAtOffset returns the line containing offset. An offset equal to the
// buffer length belongs to the last line.
func (b *Buffer) LineAtOffset(offset int) (int, error) {
	if offset < 0 || offset > len(b.text) {
		return 0, offsetError("LineAtOffset", offset, len(b.text))
	}
	// First line start strictly greater than offset, minus one.
	return sort.SearchInts(b.lineStarts, offset+1) - 1, nil
}

// OffsetAtLine returns the offset of the first character of line.
func (b *Buffer) OffsetAtLine(line int) (int, error) {
	if line < 0 || line >= len(b.lineStarts) {
		return 0, lineError("OffsetAtLine", line, len(b.lineStarts)-1)
	}
	return b.lineStarts[line], nil
}

// OffsetAtLineEnd returns the offset just past line, including its
// delimiter. For the last line this is the buffer length.
func (b *Buffer) OffsetAtLineEnd(line int) (int, error) {
	if line < 0 || line >= len(b.lineStarts) {
		return 0, lineError("OffsetAtLineEnd", line, len(b.lineStarts)-1)
	}
	if line == len(b.lineStarts)-1 {
		return len(b.text), nil
	}
	return b.lineStarts[line+1], nil
}

// OffsetAtInnerEndOfLine returns the offset before line's trailing
// delimiter. Line-based replacements end here so they never touch the
// delimiter itself.
func (b *Buffer) OffsetAtInnerEndOfLine(line int) (int, error) {
	end, err := b.OffsetAtLineEnd(line)
	if err != nil {
		return 0, err
	}
	return end - b.delimiterLenBefore(line, end), nil
}

// delimiterLenBefore returns how many characters of line break precede end.
func (b *Buffer) delimiterLenBefore(line, end int) int {
	if line == len(b.lineStarts)-1 || end == 0 || b.text[end-1] != '\n' {
		return 0
	}
	if end-1 > b.lineStarts[line] && b.text[end-2] == '\r' {
		return 2
	}
	return 1
}

// LineText returns the text of line without its delimiter.
func (b *Buffer) LineText(line int) (string, error) {
	start, err := b.OffsetAtLine(line)
	if err != nil {
		return "", err
	}
	end, err := b.OffsetAtInnerEndOfLine(line)
	if err != nil {
		return "", err
	}
	return string(b.text[start:end]), nil
}

// LineWithDelimiter returns the text of line including its delimiter.
func (b *Buffer) LineWithDelimiter(line int) (string, error) {
	start, err := b.OffsetAtLine(line)
	if err != nil {
		return "", err
	}
	end, err := b.OffsetAtLineEnd(line)
	if err != nil {
		return "", err
	}
	return string(b.text[start:end]), nil
}

// LineRange returns [start, innerEnd) for line.
func (b *Buffer) LineRange(line int) (Range, error) {
	start, err := b.OffsetAtLine(line)
	if err != nil {
		return Range{}, err
	}
	end, err := b.OffsetAtInnerEndOfLine(line)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// Write Operations

// Replace substitutes length characters at offset with text. Only the
// line-start entries inside the replaced span are rebuilt; entries after
// it are shifted by the length delta. Observers run after the splice.
func (b *Buffer) Replace(offset, length int, text string) error {
	if err := b.checkSpan("Replace", offset, length); err != nil {
		return err
	}

	end := offset + length
	inserted := []rune(text)
	delta := len(inserted) - length

	// Line starts s with offset < s <= end follow a break inside the span.
	lo := sort.SearchInts(b.lineStarts, offset+1)
	hi := sort.SearchInts(b.lineStarts, end+1)

	tail := b.lineStarts[hi:]
	for i := range tail {
		tail[i] += delta
	}
	fresh := scanLineStarts(inserted, offset, nil)
	b.lineStarts = slices.Replace(b.lineStarts, lo, hi, fresh...)

	b.text = slices.Replace(b.text, offset, end, inserted...)

	edit := NewEdit(Range{Start: offset, End: end}, text)
	for _, o := range b.observers {
		o.BufferChanged(edit)
	}
	return nil
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset int, text string) error {
	return b.Replace(offset, 0, text)
}

// Delete removes length characters at offset.
func (b *Buffer) Delete(offset, length int) error {
	return b.Replace(offset, length, "")
}

// SetText replaces the whole content.
func (b *Buffer) SetText(text string) {
	// The full span is always valid.
	_ = b.Replace(0, len(b.text), text)
}

// AddObserver registers o to be told about every later splice.
func (b *Buffer) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

// RemoveObserver unregisters o. Observers are compared by identity.
func (b *Buffer) RemoveObserver(o Observer) {
	for i, existing := range b.observers {
		if existing == o {
			b.observers = slices.Delete(b.observers, i, i+1)
			return
		}
	}
}

func (b *Buffer) checkSpan(op string, offset, length int) error {
	if offset < 0 || offset > len(b.text) {
		return offsetError(op, offset, len(b.text))
	}
	if length < 0 || offset+length > len(b.text) {
		return offsetError(op, offset+length, len(b.text))
	}
	return nil
}
