// Package word resolves word boundaries around an offset using a
// grammar's word pattern. Resolution is read-only: the same text and
// offset always give the same range.
package word

import (
	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/engine/grammar"
)

// Source is the read side of a buffer the resolver scans.
type Source interface {
	Len() int
	RuneAt(offset int) (rune, bool)
	GetRange(offset, length int) (string, error)
	LineAtOffset(offset int) (int, error)
	OffsetAtLine(line int) (int, error)
}

// Resolver finds words in a Source.
type Resolver struct {
	src     Source
	grammar *grammar.Grammar
}

// NewResolver creates a resolver for src using g's word pattern.
func NewResolver(src Source, g *grammar.Grammar) *Resolver {
	return &Resolver{src: src, grammar: g}
}

// Grammar returns the grammar in use.
func (r *Resolver) Grammar() *grammar.Grammar {
	return r.grammar
}

// SetGrammar switches the grammar used for later queries.
func (r *Resolver) SetGrammar(g *grammar.Grammar) {
	r.grammar = g
}

// RangeAt returns the range of the word at offset. Which way the scan
// goes depends on whether the characters just left and right of offset
// are whitespace; with whitespace on both sides the result is the empty
// range at offset.
func (r *Resolver) RangeAt(offset int) (buffer.Range, error) {
	if offset < 0 || offset > r.src.Len() {
		return buffer.Range{}, &buffer.OutOfRangeError{
			Op:    "RangeAt",
			Value: offset,
			Limit: r.src.Len(),
			Err:   buffer.ErrOffsetOutOfRange,
		}
	}

	matchLeft := offset > 0 && !r.spaceAt(offset-1)
	matchRight := offset < r.src.Len() && !r.spaceAt(offset)

	switch {
	case matchLeft && matchRight:
		return r.around(offset), nil
	case matchLeft:
		return r.leftOf(offset), nil
	case matchRight:
		return r.rightOf(offset), nil
	default:
		return buffer.Range{Start: offset, End: offset}, nil
	}
}

// WordAt returns the text of the word at offset, or "" if there is none.
func (r *Resolver) WordAt(offset int) (string, error) {
	rng, err := r.RangeAt(offset)
	if err != nil {
		return "", err
	}
	return r.slice(rng.Start, rng.End), nil
}

// around looks for the longest word containing offset. It walks right one
// character at a time and, at each step, takes the word ending there if
// it starts at or before offset and is strictly longer than the best so
// far. The walk stops at whitespace or one past the end of the buffer.
func (r *Resolver) around(offset int) buffer.Range {
	matched := buffer.Range{Start: offset, End: offset}
	for right := 0; ; {
		m := r.leftOf(offset + right)
		if m.Len() > matched.Len() && m.Start <= offset {
			matched = m
		}
		right++
		if offset+right == r.src.Len()+1 || r.spaceAt(offset+right-1) {
			break
		}
	}
	return matched
}

// leftOf grows a window leftward from offset until whitespace or the
// start of the line. It keeps the last window that is a word and stops as
// soon as a window fails after an earlier one matched.
func (r *Resolver) leftOf(offset int) buffer.Range {
	lineStart := r.lineStart(offset)
	matched := buffer.Range{Start: offset, End: offset}
	matchedLeft := false

	for start := offset - 1; start != lineStart-1; start-- {
		if r.spaceAt(start) {
			break
		}
		if r.grammar.MatchWord(r.slice(start, offset)) {
			matched = buffer.Range{Start: start, End: offset}
			matchedLeft = true
		} else if matchedLeft {
			break
		}
	}
	return matched
}

// rightOf grows a window rightward from offset until whitespace or the
// end of the buffer, keeping the last window that is a word.
func (r *Resolver) rightOf(offset int) buffer.Range {
	matched := buffer.Range{Start: offset, End: offset}
	for end := offset; end != r.src.Len()+1; end++ {
		if end > offset && r.spaceAt(end-1) {
			break
		}
		if r.grammar.MatchWord(r.slice(offset, end)) {
			matched = buffer.Range{Start: offset, End: end}
		}
	}
	return matched
}

func (r *Resolver) lineStart(offset int) int {
	line, err := r.src.LineAtOffset(offset)
	if err != nil {
		return 0
	}
	start, err := r.src.OffsetAtLine(line)
	if err != nil {
		return 0
	}
	return start
}

func (r *Resolver) slice(start, end int) string {
	s, err := r.src.GetRange(start, end-start)
	if err != nil {
		return ""
	}
	return s
}

func (r *Resolver) spaceAt(offset int) bool {
	ch, ok := r.src.RuneAt(offset)
	return ok && IsSpace(ch)
}

// IsSpace reports whether ch is one of the ASCII whitespace characters
// that end a word scan: space, tab, CR, LF, form feed, vertical tab.
func IsSpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}
