package document

import (
	"fmt"
	"strings"
	"unicode"
)

// ToggleComment comments or uncomments every line touched by the
// selection, or the cursor line without one.
func (d *Document) ToggleComment() error {
	r := d.SelectionRange()
	if !d.HasSelection() {
		r.Start, r.End = d.CursorOffset(), d.CursorOffset()
	}
	first, err := d.buf.LineAtOffset(r.Start)
	if err != nil {
		return err
	}
	last, err := d.buf.LineAtOffset(r.End)
	if err != nil {
		return err
	}
	return d.ToggleCommentLines(first, last)
}

// ToggleCommentLines toggles the comment on lines first..last. A line
// whose text after its indentation starts with the comment token loses
// the token and one following space; any other line gets the token and a
// space inserted after its indentation.
func (d *Document) ToggleCommentLines(first, last int) error {
	token := d.grammar.Comment
	if token == "" {
		return fmt.Errorf("%s: %w", d.grammar.ID, ErrNoCommentToken)
	}
	if err := d.requireIdle("ToggleComment"); err != nil {
		return err
	}
	if first > last {
		first, last = last, first
	}

	return d.Compound(func() error {
		for line := first; line <= last; line++ {
			if err := d.ReplaceLineFunc(line, func(text string) string {
				return toggleLineComment(text, token)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func toggleLineComment(text, token string) string {
	body := strings.TrimLeftFunc(text, unicode.IsSpace)
	indent := text[:len(text)-len(body)]
	if rest, ok := strings.CutPrefix(body, token); ok {
		return indent + strings.TrimPrefix(rest, " ")
	}
	return indent + token + " " + body
}
