package document

import (
	"errors"
	"fmt"

	"github.com/dshills/quill/internal/engine/buffer"
)

// maxDeferredEdits bounds the edits drained after one top-level edit.
const maxDeferredEdits = 1024

// phase is the state of the edit protocol.
type phase uint8

const (
	phaseIdle phase = iota
	phaseVerifying
	phasePending
	phaseMutating
	phaseNotifying
)

// String returns the phase name.
func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseVerifying:
		return "verifying"
	case phasePending:
		return "pending"
	case phaseMutating:
		return "mutating"
	case phaseNotifying:
		return "notifying"
	default:
		return "unknown"
	}
}

// change is an edit between its verify and notify phases.
type change struct {
	start, end int
	text       string
}

func (c change) length() int {
	return c.end - c.start
}

// Replace replaces length characters at offset with text.
//
// Called from a notify-phase hook, the edit is queued and applied after
// the current edit; its error, if any, is returned by the outer call.
// Called from a verify-phase hook, it fails with ErrReentrantEdit.
func (d *Document) Replace(offset, length int, text string) error {
	if d.closed {
		return ErrClosed
	}
	switch d.phase {
	case phaseIdle:
	case phaseNotifying:
		d.queue = append(d.queue, change{start: offset, end: offset + length, text: text})
		return nil
	default:
		return fmt.Errorf("replace at %d while %s: %w", offset, d.phase, ErrReentrantEdit)
	}

	c, err := d.verify(offset, length, text)
	if err != nil {
		return err
	}
	d.apply(c)
	return d.drain()
}

// AboutToBeChanged runs the verify phase for an edit the view is about to
// make. The edit is held as pending until Changed reports it.
func (d *Document) AboutToBeChanged(offset, length int, text string) error {
	if d.closed {
		return ErrClosed
	}
	if d.phase != phaseIdle {
		return fmt.Errorf("edit at %d while %s: %w", offset, d.phase, ErrReentrantEdit)
	}
	_, err := d.verify(offset, length, text)
	return err
}

// Changed applies an edit announced by AboutToBeChanged and runs the
// notify phase. Without a pending change it behaves like Replace.
func (d *Document) Changed(offset, length int, text string) error {
	if d.phase != phasePending {
		return d.Replace(offset, length, text)
	}
	c := *d.pending
	if d.singleLine {
		text = stripLineBreaks(text)
	}
	if c.start != offset || c.length() != length || c.text != text {
		return fmt.Errorf("changed [%d, %d) does not match pending [%d, %d): %w",
			offset, offset+length, c.start, c.end, ErrUnexpectedChange)
	}
	d.apply(c)
	return d.drain()
}

// CancelChange drops a pending change announced by AboutToBeChanged.
func (d *Document) CancelChange() {
	if d.phase == phasePending {
		d.pending = nil
		d.phase = phaseIdle
	}
}

// verify validates the edit, stores it as pending and runs BeforeModify
// on every modification listener.
func (d *Document) verify(offset, length int, text string) (change, error) {
	if err := d.checkSpan("Replace", offset, length); err != nil {
		return change{}, err
	}
	if d.singleLine {
		text = stripLineBreaks(text)
	}

	c := change{start: offset, end: offset + length, text: text}
	d.pending = &c
	d.phase = phaseVerifying
	for _, l := range d.listeners.Modification {
		d.isolate(l, HookBeforeModify, func() error {
			return l.BeforeModify(c.start, c.end, c.text)
		})
	}
	d.phase = phasePending
	return c, nil
}

// apply splices the buffer and runs the notify phase.
func (d *Document) apply(c change) {
	d.phase = phaseMutating
	if err := d.buf.Replace(c.start, c.length(), c.text); err != nil {
		// verify checked the span and nothing can edit in between.
		d.pending = nil
		d.phase = phaseIdle
		d.logger.Error("buffer rejected verified change: %v", err)
		return
	}
	d.state.Transform(buffer.NewEdit(buffer.NewRange(c.start, c.end), c.text))

	d.phase = phaseNotifying
	d.setModified(true)
	for _, l := range d.listeners.Modification {
		d.isolate(l, HookAfterModify, l.AfterModify)
	}
	if c.text == d.buf.Delimiter().Sequence() {
		line, _ := d.buf.LineAtOffset(c.start)
		for _, l := range d.listeners.Newline {
			d.isolate(l, HookAfterNewline, func() error {
				return l.AfterNewline(line + 1)
			})
		}
	}
	d.pending = nil
	d.notifyChanged()
	d.phase = phaseIdle
}

// drain applies edits queued during notify phases, oldest first.
func (d *Document) drain() error {
	var errs []error
	for n := 0; len(d.queue) > 0; n++ {
		if n == maxDeferredEdits {
			d.queue = nil
			errs = append(errs, ErrEditLoop)
			break
		}
		c := d.queue[0]
		d.queue = d.queue[1:]
		applied, err := d.verify(c.start, c.length(), c.text)
		if err != nil {
			errs = append(errs, fmt.Errorf("deferred edit: %w", err))
			continue
		}
		d.apply(applied)
	}
	return errors.Join(errs...)
}

// runCursorListeners runs CursorMoved on every cursor listener.
func (d *Document) runCursorListeners(offset int) {
	for _, l := range d.listeners.Cursor {
		d.isolate(l, HookCursorMoved, func() error {
			return l.CursorMoved(offset)
		})
	}
}

// CursorMoved is the entry point for caret moves reported by the view.
// The cursor is moved to offset if it is elsewhere; cursor listeners run
// either way.
func (d *Document) CursorMoved(offset int) error {
	if offset != d.state.CursorOffset() {
		return d.state.SetCursorOffset(offset)
	}
	d.runCursorListeners(offset)
	return nil
}

// SelectionRangeChanged is the entry point for selection changes
// reported by the view. The selection becomes [start, end) with the
// cursor at end, and selection observers are told.
func (d *Document) SelectionRangeChanged(start, end int) error {
	if r := d.state.SelectionRange(); r.Start != min(start, end) || r.End != max(start, end) {
		return d.state.SetSelectionRange(end, start)
	}
	d.notifySelection(min(start, end), max(start, end))
	return nil
}

func (d *Document) checkSpan(op string, offset, length int) error {
	n := d.buf.Len()
	if offset < 0 || offset > n {
		return &buffer.OutOfRangeError{Op: op, Value: offset, Limit: n, Err: buffer.ErrOffsetOutOfRange}
	}
	if length < 0 || offset+length > n {
		return &buffer.OutOfRangeError{Op: op, Value: offset + length, Limit: n, Err: buffer.ErrOffsetOutOfRange}
	}
	return nil
}

// setModified updates the modified flag and the view's title.
func (d *Document) setModified(modified bool) {
	changed := d.modified != modified
	d.modified = modified
	if t, ok := d.view.(Titler); ok {
		t.SetTitle(d.DisplayTitle())
	}
	if changed {
		d.observers.modified.each(func(fn func(bool)) { fn(modified) })
	}
}
