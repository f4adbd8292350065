package document

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/quill/internal/engine/buffer"
	"github.com/dshills/quill/internal/mirror"
)

// Untitled is the display title of a document without a mirror.
const Untitled = "untitled"

// Mirror returns the backing store, or nil.
func (d *Document) Mirror() mirror.Mirror {
	return d.mirror
}

// SetMirror installs m as the backing store and loads the document from
// it. New-mirror observers run once the content is loaded.
func (d *Document) SetMirror(m mirror.Mirror) error {
	d.mirror = m
	err := d.UpdateFromMirror()
	d.observers.newMirror.each(func(fn func(mirror.Mirror)) { fn(m) })
	return err
}

// UpdateFromMirror replaces the text with the mirror's content. The
// cursor returns to the start of its previous line and the view keeps
// its top line when the new text is long enough.
func (d *Document) UpdateFromMirror() error {
	if d.mirror == nil {
		return ErrNoMirror
	}
	if d.phase != phaseIdle {
		return fmt.Errorf("reload while %s: %w", d.phase, ErrReentrantEdit)
	}

	prevLine := d.CursorLine()
	top := d.view.SmallestVisibleLine()

	text, err := d.mirror.Read()
	if err != nil {
		return fmt.Errorf("reading %s: %w", d.mirror.Title(), err)
	}
	if hasLineBreak(text) && !d.singleLine {
		d.buf.SetDelimiter(buffer.DetectDelimiter(text))
	}
	if err := d.SetText(text); err != nil {
		return err
	}
	d.setModified(false)

	if d.LineCount() > prevLine {
		offset, err := d.OffsetAtLine(prevLine)
		if err == nil {
			_ = d.SetCursorOffset(offset)
		}
		d.ScrollToLineAtTop(top)
	}
	d.logger.Debug("loaded %d characters from %s", d.Len(), d.mirror.Title())
	return nil
}

// CheckMirror reloads the document if its mirror changed. A change to a
// mirror of a modified document is reported as ErrConflict and nothing
// is reloaded.
func (d *Document) CheckMirror() (bool, error) {
	if !d.MirrorChanged() || !d.mirror.Exists() {
		return false, nil
	}
	if d.modified {
		return false, fmt.Errorf("%s: %w", d.mirror.Title(), ErrConflict)
	}
	if err := d.UpdateFromMirror(); err != nil {
		return false, err
	}
	return true, nil
}

// MirrorChanged reports whether the mirror's content differs from what
// was last loaded or saved.
func (d *Document) MirrorChanged() bool {
	return d.mirror != nil && d.mirror.Changed()
}

// Save runs the save hooks in order and commits the text to the mirror.
// A failing hook or a cancelled context aborts the save with the text
// and modified flag untouched.
func (d *Document) Save(ctx context.Context) error {
	if d.closed {
		return ErrClosed
	}
	if d.mirror == nil {
		return ErrNoMirror
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("saving %s: %w", d.mirror.Title(), err)
	}

	for _, h := range d.listeners.Save {
		name := listenerName(h)
		start := time.Now()
		panicked, err := capture(func() error {
			return h.BeforeSave(ctx, d)
		})
		d.metrics.record(name, HookBeforeSave, time.Since(start), err != nil, panicked)
		if err != nil {
			d.logger.WithFields(map[string]any{"listener": name, "hook": HookBeforeSave}).
				Warn("save aborted: %v", err)
			return &SaveHookError{Hook: name, Err: err}
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("saving %s: %w", d.mirror.Title(), err)
	}

	if err := d.mirror.Commit(d.buf.Text()); err != nil {
		return fmt.Errorf("committing %s: %w", d.mirror.Title(), err)
	}
	if r, ok := d.view.(LastCheckedResetter); ok {
		r.ResetLastChecked()
	}
	d.setModified(false)
	d.logger.Info("saved %s", d.mirror.Title())
	return nil
}

// Title returns the mirror's title, or "" without a mirror.
func (d *Document) Title() string {
	if d.mirror == nil {
		return ""
	}
	return d.mirror.Title()
}

// DisplayTitle returns the title with a "*" prefix when modified, or
// Untitled without a mirror.
func (d *Document) DisplayTitle() string {
	if d.mirror == nil {
		return Untitled
	}
	if d.modified {
		return "*" + d.mirror.Title()
	}
	return d.mirror.Title()
}

// Path returns the mirror's path, or "".
func (d *Document) Path() string {
	if d.mirror == nil {
		return ""
	}
	return mirror.PathOf(d.mirror)
}

// Exists reports whether the mirror's content exists.
func (d *Document) Exists() bool {
	return d.mirror != nil && d.mirror.Exists()
}
