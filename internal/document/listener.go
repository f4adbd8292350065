package document

import (
	"context"
	"fmt"
)

// ModificationListener is told about every edit, before and after it is
// applied.
type ModificationListener interface {
	// BeforeModify runs with the pending change: the span [start, end)
	// is about to be replaced with text.
	BeforeModify(start, end int, text string) error

	// AfterModify runs once the change is in the buffer.
	AfterModify() error
}

// NewlineListener is told when an edit inserts exactly one line
// delimiter.
type NewlineListener interface {
	// AfterNewline receives the index of the line the break created.
	AfterNewline(line int) error
}

// CursorListener is told whenever the cursor offset changes.
type CursorListener interface {
	CursorMoved(offset int) error
}

// SaveHook runs before a document is committed to its mirror. An error
// aborts the save.
type SaveHook interface {
	BeforeSave(ctx context.Context, d *Document) error
}

// Named is implemented by listeners that report a name in logs and
// failures.
type Named interface {
	Name() string
}

// Listeners holds typed listener collections in registration order.
type Listeners struct {
	Modification []ModificationListener
	Newline      []NewlineListener
	Cursor       []CursorListener
	Save         []SaveHook
}

// Add registers v in every collection whose interface it implements and
// reports whether it implemented any.
func (ls *Listeners) Add(v any) bool {
	added := false
	if l, ok := v.(ModificationListener); ok {
		ls.Modification = append(ls.Modification, l)
		added = true
	}
	if l, ok := v.(NewlineListener); ok {
		ls.Newline = append(ls.Newline, l)
		added = true
	}
	if l, ok := v.(CursorListener); ok {
		ls.Cursor = append(ls.Cursor, l)
		added = true
	}
	if l, ok := v.(SaveHook); ok {
		ls.Save = append(ls.Save, l)
		added = true
	}
	return added
}

// Merge appends every listener of other.
func (ls *Listeners) Merge(other Listeners) {
	ls.Modification = append(ls.Modification, other.Modification...)
	ls.Newline = append(ls.Newline, other.Newline...)
	ls.Cursor = append(ls.Cursor, other.Cursor...)
	ls.Save = append(ls.Save, other.Save...)
}

// Len returns the number of registrations across all collections.
func (ls *Listeners) Len() int {
	return len(ls.Modification) + len(ls.Newline) + len(ls.Cursor) + len(ls.Save)
}

// ModificationFuncs adapts a pair of functions to ModificationListener.
// Nil functions are skipped.
type ModificationFuncs struct {
	ID     string
	Before func(start, end int, text string) error
	After  func() error
}

// Name implements Named.
func (f ModificationFuncs) Name() string { return f.ID }

// BeforeModify implements ModificationListener.
func (f ModificationFuncs) BeforeModify(start, end int, text string) error {
	if f.Before == nil {
		return nil
	}
	return f.Before(start, end, text)
}

// AfterModify implements ModificationListener.
func (f ModificationFuncs) AfterModify() error {
	if f.After == nil {
		return nil
	}
	return f.After()
}

// NewlineFunc is a function adapter for NewlineListener.
type NewlineFunc func(line int) error

// AfterNewline implements NewlineListener.
func (f NewlineFunc) AfterNewline(line int) error {
	return f(line)
}

// CursorFunc is a function adapter for CursorListener.
type CursorFunc func(offset int) error

// CursorMoved implements CursorListener.
func (f CursorFunc) CursorMoved(offset int) error {
	return f(offset)
}

// SaveHookFunc is a function adapter for SaveHook.
type SaveHookFunc func(ctx context.Context, d *Document) error

// BeforeSave implements SaveHook.
func (f SaveHookFunc) BeforeSave(ctx context.Context, d *Document) error {
	return f(ctx, d)
}

// listenerName identifies l in logs.
func listenerName(l any) string {
	if n, ok := l.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("%T", l)
}
