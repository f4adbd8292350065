package document

import (
	"slices"

	"github.com/dshills/quill/internal/mirror"
)

// observerList holds callbacks that can be removed again.
type observerList[T any] struct {
	next    int
	entries []observerEntry[T]
}

type observerEntry[T any] struct {
	id int
	fn T
}

// add registers fn and returns a function removing it.
func (l *observerList[T]) add(fn T) func() {
	l.next++
	id := l.next
	l.entries = append(l.entries, observerEntry[T]{id: id, fn: fn})
	return func() {
		l.entries = slices.DeleteFunc(l.entries, func(e observerEntry[T]) bool {
			return e.id == id
		})
	}
}

// each calls call for every callback registered when each started.
func (l *observerList[T]) each(call func(T)) {
	for _, e := range slices.Clone(l.entries) {
		call(e.fn)
	}
}

func (l *observerList[T]) clear() {
	l.entries = nil
}

type observers struct {
	changed   observerList[func()]
	selection observerList[func(start, end int)]
	newMirror observerList[func(m mirror.Mirror)]
	modified  observerList[func(modified bool)]
}

// OnChanged registers fn to run after every change to the text. The
// returned function unregisters it.
func (d *Document) OnChanged(fn func()) func() {
	return d.observers.changed.add(fn)
}

// OnSelectionRangeChanged registers fn to run whenever the selection
// changes.
func (d *Document) OnSelectionRangeChanged(fn func(start, end int)) func() {
	return d.observers.selection.add(fn)
}

// OnNewMirror registers fn to run after SetMirror installs a mirror.
func (d *Document) OnNewMirror(fn func(m mirror.Mirror)) func() {
	return d.observers.newMirror.add(fn)
}

// OnModifiedChanged registers fn to run when the modified flag flips.
func (d *Document) OnModifiedChanged(fn func(modified bool)) func() {
	return d.observers.modified.add(fn)
}

func (d *Document) notifyChanged() {
	d.observers.changed.each(func(fn func()) { fn() })
}

func (d *Document) notifySelection(start, end int) {
	d.observers.selection.each(func(fn func(int, int)) { fn(start, end) })
}
