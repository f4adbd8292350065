package mark

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Registry owns the marks of one buffer and keeps them in step with it.
type Registry struct {
	buf    *buffer.Buffer
	marks  map[uuid.UUID]*Mark
	closed bool
}

// NewRegistry creates a registry attached to buf.
func NewRegistry(buf *buffer.Buffer) *Registry {
	r := &Registry{
		buf:   buf,
		marks: make(map[uuid.UUID]*Mark),
	}
	buf.AddObserver(r)
	return r
}

// Create registers a mark at offset.
func (r *Registry) Create(offset int, g Gravity) (*Mark, error) {
	if r.closed {
		return nil, ErrRegistryDone
	}
	pos, err := r.buf.PositionAt(offset)
	if err != nil {
		return nil, err
	}

	m := &Mark{
		id:      uuid.New(),
		pos:     pos,
		offset:  offset,
		gravity: g,
		owner:   r,
	}
	r.marks[m.id] = m
	return m, nil
}

// Delete releases a mark. Deleting a released mark returns ErrReleased.
func (r *Registry) Delete(m *Mark) error {
	if err := r.check(m); err != nil {
		return err
	}
	m.released = true
	delete(r.marks, m.id)
	return nil
}

// Offset re-derives the absolute offset of m from its line's current
// start and its line-relative offset.
func (r *Registry) Offset(m *Mark) (int, error) {
	if err := r.check(m); err != nil {
		return 0, err
	}
	return r.buf.OffsetAt(m.pos)
}

// Lookup returns the live mark with the given id.
func (r *Registry) Lookup(id uuid.UUID) (*Mark, bool) {
	m, ok := r.marks[id]
	return m, ok
}

// Len returns the number of live marks.
func (r *Registry) Len() int {
	return len(r.marks)
}

// All returns the live marks ordered by position.
func (r *Registry) All() []*Mark {
	out := make([]*Mark, 0, len(r.marks))
	for _, m := range r.marks {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].offset != out[j].offset {
			return out[i].offset < out[j].offset
		}
		return out[i].id.String() < out[j].id.String()
	})
	return out
}

// BufferChanged moves every live mark after a splice.
func (r *Registry) BufferChanged(e buffer.Edit) {
	for _, m := range r.marks {
		m.offset = Transform(m.offset, e, m.gravity)
		pos, err := r.buf.PositionAt(m.offset)
		if err != nil {
			// Cannot happen for a consistent edit; pin to the end.
			m.offset = r.buf.Len()
			pos, _ = r.buf.PositionAt(m.offset)
		}
		m.pos = pos
	}
}

// Close releases every mark and detaches from the buffer.
func (r *Registry) Close() {
	if r.closed {
		return
	}
	for id, m := range r.marks {
		m.released = true
		delete(r.marks, id)
	}
	r.buf.RemoveObserver(r)
	r.closed = true
}

func (r *Registry) check(m *Mark) error {
	if m == nil || m.released {
		return ErrReleased
	}
	if m.owner != r {
		return ErrForeignMark
	}
	return nil
}
