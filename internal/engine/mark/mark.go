package mark

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/quill/internal/engine/buffer"
)

// Errors returned by the mark registry.
var (
	ErrReleased     = errors.New("mark released")
	ErrForeignMark  = errors.New("mark belongs to another registry")
	ErrRegistryDone = errors.New("mark registry closed")
)

// Gravity is the side of a mark that text inserted exactly at the mark
// ends up on.
type Gravity uint8

const (
	GravityLeft  Gravity = iota // inserted text lands left; the mark advances
	GravityRight                // inserted text lands right; the mark stays
)

// String returns the gravity name.
func (g Gravity) String() string {
	switch g {
	case GravityLeft:
		return "left"
	case GravityRight:
		return "right"
	default:
		return fmt.Sprintf("Gravity(%d)", g)
	}
}

// ParseGravity converts "left" or "right" into a Gravity.
func ParseGravity(s string) (Gravity, error) {
	switch s {
	case "left":
		return GravityLeft, nil
	case "right":
		return GravityRight, nil
	default:
		return GravityRight, fmt.Errorf("unknown gravity %q", s)
	}
}

// Mark is an opaque handle to a tracked position.
type Mark struct {
	id       uuid.UUID
	pos      buffer.Position
	offset   int // absolute offset as of the last edit
	gravity  Gravity
	owner    *Registry
	released bool
}

// ID returns the mark's stable identifier.
func (m *Mark) ID() uuid.UUID {
	return m.id
}

// Gravity returns the mark's gravity.
func (m *Mark) Gravity() Gravity {
	return m.gravity
}

// Position returns the line and line-relative offset of the mark.
func (m *Mark) Position() buffer.Position {
	return m.pos
}

// Released reports whether the mark has been deleted.
func (m *Mark) Released() bool {
	return m.released
}

// String returns a debug representation of the mark.
func (m *Mark) String() string {
	return fmt.Sprintf("Mark(%s %s %s)", m.id.String()[:8], m.pos, m.gravity)
}

// Transform returns where an offset with gravity g ends up after e.
// Offsets in e are pre-edit coordinates.
func Transform(offset int, e buffer.Edit, g Gravity) int {
	start, end := e.Range.Start, e.Range.End

	// Edit entirely after the offset.
	if offset < start {
		return offset
	}

	// Edit entirely before the offset. An offset at the end of a
	// non-empty span was never inside it.
	if offset > end || (offset == end && start < end) {
		return offset + e.Delta()
	}

	// Insertion at the offset, or the offset sits inside the span.
	if g == GravityLeft {
		return start + e.NewLen()
	}
	return start
}
