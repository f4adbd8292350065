package cursor

import (
	"errors"

	"github.com/dshills/quill/internal/engine/buffer"
)

// ErrBlockMode is returned by multi-range operations while block
// selection mode is on.
var ErrBlockMode = errors.New("not available in block selection mode")

func outOfRange(op string, offset, length int) error {
	return &buffer.OutOfRangeError{
		Op:    op,
		Value: offset,
		Limit: length,
		Err:   buffer.ErrOffsetOutOfRange,
	}
}
