package document

import (
	"errors"
	"fmt"
)

// Errors returned by document operations.
var (
	// ErrReentrantEdit is returned for an edit issued while another edit
	// is being verified or applied.
	ErrReentrantEdit = errors.New("re-entrant edit")

	// ErrUnexpectedChange is returned when Changed reports an edit that
	// does not match the pending change announced by AboutToBeChanged.
	ErrUnexpectedChange = errors.New("change does not match pending change")

	// ErrEditLoop is returned when deferred edits keep queueing more
	// deferred edits.
	ErrEditLoop = errors.New("too many deferred edits")

	// ErrNoMirror is returned by operations that need a backing store.
	ErrNoMirror = errors.New("document has no mirror")

	// ErrConflict is returned by CheckMirror when the mirror changed
	// while the document has unsaved changes.
	ErrConflict = errors.New("mirror changed with unsaved changes")

	// ErrSaveHookFailed is matched by every *SaveHookError.
	ErrSaveHookFailed = errors.New("save hook failed")

	// ErrNoCommentToken is returned when toggling comments in a grammar
	// without a comment token.
	ErrNoCommentToken = errors.New("grammar has no comment token")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("document is closed")
)

// SaveHookError reports the save hook that vetoed a save.
type SaveHookError struct {
	Hook string
	Err  error
}

// Error implements the error interface.
func (e *SaveHookError) Error() string {
	return fmt.Sprintf("save hook %s: %v", e.Hook, e.Err)
}

// Unwrap returns the hook's error.
func (e *SaveHookError) Unwrap() error {
	return e.Err
}

// Is implements error matching for SaveHookError.
func (e *SaveHookError) Is(target error) bool {
	return target == ErrSaveHookFailed
}

// PanicError carries a value recovered from a panicking hook.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
