package plugin

import (
	"errors"

	plua "github.com/dshills/quill/internal/plugin/lua"
)

// Plugin errors.
var (
	// ErrNoEntryPoint is returned for a script directory without init.lua.
	ErrNoEntryPoint = errors.New("plugin has no entry point (init.lua)")

	// ErrHookFailed is matched by every *HookError.
	ErrHookFailed = errors.New("plugin hook failed")

	// ErrStateClosed is returned by hooks of a closed script.
	ErrStateClosed = plua.ErrStateClosed
)

// HookError reports a hook that returned false.
type HookError struct {
	Script  string
	Hook    string
	Message string
}

// Error implements the error interface.
func (e *HookError) Error() string {
	if e.Message == "" {
		return e.Script + "." + e.Hook + " returned false"
	}
	return e.Script + "." + e.Hook + ": " + e.Message
}

// Is reports whether target is ErrHookFailed.
func (e *HookError) Is(target error) bool {
	return target == ErrHookFailed
}
