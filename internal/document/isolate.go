package document

import (
	"fmt"
	"runtime/debug"
	"slices"
	"time"
)

// Hook names used in failures, logs and metrics.
const (
	HookBeforeModify = "before_modify"
	HookAfterModify  = "after_modify"
	HookAfterNewline = "after_newline"
	HookCursorMoved  = "cursor_moved"
	HookBeforeSave   = "before_save"
	HookProvide      = "provide"
	HookClose        = "close"
)

// ListenerFailure records a listener hook that returned an error or
// panicked.
type ListenerFailure struct {
	Listener string
	Hook     string
	Err      error
	Panicked bool
	Time     time.Time
}

// Error implements the error interface.
func (f ListenerFailure) Error() string {
	if f.Panicked {
		return fmt.Sprintf("%s %s panicked: %v", f.Listener, f.Hook, f.Err)
	}
	return fmt.Sprintf("%s %s: %v", f.Listener, f.Hook, f.Err)
}

// Unwrap returns the hook's error.
func (f ListenerFailure) Unwrap() error {
	return f.Err
}

// capture runs fn, turning a panic into a *PanicError.
func capture(fn func() error) (panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return false, fn()
}

// isolate runs one listener hook. Failures are recorded and never
// returned.
func (d *Document) isolate(l any, hook string, fn func() error) {
	name := listenerName(l)
	start := time.Now()
	panicked, err := capture(fn)
	d.metrics.record(name, hook, time.Since(start), err != nil, panicked)
	if err != nil {
		d.fail(ListenerFailure{
			Listener: name,
			Hook:     hook,
			Err:      err,
			Panicked: panicked,
			Time:     time.Now(),
		})
	}
}

// fail logs f, appends it to the failure log and forwards it to the
// failure handler.
func (d *Document) fail(f ListenerFailure) {
	d.logger.WithFields(map[string]any{
		"listener": f.Listener,
		"hook":     f.Hook,
		"panic":    f.Panicked,
	}).Error("listener failed: %v", f.Err)

	if d.failureCap > 0 {
		if len(d.failures) >= d.failureCap {
			d.failures = slices.Delete(d.failures, 0, len(d.failures)-d.failureCap+1)
		}
		d.failures = append(d.failures, f)
	}
	if d.onFailure != nil {
		d.onFailure(f)
	}
}

// Failures returns the most recent listener failures, oldest first.
func (d *Document) Failures() []ListenerFailure {
	return slices.Clone(d.failures)
}

// ClearFailures empties the failure log.
func (d *Document) ClearFailures() {
	d.failures = nil
}
