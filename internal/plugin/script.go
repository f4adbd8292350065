package plugin

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/document"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/plugin/api"
	plua "github.com/dshills/quill/internal/plugin/lua"
)

// Hook function names a script may define.
const (
	FuncBeforeModify = "before_modify"
	FuncAfterModify  = "after_modify"
	FuncAfterNewline = "after_newline"
	FuncCursorMoved  = "cursor_moved"
	FuncBeforeSave   = "before_save"
)

// Script is a Lua script running for one document.
type Script struct {
	name   string
	state  *plua.State
	logger *logging.Logger
}

// Open runs src in a fresh state bound to d.
func Open(src Source, d *document.Document, opts ...Option) (*Script, error) {
	o := newOptions(opts)
	logger := o.logger.WithComponent("plugin").WithField("plugin", src.Name)

	state, err := plua.NewState(
		plua.WithExecutionTimeout(o.timeout),
		plua.WithModules(api.Namespace),
	)
	if err != nil {
		return nil, err
	}

	modules := []api.Module{
		api.NewDocumentModule(d, logger),
		api.NewTextModule(),
	}
	if err := api.Install(state, modules...); err != nil {
		state.Close()
		return nil, fmt.Errorf("plugin %s: %w", src.Name, err)
	}
	if err := state.DoFile(src.Path); err != nil {
		state.Close()
		return nil, fmt.Errorf("plugin %s: %w", src.Name, err)
	}

	logger.Debug("loaded %s", src.Path)
	return &Script{name: src.Name, state: state, logger: logger}, nil
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// State returns the script's Lua state.
func (s *Script) State() *plua.State {
	return s.state
}

// Close closes the Lua state. It is safe to call more than once.
func (s *Script) Close() error {
	return s.state.Close()
}

// Listeners returns listeners for the hooks the script defines.
func (s *Script) Listeners() document.Listeners {
	var ls document.Listeners
	if s.state.HasFunction(FuncBeforeModify) || s.state.HasFunction(FuncAfterModify) {
		ls.Modification = append(ls.Modification, modificationHook{s})
	}
	if s.state.HasFunction(FuncAfterNewline) {
		ls.Newline = append(ls.Newline, newlineHook{s})
	}
	if s.state.HasFunction(FuncCursorMoved) {
		ls.Cursor = append(ls.Cursor, cursorHook{s})
	}
	if s.state.HasFunction(FuncBeforeSave) {
		ls.Save = append(ls.Save, saveHook{s})
	}
	return ls
}

// call runs hook if the script defines it. A false first result fails
// the hook with the second result as message.
func (s *Script) call(hook string, args ...lua.LValue) error {
	if s.state.IsClosed() {
		return ErrStateClosed
	}
	if !s.state.HasFunction(hook) {
		return nil
	}
	results, err := s.state.Call(hook, args...)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", s.name, hook, err)
	}
	if len(results) > 0 && results[0] == lua.LFalse {
		msg := ""
		if len(results) > 1 && results[1] != lua.LNil {
			msg = results[1].String()
		}
		return &HookError{Script: s.name, Hook: hook, Message: msg}
	}
	return nil
}

type modificationHook struct{ *Script }

func (h modificationHook) BeforeModify(start, end int, text string) error {
	return h.call(FuncBeforeModify, lua.LNumber(start), lua.LNumber(end), lua.LString(text))
}

func (h modificationHook) AfterModify() error {
	return h.call(FuncAfterModify)
}

type newlineHook struct{ *Script }

func (h newlineHook) AfterNewline(line int) error {
	return h.call(FuncAfterNewline, lua.LNumber(line))
}

type cursorHook struct{ *Script }

func (h cursorHook) CursorMoved(offset int) error {
	return h.call(FuncCursorMoved, lua.LNumber(offset))
}

type saveHook struct{ *Script }

// BeforeSave runs before_save. The Lua state carries its own timeout, so
// ctx is only checked before the call.
func (h saveHook) BeforeSave(ctx context.Context, _ *document.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.call(FuncBeforeSave)
}
