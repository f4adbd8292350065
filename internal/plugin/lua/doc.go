// Package lua runs document scripts on a sandboxed gopher-lua state.
//
// A State opens only the base, package, table, string and math
// libraries. The sandbox removes the loaders that read files and
// restricts require to the modules the host preloads:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	state.Preload("quill", loader)
//	if err := state.DoFile("trim.lua"); err != nil {
//	    return err
//	}
//	results, err := state.Call("before_save")
//
// Every DoFile, DoString and Call runs under a context with the state's
// timeout, so a runaway script fails with ErrExecutionTimeout instead of
// hanging the editor.
//
// A State is not safe for concurrent use. Calls may nest: a Go function
// invoked from Lua can call back into the same state.
package lua
