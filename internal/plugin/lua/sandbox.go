package lua

import (
	"errors"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// ErrModuleNotAllowed is returned when preloading a module the sandbox
// does not allow.
var ErrModuleNotAllowed = errors.New("lua module not allowed")

// builtinModules are the libraries require may always return.
var builtinModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	allowed map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{
		L:       L,
		allowed: make(map[string]bool),
	}
}

// Allow lets require load the named modules and their dotted
// submodules.
func (s *Sandbox) Allow(names ...string) {
	for _, name := range names {
		if name != "" {
			s.allowed[name] = true
		}
	}
}

// Allows reports whether require may load module.
func (s *Sandbox) Allows(module string) bool {
	if builtinModules[module] || s.allowed[module] {
		return true
	}
	for name := range s.allowed {
		if strings.HasPrefix(module, name+".") {
			return true
		}
	}
	return false
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range []string{
		"dofile",     // Load and execute file
		"loadfile",   // Load file as function
		"load",       // Load string as function
		"loadstring", // Load string as function (deprecated but may exist)
	} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// installSafeRequire clears package.path and package.cpath so nothing is
// read from disk, and replaces require with a version that only returns
// builtin or allowed preloaded modules.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")
	if originalRequire == lua.LNil {
		return
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !s.Allows(modName) {
			// L.RaiseError does not return.
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}
