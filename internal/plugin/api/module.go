package api

import lua "github.com/yuin/gopher-lua"

// Namespace is the root module name scripts require.
const Namespace = "quill"

// Module is a Lua module loaded through require.
type Module interface {
	// Name returns the full module name passed to require.
	Name() string
	// Loader pushes the module table.
	Loader(L *lua.LState) int
}

// Preloader registers module loaders; *lua.State from the plugin/lua
// package implements it.
type Preloader interface {
	Preload(name string, loader lua.LGFunction) error
}

// Install preloads every module.
func Install(p Preloader, modules ...Module) error {
	for _, m := range modules {
		if err := p.Preload(m.Name(), m.Loader); err != nil {
			return err
		}
	}
	return nil
}
