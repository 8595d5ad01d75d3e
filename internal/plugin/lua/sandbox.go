package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts a unit to safe operations.
type Sandbox struct {
	L *lua.LState
}

// safeModules are the built-in modules require may resolve. They are
// already open as globals; require simply hands back the global table.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// NewSandbox creates a sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install applies the sandbox restrictions to the state.
func (s *Sandbox) Install() {
	// Remove functions that load and execute arbitrary code. These are
	// the escape hatches out of the per-plugin namespace.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installRequire()
}

// installRequire defines require as a whitelist lookup. The package
// library is never opened, so there is no loader path to clear; unknown
// modules raise a Lua error inside the plugin.
func (s *Sandbox) installRequire() {
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)

		if !s.Allows(modName) {
			L.RaiseError("module %q is not available", modName)
			return 0 // unreachable
		}

		L.Push(L.GetGlobal(modName))
		return 1
	}))
}

// Allows reports whether require would resolve the named module.
func (s *Sandbox) Allows(modName string) bool {
	return safeModules[modName]
}
