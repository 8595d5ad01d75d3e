package plugin

import (
	lua "github.com/yuin/gopher-lua"
)

// HostAppName is the host identity exposed to plugins.
const HostAppName = "Scriptor"

// API is the capability object handed to a plugin's register function.
// It is the only surface a plugin can use to attach behavior to the
// host: it mutates the owning record's hook table and nothing else.
//
// In Lua it appears as a table:
//
//	function register(api)
//	    print(api.app_name)
//	    api.register_hook("on_open", function(path) ... end)
//	end
type API struct {
	plugin *Plugin
}

// newAPI creates a capability object bound to a plugin record.
func newAPI(p *Plugin) *API {
	return &API{plugin: p}
}

// table builds the Lua-side capability table in the plugin's own state.
func (a *API) table(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "app_name", lua.LString(HostAppName))
	L.SetField(t, "register_hook", L.NewFunction(a.registerHook))
	return t
}

// registerHook implements register_hook(name, callback). Any callback
// value is accepted and stored; an uncallable value is only detected
// (and logged) when the hook fires. Hook names are not validated: any
// plugin may observe any hook.
func (a *API) registerHook(L *lua.LState) int {
	name := L.CheckString(1)
	cb := L.Get(2)
	a.plugin.addHook(name, cb)
	return 0
}
