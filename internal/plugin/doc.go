// Package plugin provides the plugin system for Scriptor.
//
// Plugins extend the editor with Lua scripts that subscribe to shell
// events (file open, file save, ad-hoc named events) through hooks.
//
// # Plugin Structure
//
// Each plugin is one directory under the plugins root, containing the
// registration entry point at its root:
//
//	plugins/word-count/
//	└── plugin-main.lua
//
// The entry point must define a global register function, called once
// at load time with the capability object:
//
//	function register(api)
//	    api.register_hook("on_open", function(path)
//	        print("opened " .. path .. " in " .. api.app_name)
//	    end)
//	end
//
// # Packages
//
// Plugins are distributed as zip archives (.scpl) with plugin-main.lua
// at the archive root. Install extracts the archive into a fresh
// directory under the plugins root, suffixing the name (_1, _2, ...) if
// it is already taken, then loads it.
//
// # Lifecycle
//
// A record moves through:
//
//	unloaded -> loading -> {loaded | failed}
//
// Loaded plugins stay eligible for hook dispatch until uninstalled
// (record removed, directory deleted) or the registry reloads (records
// dropped, directories re-scanned). There is no disabled state and no
// teardown hook.
//
// # Isolation
//
// Every plugin runs in its own sandboxed Lua state; a failure while
// loading one plugin, or in one hook callback, is logged and never
// affects other plugins or the host. Errors from user-initiated single
// operations (Install, Uninstall, a direct Load) propagate to the
// caller instead.
package plugin
