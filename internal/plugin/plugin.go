package plugin

import (
	"sync"

	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/scriptor/internal/plugin/lua"
)

// EntrypointName is the registration entry point every plugin directory
// must contain at its root.
const EntrypointName = "plugin-main.lua"

// Plugin is the record for a single loaded plugin: its identity, its
// install directory, the executed code unit, and the hook callbacks its
// register function attached.
//
// The registry owns the install directory exclusively; uninstalling the
// plugin removes it from disk. The record owns the code unit, released
// when the plugin is uninstalled or the registry reloads.
type Plugin struct {
	mu sync.RWMutex

	name string
	path string

	unit  *plua.Unit
	state State

	// hooks maps hook name to callbacks in registration order.
	// Duplicates are allowed; values are whatever the plugin passed to
	// register_hook and are only checked for callability at dispatch.
	hooks map[string][]lua.LValue
}

func newPlugin(name, path string) *Plugin {
	return &Plugin{
		name:  name,
		path:  path,
		state: StateUnloaded,
		hooks: make(map[string][]lua.LValue),
	}
}

// Name returns the plugin name, derived from its directory basename.
func (p *Plugin) Name() string {
	return p.name
}

// Path returns the absolute install directory.
func (p *Plugin) Path() string {
	return p.path
}

// State returns the lifecycle state.
func (p *Plugin) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Unit returns the plugin's code unit, nil until loaded.
func (p *Plugin) Unit() *plua.Unit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.unit
}

// HookNames returns the hook names this plugin registered callbacks for.
func (p *Plugin) HookNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.hooks))
	for name := range p.hooks {
		names = append(names, name)
	}
	return names
}

// Callbacks returns the callbacks registered for a hook, in registration
// order. A hook with no callbacks yields an empty slice.
func (p *Plugin) Callbacks(hook string) []lua.LValue {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cbs := p.hooks[hook]
	out := make([]lua.LValue, len(cbs))
	copy(out, cbs)
	return out
}

// addHook appends a callback to the named hook. Called only from the
// capability object while register runs.
func (p *Plugin) addHook(name string, cb lua.LValue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks[name] = append(p.hooks[name], cb)
}

// setState transitions the lifecycle state.
func (p *Plugin) setState(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// attach installs the executed code unit on a successfully loaded record.
func (p *Plugin) attach(unit *plua.Unit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unit = unit
	p.state = StateLoaded
}

// discardHooks drops everything register attached before it failed.
// Registration is all-or-nothing: a record never enters the registry
// with a partial hook table.
func (p *Plugin) discardHooks() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = make(map[string][]lua.LValue)
}

// Close releases the code unit. The on-disk directory is untouched.
func (p *Plugin) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.unit != nil {
		p.unit.Close()
		p.unit = nil
	}
	p.state = StateUnloaded
}
