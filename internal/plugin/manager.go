package plugin

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	plua "github.com/dshills/scriptor/internal/plugin/lua"
)

// Manager owns the set of loaded plugins. It mediates discovery,
// installation from packages, uninstallation, reload, and hook dispatch.
//
// The plugin table is owned exclusively by the Manager; no other
// component writes to it. Dispatch iterates plugins in load order,
// which stays stable within one process.
type Manager struct {
	mu sync.RWMutex

	// root is the plugins directory; each immediate subdirectory is one
	// plugin.
	root string

	loader *Loader

	// Loaded plugins by name, plus load order for deterministic dispatch.
	plugins   map[string]*Plugin
	loadOrder []string
}

// ManagerConfig configures the plugin manager.
type ManagerConfig struct {
	// Root is the plugins directory.
	Root string

	// ExecTimeout bounds each plugin execution (load and callback).
	ExecTimeout time.Duration

	// InstructionLimit is the advisory per-execution instruction limit.
	InstructionLimit int64
}

// DefaultManagerConfig returns sensible default configuration.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Root:             "plugins",
		ExecTimeout:      plua.DefaultExecutionTimeout,
		InstructionLimit: plua.DefaultInstructionLimit,
	}
}

// NewManager creates a plugin manager. Plugins are not loaded until
// LoadAll or Install is called.
func NewManager(config ManagerConfig) *Manager {
	return &Manager{
		root: config.Root,
		loader: NewLoader(
			WithExecTimeout(config.ExecTimeout),
			WithInstructionLimit(config.InstructionLimit),
		),
		plugins: make(map[string]*Plugin),
	}
}

// Root returns the plugins directory.
func (m *Manager) Root() string {
	return m.root
}

// LoadAll clears the plugin table and loads every immediate
// subdirectory of the plugins root. A failure in one directory is
// logged and does not stop the rest; partial success is normal.
// Returns the names that loaded, in load order.
//
// Previously loaded records are dropped without any teardown hook;
// their code units are released.
func (m *Manager) LoadAll() []string {
	m.mu.Lock()
	for _, p := range m.plugins {
		p.Close()
	}
	m.plugins = make(map[string]*Plugin)
	m.loadOrder = nil
	m.mu.Unlock()

	if err := os.MkdirAll(m.root, 0o755); err != nil {
		log.Error().Err(err).Str("root", m.root).Msg("cannot create plugins directory")
		return nil
	}

	entries, err := os.ReadDir(m.root)
	if err != nil {
		log.Error().Err(err).Str("root", m.root).Msg("cannot read plugins directory")
		return nil
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.root, entry.Name())
		p, err := m.loader.Load(dir)
		if err != nil {
			log.Error().Err(err).Str("plugin", entry.Name()).Msg("failed to load plugin")
			continue
		}
		m.register(p)
		log.Info().Str("plugin", p.Name()).Msg("loaded plugin")
	}

	return m.Names()
}

// Install installs a plugin from a package archive and loads it.
//
// The archive must contain plugin-main.lua at its root. The destination
// directory under the plugins root is named after the archive; if that
// name is taken a numeric suffix (_1, _2, ...) is appended, so install
// never overwrites an existing plugin. Returns the destination
// directory. A load failure propagates to the caller; the extracted
// directory is left on disk for inspection.
func (m *Manager) Install(pkgPath string) (string, error) {
	zr, err := zip.OpenReader(pkgPath)
	if err != nil {
		return "", fmt.Errorf("open package: %w", err)
	}
	defer zr.Close()

	if err := validatePackage(&zr.Reader); err != nil {
		return "", err
	}

	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return "", fmt.Errorf("create plugins directory: %w", err)
	}

	dest := m.freeDestination(packageStem(pkgPath))
	if err := extractPackage(&zr.Reader, dest); err != nil {
		return "", err
	}

	p, err := m.loader.Load(dest)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.registerLocked(p)
	m.mu.Unlock()

	log.Info().Str("plugin", p.Name()).Str("path", dest).Msg("installed plugin")
	return dest, nil
}

// freeDestination picks the first free directory name under the root
// for the given base name.
func (m *Manager) freeDestination(base string) string {
	dest := filepath.Join(m.root, base)
	for i := 1; ; i++ {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			return dest
		}
		dest = filepath.Join(m.root, fmt.Sprintf("%s_%d", base, i))
	}
}

// Uninstall removes a loaded plugin: the record leaves the registry and
// its directory is deleted from disk. No teardown hook is called.
func (m *Manager) Uninstall(name string) error {
	m.mu.Lock()
	p, ok := m.plugins[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("plugin %q: %w", name, ErrPluginNotFound)
	}
	delete(m.plugins, name)
	m.removeFromLoadOrder(name)
	m.mu.Unlock()

	p.Close()

	if err := os.RemoveAll(p.Path()); err != nil {
		return fmt.Errorf("remove plugin %q directory: %w", name, err)
	}

	log.Info().Str("plugin", name).Msg("uninstalled plugin")
	return nil
}

// CallHook dispatches an event to every callback registered for its
// hook, across all loaded plugins in load order and within each plugin
// in registration order. A plugin with no callbacks for the hook is a
// no-op. Each invocation is isolated: a failing or uncallable callback
// is logged with the plugin and hook name and never prevents the
// remaining callbacks from running.
func (m *Manager) CallHook(ev Event) {
	hook := ev.Hook()

	for _, p := range m.List() {
		cbs := p.Callbacks(hook)
		if len(cbs) == 0 {
			continue
		}

		unit := p.Unit()
		if unit == nil {
			continue
		}

		bridge := plua.NewBridge(unit.LState())
		args := ev.args(bridge)

		for _, cb := range cbs {
			if err := unit.CallValue(cb, args...); err != nil {
				log.Error().
					Err(err).
					Str("plugin", p.Name()).
					Str("hook", hook).
					Msg("hook callback failed")
			}
		}
	}
}

// Get returns a plugin by name.
func (m *Manager) Get(name string) (*Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plugins[name]
	return p, ok
}

// List returns all loaded plugins in load order.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Plugin, 0, len(m.loadOrder))
	for _, name := range m.loadOrder {
		if p, ok := m.plugins[name]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the loaded plugin names in load order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.loadOrder))
	copy(out, m.loadOrder)
	return out
}

// Count returns the number of loaded plugins.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plugins)
}

// Close releases every plugin's code unit. Used at process shutdown;
// the on-disk layout is untouched.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.plugins {
		p.Close()
	}
	m.plugins = make(map[string]*Plugin)
	m.loadOrder = nil
}

// register adds a loaded plugin to the table.
func (m *Manager) register(p *Plugin) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerLocked(p)
}

// registerLocked adds a plugin with mu held. Install suffixes its
// destination against the disk, not the registry, so a name can recur
// when a loaded plugin's directory was removed out from under us; the
// stale record is closed and replaced, keeping one table entry and one
// load-order slot per name.
func (m *Manager) registerLocked(p *Plugin) {
	name := p.Name()
	if old, ok := m.plugins[name]; ok {
		old.Close()
		m.plugins[name] = p
		return
	}
	m.plugins[name] = p
	m.loadOrder = append(m.loadOrder, name)
}

// removeFromLoadOrder removes a name with mu held.
func (m *Manager) removeFromLoadOrder(name string) {
	for i, n := range m.loadOrder {
		if n == name {
			m.loadOrder = append(m.loadOrder[:i], m.loadOrder[i+1:]...)
			return
		}
	}
}
