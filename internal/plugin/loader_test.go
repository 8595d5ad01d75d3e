package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

// writePluginDir creates a plugin directory with the given entry point
// source and returns its path.
func writePluginDir(t *testing.T, root, name, luaCode string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, EntrypointName), []byte(luaCode), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

const recordingPlugin = `
function register(api)
	api.register_hook("on_open", function(path)
		last_open = path
	end)
end
`

func TestLoaderLoad(t *testing.T) {
	root := t.TempDir()
	dir := writePluginDir(t, root, "recorder", recordingPlugin)

	p, err := NewLoader().Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer p.Close()

	if p.Name() != "recorder" {
		t.Errorf("Name() = %q, want recorder", p.Name())
	}
	if !filepath.IsAbs(p.Path()) {
		t.Errorf("Path() = %q, want absolute", p.Path())
	}
	if p.State() != StateLoaded {
		t.Errorf("State() = %v, want loaded", p.State())
	}
	if got := len(p.Callbacks(HookOpen)); got != 1 {
		t.Errorf("Callbacks(on_open) has %d entries, want 1", got)
	}
}

func TestLoaderLoadMissingEntrypoint(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "empty")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader().Load(dir)
	if !errors.Is(err, ErrMissingEntrypoint) {
		t.Errorf("Load() error = %v, want ErrMissingEntrypoint", err)
	}
}

func TestLoaderLoadUnreadableEntrypoint(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	dir := writePluginDir(t, root, "locked", recordingPlugin)
	if err := os.Chmod(dir, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	_, err := NewLoader().Load(dir)
	if err == nil {
		t.Fatal("Load() of an unreadable directory should error")
	}
	// A permission failure is not the same as an absent entry point.
	if errors.Is(err, ErrMissingEntrypoint) {
		t.Errorf("Load() error = %v, want the underlying stat error", err)
	}
}

func TestLoaderLoadMissingDirectory(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("Load() of missing directory should error")
	}
}

func TestLoaderLoadNotDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader().Load(file)
	if !errors.Is(err, ErrNotDirectory) {
		t.Errorf("Load() error = %v, want ErrNotDirectory", err)
	}
}

func TestLoaderLoadExecError(t *testing.T) {
	root := t.TempDir()
	dir := writePluginDir(t, root, "broken", `this is not lua`)

	_, err := NewLoader().Load(dir)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Load() error = %v, want *LoadError", err)
	}
	if le.Stage != StageExec {
		t.Errorf("Stage = %v, want exec", le.Stage)
	}
	if le.Plugin != "broken" {
		t.Errorf("Plugin = %q, want broken", le.Plugin)
	}

	// The directory stays on disk.
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("plugin directory removed after failed load: %v", err)
	}
}

func TestLoaderLoadNoRegister(t *testing.T) {
	root := t.TempDir()
	dir := writePluginDir(t, root, "silent", `x = 1`)

	_, err := NewLoader().Load(dir)
	if !errors.Is(err, ErrMissingRegister) {
		t.Errorf("Load() error = %v, want ErrMissingRegister", err)
	}
}

func TestLoaderLoadRegisterRaises(t *testing.T) {
	root := t.TempDir()
	dir := writePluginDir(t, root, "raiser", `
		function register(api)
			api.register_hook("on_open", function() end)
			error("partway through")
		end
	`)

	_, err := NewLoader().Load(dir)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Load() error = %v, want *LoadError", err)
	}
	if le.Stage != StageRegister {
		t.Errorf("Stage = %v, want register", le.Stage)
	}
}

func TestLoaderLoadRegistrationOrder(t *testing.T) {
	root := t.TempDir()
	dir := writePluginDir(t, root, "ordered", `
		function register(api)
			api.register_hook("on_save", function() tag = "first" end)
			api.register_hook("on_save", function() tag = "second" end)
		end
	`)

	p, err := NewLoader().Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer p.Close()

	cbs := p.Callbacks(HookSave)
	if len(cbs) != 2 {
		t.Fatalf("Callbacks(on_save) has %d entries, want 2", len(cbs))
	}

	// Invoking in registration order leaves the second tag in place.
	for _, cb := range cbs {
		if err := p.Unit().CallValue(cb); err != nil {
			t.Fatalf("callback error = %v", err)
		}
	}
	if got := p.Unit().Global("tag"); got != lua.LString("second") {
		t.Errorf("tag = %v, want second", got)
	}
}

func TestLoaderLoadAppName(t *testing.T) {
	root := t.TempDir()
	dir := writePluginDir(t, root, "identity", `
		function register(api)
			host = api.app_name
		end
	`)

	p, err := NewLoader().Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer p.Close()

	if got := p.Unit().Global("host"); got != lua.LString(HostAppName) {
		t.Errorf("host = %v, want %q", got, HostAppName)
	}
}

func TestLoaderNamespaceIsolation(t *testing.T) {
	root := t.TempDir()
	dirA := writePluginDir(t, root, "alpha", `
		secret = "alpha"
		function register(api) end
	`)
	dirB := writePluginDir(t, root, "beta", `
		function register(api)
			leaked = secret
		end
	`)

	loader := NewLoader()
	a, err := loader.Load(dirA)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	b, err := loader.Load(dirB)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if got := b.Unit().Global("leaked"); got != lua.LNil {
		t.Errorf("plugin beta observed alpha's global: %v", got)
	}
}

func TestLoaderNonFunctionCallbackStored(t *testing.T) {
	root := t.TempDir()
	dir := writePluginDir(t, root, "oddball", `
		function register(api)
			api.register_hook("on_open", "not a function")
		end
	`)

	// Storing an uninvokable callback is not a load error.
	p, err := NewLoader().Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer p.Close()

	if got := len(p.Callbacks(HookOpen)); got != 1 {
		t.Errorf("Callbacks(on_open) has %d entries, want 1", got)
	}
}
