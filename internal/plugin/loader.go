package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	plua "github.com/dshills/scriptor/internal/plugin/lua"
)

// Loader turns a plugin directory on disk into a populated record.
type Loader struct {
	execTimeout      time.Duration
	instructionLimit int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithExecTimeout sets the execution timeout applied to each plugin's
// code unit.
func WithExecTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		l.execTimeout = d
	}
}

// WithInstructionLimit sets the advisory instruction limit for plugin
// code units.
func WithInstructionLimit(limit int64) LoaderOption {
	return func(l *Loader) {
		l.instructionLimit = limit
	}
}

// NewLoader creates a plugin loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		execTimeout:      plua.DefaultExecutionTimeout,
		instructionLimit: plua.DefaultInstructionLimit,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load resolves a plugin directory into a loaded record.
//
// The plugin name derives from the directory basename. The directory
// must contain plugin-main.lua at its root; the file is executed in a
// fresh sandboxed unit (so same-named globals in two plugins never
// collide), and the unit must define a global register function, which
// is invoked with a capability object bound to the new record.
//
// Every failure is fatal to this load attempt only: the directory stays
// on disk and no record is returned. A registration failure discards
// any hooks attached before the error.
func (l *Loader) Load(dir string) (*Plugin, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("plugin directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("plugin directory: %w", err)
	}
	name := filepath.Base(abs)

	entry := filepath.Join(abs, EntrypointName)
	if _, err := os.Stat(entry); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("plugin %q: %w", name, ErrMissingEntrypoint)
		}
		return nil, fmt.Errorf("plugin %q: %w", name, err)
	}

	p := newPlugin(name, abs)
	p.setState(StateLoading)

	unit, err := plua.NewUnit(
		plua.WithExecutionTimeout(l.execTimeout),
		plua.WithInstructionLimit(l.instructionLimit),
	)
	if err != nil {
		p.setState(StateFailed)
		return nil, fmt.Errorf("plugin %q: %w", name, err)
	}

	if err := unit.DoFile(entry); err != nil {
		unit.Close()
		p.setState(StateFailed)
		return nil, &LoadError{Plugin: name, Stage: StageExec, Err: err}
	}

	register, ok := unit.GlobalFunction("register")
	if !ok {
		unit.Close()
		p.setState(StateFailed)
		return nil, fmt.Errorf("plugin %q: %w", name, ErrMissingRegister)
	}

	api := newAPI(p)
	if err := unit.CallValue(register, api.table(unit.LState())); err != nil {
		unit.Close()
		p.discardHooks()
		p.setState(StateFailed)
		return nil, &LoadError{Plugin: name, Stage: StageRegister, Err: err}
	}

	p.attach(unit)
	return p, nil
}
