package plugin

import (
	"errors"
	"fmt"
)

// Plugin system errors.
var (
	// ErrMissingEntrypoint is returned when a plugin directory has no
	// plugin-main.lua at its root.
	ErrMissingEntrypoint = errors.New("plugin has no entry point (plugin-main.lua)")

	// ErrMissingRegister is returned when a plugin's entry point executes
	// but does not define a global register function.
	ErrMissingRegister = errors.New("plugin does not define register(api)")

	// ErrPluginNotFound is returned when no plugin with the given name is
	// currently loaded.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrInvalidPackage is returned when a package archive does not carry
	// plugin-main.lua at its root.
	ErrInvalidPackage = errors.New("package must contain plugin-main.lua at its root")

	// ErrNotDirectory is returned when a plugin path is not a directory.
	ErrNotDirectory = errors.New("plugin path is not a directory")
)

// LoadStage identifies the phase of a load attempt that failed.
type LoadStage string

// Load stages.
const (
	// StageExec - top-level execution of the entry point failed.
	StageExec LoadStage = "exec"

	// StageRegister - the register function raised.
	StageRegister LoadStage = "register"
)

// LoadError reports a failed load attempt for a single plugin. It is
// fatal only to that attempt: the directory stays on disk and no record
// enters the registry.
type LoadError struct {
	Plugin string
	Stage  LoadStage
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("plugin %q: %s failed: %v", e.Plugin, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
