package plugin

import (
	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/scriptor/internal/plugin/lua"
)

// Well-known hook names fired by the editor shell.
const (
	HookOpen    = "on_open"
	HookSave    = "on_save"
	HookGeneric = "on_event"
)

// Event is a hook occurrence dispatched to plugin callbacks. The set of
// event kinds is closed: the shell fires opens, saves, and generic named
// events, and each kind knows its hook name and its callback arguments.
type Event interface {
	// Hook returns the hook name this event dispatches on.
	Hook() string

	// args materializes the callback arguments in a plugin's own state.
	args(b *plua.Bridge) []lua.LValue
}

// OpenEvent fires on hook "on_open" when the shell opens a file.
// Callbacks receive the file path.
type OpenEvent struct {
	Path string
}

// Hook implements Event.
func (e OpenEvent) Hook() string { return HookOpen }

func (e OpenEvent) args(_ *plua.Bridge) []lua.LValue {
	return []lua.LValue{lua.LString(e.Path)}
}

// SaveEvent fires on hook "on_save" when the shell saves a file.
// Callbacks receive the file path.
type SaveEvent struct {
	Path string
}

// Hook implements Event.
func (e SaveEvent) Hook() string { return HookSave }

func (e SaveEvent) args(_ *plua.Bridge) []lua.LValue {
	return []lua.LValue{lua.LString(e.Path)}
}

// GenericEvent fires on hook "on_event" for ad-hoc shell notifications.
// Callbacks receive the event name and the payload as a table.
type GenericEvent struct {
	Name    string
	Payload map[string]any
}

// Hook implements Event.
func (e GenericEvent) Hook() string { return HookGeneric }

func (e GenericEvent) args(b *plua.Bridge) []lua.LValue {
	return []lua.LValue{lua.LString(e.Name), b.ToLua(e.Payload)}
}
