package plugin

// State represents the lifecycle state of a plugin record.
type State int

// Plugin states. There is no disabled state: a loaded plugin is always
// eligible for hook dispatch until it is uninstalled or the registry is
// reloaded.
const (
	// StateUnloaded - record created, no code executed yet.
	StateUnloaded State = iota

	// StateLoading - entry point executing or register running.
	StateLoading

	// StateLoaded - plugin loaded and eligible for dispatch.
	StateLoaded

	// StateFailed - the load attempt failed; the record never entered
	// the registry.
	StateFailed
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
