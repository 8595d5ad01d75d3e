package plugin

// Hooks is the adapter the editor shell calls to notify plugins of
// shell activity. Each notification maps 1:1 onto hook dispatch; the
// shell never sees plugin errors from these calls (callback failures
// are logged, per the isolation policy).
type Hooks struct {
	manager *Manager
}

// NewHooks creates a bridge onto the given manager.
func NewHooks(m *Manager) *Hooks {
	return &Hooks{manager: m}
}

// OnOpen notifies plugins that a file was opened.
func (h *Hooks) OnOpen(path string) {
	h.manager.CallHook(OpenEvent{Path: path})
}

// OnSave notifies plugins that a file was saved.
func (h *Hooks) OnSave(path string) {
	h.manager.CallHook(SaveEvent{Path: path})
}

// OnEvent notifies plugins of a named shell event with a payload.
func (h *Hooks) OnEvent(name string, payload map[string]any) {
	h.manager.CallHook(GenericEvent{Name: name, Payload: payload})
}
