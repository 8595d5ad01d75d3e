package lua

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for a unit.
const (
	// DefaultExecutionTimeout bounds a single execution (file load or
	// callback invocation). Best-effort: enforced through the LState
	// context, which the VM checks between instructions.
	DefaultExecutionTimeout = 5 * time.Second

	// DefaultInstructionLimit is advisory; gopher-lua does not expose a
	// hard per-call instruction counter, so the limit documents intent
	// and reserves the configuration surface.
	DefaultInstructionLimit = 10_000_000
)

// Unit is an isolated Lua execution environment for one plugin.
//
// gopher-lua's LState is not goroutine-safe. The mutex serializes access
// from Go code; Lua execution itself is single-threaded.
type Unit struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	instructionLimit int64

	sandbox *Sandbox
	closed  bool
}

// Option configures a Unit.
type Option func(*Unit)

// WithExecutionTimeout sets the best-effort timeout for each execution.
// A non-positive duration disables the timeout.
func WithExecutionTimeout(d time.Duration) Option {
	return func(u *Unit) {
		u.executionTimeout = d
	}
}

// WithInstructionLimit sets the advisory instruction limit.
func WithInstructionLimit(limit int64) Option {
	return func(u *Unit) {
		u.instructionLimit = limit
	}
}

// NewUnit creates a sandboxed Lua unit.
func NewUnit(opts ...Option) (*Unit, error) {
	u := &Unit{
		executionTimeout: DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
	}

	for _, opt := range opts {
		opt(u)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	u.L = L

	openSafeLibraries(L)

	u.sandbox = NewSandbox(L)
	u.sandbox.Install()

	return u, nil
}

// openSafeLibraries opens only the safe Lua standard libraries.
// io, os, debug, and package stay closed: plugins get no filesystem,
// system, or module-loading access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// DoFile executes a Lua file in the unit. The call blocks until the
// script completes, errors, or exceeds the execution timeout.
func (u *Unit) DoFile(path string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrUnitClosed
	}

	return u.execute(func() error {
		return u.L.DoFile(path)
	})
}

// DoString executes Lua source in the unit.
func (u *Unit) DoString(code string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrUnitClosed
	}

	return u.execute(func() error {
		return u.L.DoString(code)
	})
}

// GlobalFunction returns the named global if it is a Lua function.
func (u *Unit) GlobalFunction(name string) (*lua.LFunction, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return nil, false
	}

	fn, ok := u.L.GetGlobal(name).(*lua.LFunction)
	return fn, ok
}

// Global returns a global variable value.
func (u *Unit) Global(name string) lua.LValue {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return lua.LNil
	}

	return u.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (u *Unit) SetGlobal(name string, value lua.LValue) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return
	}

	u.L.SetGlobal(name, value)
}

// CallValue invokes a Lua value as a function with the given arguments,
// discarding any return values. Returns ErrNotFunction for uncallable
// values; other failures (Lua errors, panics, timeout) are reported as
// errors, never propagated as panics.
func (u *Unit) CallValue(v lua.LValue, args ...lua.LValue) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrUnitClosed
	}

	fn, ok := v.(*lua.LFunction)
	if !ok {
		return fmt.Errorf("%w: got %s", ErrNotFunction, v.Type())
	}

	return u.execute(func() error {
		u.L.Push(fn)
		for _, arg := range args {
			u.L.Push(arg)
		}
		return u.L.PCall(len(args), 0, nil)
	})
}

// CallGlobal invokes a global function by name.
func (u *Unit) CallGlobal(name string, args ...lua.LValue) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return ErrUnitClosed
	}

	fn := u.L.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("%w: global %q is %s", ErrNotFunction, name, fn.Type())
	}

	return u.execute(func() error {
		u.L.Push(fn)
		for _, arg := range args {
			u.L.Push(arg)
		}
		return u.L.PCall(len(args), 0, nil)
	})
}

// execute runs fn with panic recovery and the execution timeout applied.
// Must be called with mu held.
func (u *Unit) execute(fn func() error) (err error) {
	if u.executionTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), u.executionTimeout)
		defer cancel()
		u.L.SetContext(ctx)
		defer u.L.RemoveContext()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// LState returns the underlying gopher-lua state.
//
// Direct access bypasses the mutex and timeout handling; callers must
// not retain the state across unit Close.
func (u *Unit) LState() *lua.LState {
	return u.L
}

// Sandbox returns the unit's sandbox.
func (u *Unit) Sandbox() *Sandbox {
	return u.sandbox
}

// IsClosed reports whether Close has been called.
func (u *Unit) IsClosed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.closed
}

// Close releases the Lua state. Further calls on the unit return
// ErrUnitClosed.
func (u *Unit) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.closed {
		return nil
	}

	u.L.Close()
	u.closed = true
	return nil
}
