// Package lua provides the sandboxed execution unit behind each plugin.
//
// Every plugin runs inside its own Unit, a wrapper around a gopher-lua
// LState with a restricted library surface. Isolation between plugins
// falls out of this one-state-per-plugin model: globals defined by one
// plugin are invisible to every other plugin.
//
// A Unit opens only the base, table, string, and math libraries. The
// Sandbox then removes the code-loading functions (dofile, loadfile,
// load, loadstring) and replaces require with a whitelist that resolves
// the already-open built-in modules and nothing else. Plugins therefore
// cannot pull arbitrary code off disk.
//
// All execution entry points recover from Go panics raised inside the
// VM and surface them as errors, so a misbehaving plugin cannot take
// down the host. An optional execution timeout (enforced through the
// LState context) and instruction limit bound runaway scripts on a
// best-effort basis.
package lua
