package plugin

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/lychee-app/lychee/internal/event"
	"github.com/lychee-app/lychee/internal/keybind"
)

// Status is the plugin lifecycle state.
type Status int

const (
	// StatusUnloaded means the plugin file has not run yet.
	StatusUnloaded Status = iota

	// StatusActive means the plugin ran and its listeners are live.
	StatusActive

	// StatusDisabled means the plugin is known but not running.
	StatusDisabled

	// StatusError means the plugin failed to load or run.
	StatusError
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusUnloaded:
		return "unloaded"
	case StatusActive:
		return "active"
	case StatusDisabled:
		return "disabled"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Host runs one plugin file in its own Lua state.
type Host struct {
	mu sync.Mutex

	name string
	path string

	bus      *event.Bus
	registry *keybind.Registry
	logf     func(format string, args ...any)

	state  *lua.LState
	status Status
	err    error
	subs   []string
}

// NewHost creates an unloaded host for a plugin file. The plugin name is the
// file name without its extension.
func NewHost(path string, registry *keybind.Registry, bus *event.Bus, logf func(string, ...any)) *Host {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	base := filepath.Base(path)
	return &Host{
		name:     strings.TrimSuffix(base, filepath.Ext(base)),
		path:     path,
		bus:      bus,
		registry: registry,
		logf:     logf,
	}
}

// Name returns the plugin name.
func (h *Host) Name() string {
	return h.name
}

// Path returns the plugin file path.
func (h *Host) Path() string {
	return h.path
}

// Status returns the lifecycle state.
func (h *Host) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

// Err returns the load error, if any.
func (h *Host) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Load runs the plugin file in a fresh Lua state.
func (h *Host) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.status == StatusActive {
		return ErrAlreadyLoaded
	}

	L := lua.NewState()
	h.installAPI(L)

	if err := L.DoFile(h.path); err != nil {
		L.Close()
		h.status = StatusError
		h.err = fmt.Errorf("plugin %s: %w", h.name, err)
		return h.err
	}

	h.state = L
	h.status = StatusActive
	h.err = nil
	return nil
}

// Unload cancels the plugin's subscriptions and closes its Lua state.
func (h *Host) Unload() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, id := range h.subs {
		_ = h.bus.Unsubscribe(id)
	}
	h.subs = nil

	if h.state != nil {
		h.state.Close()
		h.state = nil
	}
	if h.status == StatusActive {
		h.status = StatusDisabled
	}
}

// installAPI publishes the lychee table into the plugin's globals.
func (h *Host) installAPI(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "on", L.NewFunction(h.luaOn))
	L.SetField(mod, "bindings", L.NewFunction(h.luaBindings))
	L.SetField(mod, "log", L.NewFunction(h.luaLog))
	L.SetGlobal("lychee", mod)
}

// luaOn implements lychee.on(action, fn).
func (h *Host) luaOn(L *lua.LState) int {
	id := L.CheckString(1)
	fn := L.CheckFunction(2)

	action, err := keybind.ParseAction(id)
	if err != nil {
		L.RaiseError("unknown action %q", id)
		return 0
	}

	sub, err := h.bus.Subscribe(action, func(n event.Notification) error {
		return h.invoke(fn, n)
	})
	if err != nil {
		L.RaiseError("subscribe %q: %s", id, err)
		return 0
	}
	h.subs = append(h.subs, sub.ID())
	return 0
}

// invoke calls a Lua listener with a notification table.
func (h *Host) invoke(fn *lua.LFunction, n event.Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	L := h.state
	if L == nil {
		return nil
	}

	tbl := L.NewTable()
	L.SetField(tbl, "action", lua.LString(n.Action.String()))
	L.SetField(tbl, "combo", lua.LString(n.Combo.Label()))

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, tbl); err != nil {
		return fmt.Errorf("plugin %s: %w", h.name, err)
	}
	return nil
}

// luaBindings implements lychee.bindings().
func (h *Host) luaBindings(L *lua.LState) int {
	tbl := L.NewTable()
	for _, b := range h.registry.Bindings() {
		L.SetField(tbl, b.Action.String(), lua.LString(b.Label()))
	}
	L.Push(tbl)
	return 1
}

// luaLog implements lychee.log(msg).
func (h *Host) luaLog(L *lua.LState) int {
	h.logf("[plugin:%s] %s", h.name, L.CheckString(1))
	return 0
}
