package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/lychee-app/lychee/internal/event"
	"github.com/lychee-app/lychee/internal/keybind"
)

// Manager discovers and runs the plugins in a directory.
type Manager struct {
	mu sync.RWMutex

	registry *keybind.Registry
	bus      *event.Bus
	logf     func(format string, args ...any)

	disabled map[string]bool
	hosts    map[string]*Host
	order    []string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDisabled marks plugin names that are skipped at load time.
func WithDisabled(names []string) ManagerOption {
	return func(m *Manager) {
		for _, n := range names {
			m.disabled[n] = true
		}
	}
}

// WithLogf sets the sink for lychee.log output.
func WithLogf(logf func(string, ...any)) ManagerOption {
	return func(m *Manager) {
		m.logf = logf
	}
}

// NewManager creates an empty manager.
func NewManager(registry *keybind.Registry, bus *event.Bus, opts ...ManagerOption) *Manager {
	m := &Manager{
		registry: registry,
		bus:      bus,
		disabled: make(map[string]bool),
		hosts:    make(map[string]*Host),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadDir loads every *.lua file in dir, in name order. A missing directory
// is not an error. Individual plugin failures are joined into the returned
// error; the remaining plugins still load.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading plugin directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, name := range names {
		host := NewHost(filepath.Join(dir, name), m.registry, m.bus, m.logf)
		m.hosts[host.Name()] = host
		m.order = append(m.order, host.Name())

		if m.disabled[host.Name()] {
			continue
		}
		if err := host.Load(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Host returns a plugin by name.
func (m *Manager) Host(name string) (*Host, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	host, ok := m.hosts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return host, nil
}

// Names returns all known plugin names in load order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Enable loads (or reloads) a plugin by name.
func (m *Manager) Enable(name string) error {
	host, err := m.Host(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.disabled, name)
	m.mu.Unlock()

	if host.Status() == StatusActive {
		return nil
	}
	return host.Load()
}

// Disable unloads a plugin by name. Its listeners stop firing immediately.
func (m *Manager) Disable(name string) error {
	host, err := m.Host(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.disabled[name] = true
	m.mu.Unlock()

	host.Unload()
	return nil
}

// Close unloads every plugin.
func (m *Manager) Close() {
	m.mu.RLock()
	hosts := make([]*Host, 0, len(m.hosts))
	for _, h := range m.hosts {
		hosts = append(hosts, h)
	}
	m.mu.RUnlock()

	for _, h := range hosts {
		h.Unload()
	}
}
