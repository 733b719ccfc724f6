package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lychee-app/lychee/internal/event"
	"github.com/lychee-app/lychee/internal/input/key"
	"github.com/lychee-app/lychee/internal/keybind"
)

func writePlugin(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPluginReceivesAction(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "greeter.lua", `
count = 0
lychee.on("note.create", function(n)
  count = count + 1
  last_action = n.action
  last_combo = n.combo
end)
`)

	registry := keybind.NewRegistry()
	bus := event.NewBus()
	m := NewManager(registry, bus)
	if err := m.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}

	if err := bus.Publish(keybind.ActionCreateNote, key.MustParse("ctrl+a")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	host, err := m.Host("greeter")
	if err != nil {
		t.Fatal(err)
	}
	if host.Status() != StatusActive {
		t.Fatalf("status = %v, want active", host.Status())
	}

	L := host.state
	if got := L.GetGlobal("count").String(); got != "1" {
		t.Errorf("count = %s, want 1", got)
	}
	if got := L.GetGlobal("last_action").String(); got != "note.create" {
		t.Errorf("last_action = %s, want note.create", got)
	}
	if got := L.GetGlobal("last_combo").String(); got != "Ctrl+A" {
		t.Errorf("last_combo = %s, want Ctrl+A", got)
	}
}

func TestPluginBindingsTable(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "inspect.lua", `
undo_label = lychee.bindings()["edit.undo"]
`)

	m := NewManager(keybind.NewRegistry(), event.NewBus())
	if err := m.LoadDir(dir); err != nil {
		t.Fatal(err)
	}

	host, err := m.Host("inspect")
	if err != nil {
		t.Fatal(err)
	}
	if got := host.state.GetGlobal("undo_label").String(); got != "Ctrl+Z" {
		t.Errorf("undo_label = %s, want Ctrl+Z", got)
	}
}

func TestPluginLogGoesToSink(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "chatty.lua", `lychee.log("hello")`)

	var logged string
	m := NewManager(keybind.NewRegistry(), event.NewBus(), WithLogf(func(format string, args ...any) {
		logged = fmt.Sprintf(format, args...)
	}))
	if err := m.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if logged != "[plugin:chatty] hello" {
		t.Errorf("logged = %q", logged)
	}
}

func TestPluginUnknownActionFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "broken.lua", `lychee.on("no.such.action", function() end)`)
	writePlugin(t, dir, "fine.lua", `lychee.on("edit.undo", function() end)`)

	m := NewManager(keybind.NewRegistry(), event.NewBus())
	err := m.LoadDir(dir)
	if err == nil {
		t.Fatal("LoadDir() reported no error for broken plugin")
	}

	broken, _ := m.Host("broken")
	if broken.Status() != StatusError {
		t.Errorf("broken status = %v, want error", broken.Status())
	}
	fine, _ := m.Host("fine")
	if fine.Status() != StatusActive {
		t.Errorf("fine status = %v, want active despite sibling failure", fine.Status())
	}
}

func TestPluginErrorDoesNotBlockOtherListeners(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "faulty.lua", `
lychee.on("edit.undo", function() error("nope") end)
`)

	bus := event.NewBus()
	m := NewManager(keybind.NewRegistry(), bus)
	if err := m.LoadDir(dir); err != nil {
		t.Fatal(err)
	}

	ran := false
	if _, err := bus.Subscribe(keybind.ActionUndo, func(event.Notification) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	if err := bus.Publish(keybind.ActionUndo, key.Combo{}); err == nil {
		t.Error("Publish() swallowed the plugin failure")
	}
	if !ran {
		t.Error("later listener skipped after plugin error")
	}
}

func TestDisableStopsListeners(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "counter.lua", `
hits = 0
lychee.on("edit.undo", function() hits = hits + 1 end)
`)

	bus := event.NewBus()
	m := NewManager(keybind.NewRegistry(), bus)
	if err := m.LoadDir(dir); err != nil {
		t.Fatal(err)
	}

	if err := m.Disable("counter"); err != nil {
		t.Fatalf("Disable() error = %v", err)
	}
	host, _ := m.Host("counter")
	if host.Status() != StatusDisabled {
		t.Errorf("status = %v, want disabled", host.Status())
	}

	if err := bus.Publish(keybind.ActionUndo, key.Combo{}); err != nil {
		t.Fatal(err)
	}

	// Re-enable reloads the file; the counter starts fresh and sees the
	// next publish.
	if err := m.Enable("counter"); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	if err := bus.Publish(keybind.ActionUndo, key.Combo{}); err != nil {
		t.Fatal(err)
	}

	host, _ = m.Host("counter")
	if got := host.state.GetGlobal("hits").String(); got != "1" {
		t.Errorf("hits = %s, want 1", got)
	}
}

func TestDisabledAtLoadTime(t *testing.T) {
	dir := t.TempDir()
	writePlugin(t, dir, "skipme.lua", `lychee.log("ran")`)

	ran := false
	m := NewManager(keybind.NewRegistry(), event.NewBus(),
		WithDisabled([]string{"skipme"}),
		WithLogf(func(string, ...any) { ran = true }),
	)
	if err := m.LoadDir(dir); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Error("disabled plugin executed at load")
	}
	host, err := m.Host("skipme")
	if err != nil {
		t.Fatal(err)
	}
	if host.Status() != StatusUnloaded {
		t.Errorf("status = %v, want unloaded", host.Status())
	}
}

func TestLoadDirMissingIsNoop(t *testing.T) {
	m := NewManager(keybind.NewRegistry(), event.NewBus())
	if err := m.LoadDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("LoadDir(absent) error = %v", err)
	}
	if len(m.Names()) != 0 {
		t.Errorf("Names() = %v, want empty", m.Names())
	}
}

func TestHostUnknownPlugin(t *testing.T) {
	m := NewManager(keybind.NewRegistry(), event.NewBus())
	if _, err := m.Host("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Host(ghost) error = %v, want ErrNotFound", err)
	}
}
