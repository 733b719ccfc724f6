package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lychee-app/lychee/internal/config"
	"github.com/lychee-app/lychee/internal/event"
	"github.com/lychee-app/lychee/internal/input"
	"github.com/lychee-app/lychee/internal/input/key"
	"github.com/lychee-app/lychee/internal/keybind"
	"github.com/lychee-app/lychee/internal/keybind/persist"
)

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
store = "memory"
log_level = "error"
watch_bindings = false

[plugins]
dir = %q
`, filepath.Join(dir, "plugins"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewWiresDefaults(t *testing.T) {
	app, err := New(Options{ConfigPath: testConfig(t)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Shutdown()

	if app.Config().Store != config.StoreMemory {
		t.Errorf("store = %q, want memory", app.Config().Store)
	}
	if app.Registry() == nil || app.Bus() == nil || app.Dispatcher() == nil || app.Capture() == nil || app.Plugins() == nil {
		t.Fatal("component accessor returned nil")
	}
	if !app.Registry().IsDefault(keybind.ActionCreateNote) {
		t.Error("fresh application not on default bindings")
	}
}

func TestDispatchThroughApplication(t *testing.T) {
	app, err := New(Options{ConfigPath: testConfig(t)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Shutdown()

	fired := 0
	if _, err := app.Bus().Subscribe(keybind.ActionCreateNote, func(event.Notification) error {
		fired++
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	ev := input.KeyEvent{Combo: key.MustParse("ctrl+a"), Focus: input.FocusGeneral}
	if !app.Dispatcher().HandleKey(ev) {
		t.Error("bound combo not consumed")
	}
	if fired != 1 {
		t.Errorf("listener fired %d times, want 1", fired)
	}
}

func TestRebindPersistsAcrossApplications(t *testing.T) {
	store := persist.NewMemoryStore()
	cfgPath := testConfig(t)

	app, err := New(Options{ConfigPath: cfgPath, Store: store})
	if err != nil {
		t.Fatal(err)
	}

	if err := app.Capture().Start(keybind.ActionCreateNote, nil); err != nil {
		t.Fatal(err)
	}
	ev := input.KeyEvent{Combo: key.MustParse("ctrl+k"), Focus: input.FocusGeneral}
	if !app.Dispatcher().HandleKey(ev) {
		t.Error("capture did not consume the key event")
	}
	app.Shutdown()

	app2, err := New(Options{ConfigPath: cfgPath, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	defer app2.Shutdown()

	b, ok := app2.Registry().Lookup(key.MustParse("ctrl+k"))
	if !ok || b.Action != keybind.ActionCreateNote {
		t.Errorf("Lookup(ctrl+k) = %v, %v; want note.create", b, ok)
	}
}

func TestReloadBindings(t *testing.T) {
	store := persist.NewMemoryStore()
	app, err := New(Options{ConfigPath: testConfig(t), Store: store})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	// Simulate an external edit of the stored record.
	if err := store.Set(persist.RecordName, `{"note.create":{"key":"k"}}`); err != nil {
		t.Fatal(err)
	}
	app.reloadBindings()

	b, ok := app.Registry().Lookup(key.MustParse("ctrl+k"))
	if !ok || b.Action != keybind.ActionCreateNote {
		t.Errorf("Lookup(ctrl+k) = %v, %v; want note.create after reload", b, ok)
	}
}

func TestFocusRoundTrip(t *testing.T) {
	app, err := New(Options{ConfigPath: testConfig(t)})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	if app.Focus() != input.FocusGeneral {
		t.Errorf("initial focus = %v, want general", app.Focus())
	}
	app.SetFocus(input.FocusText)
	if app.Focus() != input.FocusText {
		t.Errorf("focus = %v, want text", app.Focus())
	}
}

func TestRunRequiresSource(t *testing.T) {
	app, err := New(Options{ConfigPath: testConfig(t)})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	if err := app.Run(context.Background()); err == nil {
		t.Error("Run() without a source reported no error")
	}
}
