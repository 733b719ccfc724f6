// Package app wires the keybinding core together and manages its lifecycle:
// configuration, the settings store, the binding registry, the action bus,
// dispatch and the plugin host.
package app

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lychee-app/lychee/internal/config"
	"github.com/lychee-app/lychee/internal/event"
	"github.com/lychee-app/lychee/internal/input"
	"github.com/lychee-app/lychee/internal/keybind"
	"github.com/lychee-app/lychee/internal/keybind/persist"
	"github.com/lychee-app/lychee/internal/plugin"
)

// Application coordinates the keybinding subsystem.
type Application struct {
	cfg    config.Config
	logger *Logger

	store      persist.Store
	storeClose func() error

	registry   *keybind.Registry
	bus        *event.Bus
	dispatcher *input.Dispatcher
	capture    *input.RebindCapture
	plugins    *plugin.Manager
	watcher    *persist.Watcher

	focus  atomic.Int32
	source input.Source
}

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty means the conventional
	// location.
	ConfigPath string

	// LogLevel overrides the configured log level when non-empty.
	LogLevel string

	// Store overrides the configured store backend when non-nil. Used by
	// tests and by callers embedding the subsystem.
	Store persist.Store
}

// New creates an application with all components wired.
func New(opts Options) (*Application, error) {
	app := &Application{}

	if err := app.bootstrap(opts); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(level)
	app.logger = NewLogger(logCfg)

	if err := app.openStore(opts); err != nil {
		return &InitError{Component: "store", Err: err}
	}

	registry, err := persist.Load(app.store)
	if err != nil {
		// Load always hands back a usable registry; the error only says
		// what was ignored.
		app.logger.Warn("keybindings degraded to defaults: %v", err)
	}
	app.registry = registry

	app.bus = event.NewBus(
		event.WithPanicHandler(func(n event.Notification, r any) {
			app.logger.Error("listener panic on %s: %v", n.Action, r)
		}),
		event.WithErrorHandler(func(n event.Notification, err error) {
			app.logger.Warn("listener error on %s: %v", n.Action, err)
		}),
	)

	app.dispatcher = input.NewDispatcher(app.registry, app.bus)
	app.capture = input.NewRebindCapture(app.registry, app.store)
	app.dispatcher.AddInterceptor(app.capture)

	app.plugins = plugin.NewManager(app.registry, app.bus,
		plugin.WithDisabled(cfg.Plugins.Disabled),
		plugin.WithLogf(func(format string, args ...any) {
			app.logger.WithComponent("plugin").Info(format, args...)
		}),
	)
	if err := app.plugins.LoadDir(cfg.Plugins.Dir); err != nil {
		// A broken plugin is not fatal to the application.
		app.logger.Warn("plugin load: %v", err)
	}

	if err := app.startWatcher(); err != nil {
		app.logger.Warn("bindings watcher unavailable: %v", err)
	}

	return nil
}

// openStore builds the settings store from the configuration.
func (app *Application) openStore(opts Options) error {
	if opts.Store != nil {
		app.store = opts.Store
		return nil
	}

	switch app.cfg.Store {
	case config.StoreFile:
		app.store = persist.NewFileStore(app.cfg.DataDir)
	case config.StoreSQLite:
		s, err := persist.OpenSQLiteStore(app.cfg.Database())
		if err != nil {
			return err
		}
		app.store = s
		app.storeClose = s.Close
	case config.StoreMemory:
		app.store = persist.NewMemoryStore()
	default:
		return fmt.Errorf("unknown store backend %q", app.cfg.Store)
	}
	return nil
}

// startWatcher reloads bindings when the record file changes on disk.
func (app *Application) startWatcher() error {
	if !app.cfg.WatchBindings {
		return nil
	}
	fs, ok := app.store.(*persist.FileStore)
	if !ok {
		return nil
	}

	w, err := persist.NewWatcher(fs, persist.RecordName, app.reloadBindings)
	if err != nil {
		return err
	}
	app.watcher = w
	return nil
}

// reloadBindings re-reads the persisted record into the live registry.
func (app *Application) reloadBindings() {
	fresh, err := persist.Load(app.store)
	if err != nil {
		app.logger.Warn("bindings reload degraded: %v", err)
	}
	app.registry.Adopt(fresh)
	app.logger.Info("keybindings reloaded from store")
}

// SetSource attaches the key event source consumed by Run.
func (app *Application) SetSource(src input.Source) {
	app.source = src
}

// Run consumes key events until the context is cancelled or the source
// closes.
func (app *Application) Run(ctx context.Context) error {
	if app.source == nil {
		return fmt.Errorf("no input source attached")
	}
	return app.dispatcher.Run(ctx, app.source)
}

// Shutdown releases all components. Safe to call on a partially initialized
// application and more than once.
func (app *Application) Shutdown() {
	if app.watcher != nil {
		_ = app.watcher.Close()
		app.watcher = nil
	}
	if app.plugins != nil {
		app.plugins.Close()
	}
	if app.source != nil {
		_ = app.source.Close()
		app.source = nil
	}
	if app.storeClose != nil {
		_ = app.storeClose()
		app.storeClose = nil
	}
}

// Focus returns the current focus classification.
func (app *Application) Focus() input.FocusKind {
	return input.FocusKind(app.focus.Load())
}

// SetFocus records the focus classification used for subsequent key events.
func (app *Application) SetFocus(f input.FocusKind) {
	app.focus.Store(int32(f))
}

// Registry returns the live binding registry.
func (app *Application) Registry() *keybind.Registry {
	return app.registry
}

// Bus returns the action bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Dispatcher returns the key event dispatcher.
func (app *Application) Dispatcher() *input.Dispatcher {
	return app.dispatcher
}

// Capture returns the rebind capture.
func (app *Application) Capture() *input.RebindCapture {
	return app.capture
}

// Plugins returns the plugin manager.
func (app *Application) Plugins() *plugin.Manager {
	return app.plugins
}

// Logger returns the application logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Config returns the loaded configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}
