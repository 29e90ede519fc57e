// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/opsconsole/internal/config"
	"github.com/invowk/opsconsole/internal/issue"
	"github.com/invowk/opsconsole/internal/store"
	"github.com/invowk/opsconsole/pkg/builtin"
	"github.com/invowk/opsconsole/pkg/console"
)

type (
	// App wires CLI services and shared dependencies. All command handlers
	// receive an App and reach configuration, types and storage through it.
	App struct {
		Config    ConfigProvider
		Registry  *console.Registry
		OpenStore StoreOpener
		stdout    io.Writer
		stderr    io.Writer

		// Set from the persistent flags before any command runs.
		configPath string
		verbose    bool

		cfg    *config.Config
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		Registry  *console.Registry
		OpenStore StoreOpener
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Resolve(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// StoreOpener opens the console store described by cfg.
	StoreOpener func(ctx context.Context, cfg *config.Config, opts store.Options) (store.Store, error)
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registry == nil {
		deps.Registry = builtin.NewRegistry()
	}
	if deps.OpenStore == nil {
		deps.OpenStore = openConfiguredStore
	}
	return &App{
		Config:    deps.Config,
		Registry:  deps.Registry,
		OpenStore: deps.OpenStore,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		logger:    newLogger(deps.Stderr, log.InfoLevel),
	}
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// loadConfig loads the configuration once per App and sets the logger level
// from it. --verbose always selects debug.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, err
	}
	level, err := log.ParseLevel(string(cfg.LogLevel))
	if err != nil {
		level = log.InfoLevel
	}
	if a.verbose {
		level = log.DebugLevel
	}
	a.logger.SetLevel(level)
	a.cfg = cfg
	return cfg, nil
}

func (a *App) hydrateOptions(cfg *config.Config) console.HydrateOptions {
	return console.HydrateOptions{
		Loader:      a.Registry,
		Concurrency: cfg.Hydrate.Concurrency,
		Logger:      a.logger,
	}
}

// withStore loads the configuration, opens the store and runs fn with it.
// The store is closed when fn returns.
func (a *App) withStore(ctx context.Context, fn func(s store.Store) error) (err error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	s, err := a.OpenStore(ctx, cfg, store.Options{Hydrate: a.hydrateOptions(cfg)})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("open console store").
			WithResource(string(cfg.Store.Driver)).
			Wrap(err).
			BuildError()
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close console store: %w", closeErr)
		}
	}()
	return fn(s)
}

func openConfiguredStore(ctx context.Context, cfg *config.Config, opts store.Options) (store.Store, error) {
	path, err := cfg.StorePath()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, string(cfg.Store.Driver), path, opts)
}
