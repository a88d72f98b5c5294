package app

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/vk/launchgo/internal/actions"
	"github.com/vk/launchgo/internal/ctxlog"
	"github.com/vk/launchgo/internal/frontend"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/registry"
	"github.com/vk/launchgo/internal/service"
	"github.com/vk/launchgo/internal/substitution"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: an isolated logger, the extension registry, the launch-file
// loader, and the service that executes the result.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	loader   *frontend.Loader
	service  *service.Service
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg, outW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All modules registered.", "count", len(modules), "kinds", reg.ActionKinds())

	svc := service.New(service.Config{
		ShutdownGrace: cfg.ShutdownGrace,
		ExitWhenIdle:  true,
	})

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		loader:   frontend.NewLoader(reg),
		service:  svc,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Service returns the application's launch service. This is primarily for
// testing.
func (a *App) Service() *service.Service {
	return a.service
}

// Run loads the launch description and executes it to completion. Argument
// overrides from the configuration are applied before the description so
// that declared defaults lose against them.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	desc, err := a.loader.Load(ctx, cfg.LaunchPath)
	if err != nil {
		return err
	}
	a.logger.Debug("Launch description loaded.", "path", cfg.LaunchPath, "entities", len(desc.Entities()))

	entities := overrideEntities(cfg.Arguments)
	entities = append(entities, desc.Entities()...)
	if err := a.service.Include(launch.NewDescription(entities...)); err != nil {
		return err
	}

	return a.service.Run(ctx)
}

// overrideEntities turns argument overrides into configuration writes,
// ordered by name for deterministic execution.
func overrideEntities(overrides map[string]string) []launch.Entity {
	if len(overrides) == 0 {
		return nil
	}
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	entities := make([]launch.Entity, 0, len(names))
	for _, name := range names {
		entities = append(entities, actions.NewSetConfiguration(
			substitution.TextList(name),
			substitution.TextList(overrides[name]),
		))
	}
	return entities
}
