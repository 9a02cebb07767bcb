// Package bootstrap wires the platform and domain components into a
// running server: an ordered init-step graph builds the application
// state, then the transport servers run under one errgroup until a
// signal arrives.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kokorod/internal/domain/eventbus"
	"kokorod/internal/domain/phoneme"
	"kokorod/internal/domain/registry"
	"kokorod/internal/domain/stream"
	"kokorod/internal/domain/synth"
	"kokorod/internal/domain/voice"
	platformconfig "kokorod/internal/platform/config"
	platformerrors "kokorod/internal/platform/errors"
	platformlogging "kokorod/internal/platform/logging"
	platformobservability "kokorod/internal/platform/observability"
	platformstorage "kokorod/internal/platform/storage"
)

type stepFn func(context.Context, *App) error

type initStep struct {
	ID        string
	Title     string
	DependsOn []string
	Kind      platformerrors.Kind
	Execute   stepFn
}

// App holds every initialised component. Build it with Load; callers
// own Close.
type App struct {
	Config     *platformconfig.Config
	ConfigPath string
	Logging    *platformlogging.Logger
	Logger     *slog.Logger
	Store      *platformstorage.Store
	Usage      *platformstorage.UsageRepository
	Resolver   *voice.Resolver
	Phonemizer *phoneme.Phonemizer
	Registry   *registry.Registry
	Engine     *synth.Engine
	Streams    *stream.Manager

	configOverride        string
	observabilityShutdown platformobservability.ShutdownFunc
}

// Load executes the init graph and returns the assembled application.
func Load(ctx context.Context, configPath string) (*App, error) {
	app := &App{configOverride: configPath}
	if err := executeInitSteps(ctx, InitGraph(), app); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// Close releases every component in reverse init order. Safe on a
// partially initialised App.
func (a *App) Close() {
	if a.Streams != nil {
		a.Streams.Shutdown()
	}
	if a.Registry != nil {
		if err := a.Registry.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("registry close failed", "error", err)
		}
	}
	eventbus.Shutdown()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil && a.Logger != nil {
			a.Logger.Warn("storage close failed", "error", err)
		}
	}
	if a.observabilityShutdown != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.observabilityShutdown(shutdownCtx); err != nil && a.Logger != nil {
			a.Logger.Warn("observability shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Logging != nil {
		_ = a.Logging.Close()
	}
}

func executeInitSteps(ctx context.Context, steps []initStep, app *App) error {
	if app == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "execute init steps", "nil bootstrap state")
	}

	completed := make(map[string]struct{}, len(steps))
	for _, step := range steps {
		for _, dep := range step.DependsOn {
			if _, ok := completed[dep]; !ok {
				return platformerrors.New(
					platformerrors.KindBootstrap,
					step.ID,
					fmt.Sprintf("dependency %s not satisfied", dep),
				)
			}
		}
		if step.Execute == nil {
			return platformerrors.New(platformerrors.KindBootstrap, step.ID, "missing execute function")
		}
		if err := step.Execute(ctx, app); err != nil {
			var typed *platformerrors.Error
			if errors.As(err, &typed) {
				return err
			}
			kind := step.Kind
			if kind == "" {
				kind = platformerrors.KindBootstrap
			}
			return platformerrors.Wrap(kind, step.ID, "bootstrap step failed", err)
		}
		completed[step.ID] = struct{}{}
	}
	return nil
}

// InitGraph returns the ordered initialisation steps. The listed
// dependencies document the data flow; execution is sequential.
func InitGraph() []initStep {
	return []initStep{
		{
			ID:      "config:load",
			Title:   "Load configuration",
			Kind:    platformerrors.KindConfig,
			Execute: loadConfigStep,
		},
		{
			ID:        "logging:init",
			Title:     "Initialise logging",
			DependsOn: []string{"config:load"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initLoggingStep,
		},
		{
			ID:        "observability:setup",
			Title:     "Setup observability hooks",
			DependsOn: []string{"logging:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   setupObservabilityStep,
		},
		{
			ID:        "storage:open",
			Title:     "Open usage store",
			DependsOn: []string{"logging:init"},
			Kind:      platformerrors.KindStorage,
			Execute:   openStorageStep,
		},
		{
			ID:        "voices:load",
			Title:     "Load voice pack",
			DependsOn: []string{"logging:init"},
			Kind:      platformerrors.KindResourceMissing,
			Execute:   loadVoicesStep,
		},
		{
			ID:        "phoneme:init",
			Title:     "Initialise G2P backends",
			DependsOn: []string{"logging:init"},
			Kind:      platformerrors.KindPhonemizerUnavailable,
			Execute:   initPhonemeStep,
		},
		{
			ID:        "registry:init",
			Title:     "Load model sessions",
			DependsOn: []string{"logging:init"},
			Kind:      platformerrors.KindResourceMissing,
			Execute:   initRegistryStep,
		},
		{
			ID:        "engine:init",
			Title:     "Assemble synthesis engine",
			DependsOn: []string{"voices:load", "phoneme:init", "registry:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initEngineStep,
		},
		{
			ID:        "stream:init",
			Title:     "Start stream manager",
			DependsOn: []string{"engine:init"},
			Kind:      platformerrors.KindBootstrap,
			Execute:   initStreamStep,
		},
	}
}

func loadConfigStep(_ context.Context, app *App) error {
	loader := platformconfig.NewLoader()
	if app.configOverride != "" {
		loader = loader.WithPath(app.configOverride)
	}
	result, err := loader.Load()
	if err != nil {
		return err
	}
	app.Config = result.Config
	app.ConfigPath = result.Path
	return nil
}

func initLoggingStep(_ context.Context, app *App) error {
	if app.Config == nil {
		return platformerrors.New(platformerrors.KindBootstrap, "logging:init", "config not loaded")
	}
	logging, err := platformlogging.New(platformlogging.Config{
		Level:    app.Config.Log.Level,
		Dir:      app.Config.Log.Dir,
		Filename: app.Config.Log.File,
		Format:   app.Config.Log.Format,
	})
	if err != nil {
		return err
	}
	app.Logging = logging
	app.Logger = logging.Slog()

	source := app.ConfigPath
	if source == "" {
		source = "defaults"
	}
	app.Logger.Info("logging ready", "level", app.Config.Log.Level, "config", source)
	return nil
}

func setupObservabilityStep(ctx context.Context, app *App) error {
	shutdown, err := platformobservability.Setup(ctx, platformobservability.Config{
		Enabled: app.Config.Observability.Enabled,
	}, app.Logging.Component("observability"))
	if err != nil {
		return err
	}
	app.observabilityShutdown = shutdown
	return nil
}

func openStorageStep(_ context.Context, app *App) error {
	if !app.Config.Storage.Enabled {
		app.Logger.Info("usage storage disabled")
		return nil
	}
	store, err := platformstorage.Open(app.Config.Storage.DSN)
	if err != nil {
		return err
	}
	app.Store = store
	app.Usage = platformstorage.NewUsageRepository(store.DB())

	recorder := eventbus.NewUsageRecorder(app.Usage, app.Logging.Component("usage"))
	if err := recorder.Register(); err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "storage:open", "register usage recorder", err)
	}
	app.Logger.Info("usage store ready", "dsn", app.Config.Storage.DSN)
	return nil
}

func loadVoicesStep(_ context.Context, app *App) error {
	pack, err := voice.LoadPack(app.Config.Voices.Pack)
	if err != nil {
		return err
	}
	resolver, err := voice.NewResolver(pack, app.Config.Voices.MixCacheSize)
	if err != nil {
		return err
	}
	app.Resolver = resolver
	app.Logger.Info("voice pack loaded", "path", app.Config.Voices.Pack, "voices", pack.Count())
	eventbus.PublishAsync(eventbus.EventPackLoaded, eventbus.ModelEventData{
		Path:   app.Config.Voices.Pack,
		Voices: pack.Count(),
	})
	return nil
}

func initPhonemeStep(_ context.Context, app *App) error {
	phon, err := phoneme.New(phoneme.Config{
		EspeakPath:    app.Config.Engine.Espeak.Path,
		EspeakDataDir: app.Config.Engine.Espeak.DataDir,
		EspeakTimeout: app.Config.EspeakTimeoutDuration(),
	})
	if err != nil {
		return err
	}
	if err := phon.Probe(); err != nil {
		// espeak only covers the non-CJK languages; keep starting so
		// zh/ja synthesis still works, and surface per-request errors.
		app.Logger.Warn("espeak-ng not available, non-CJK languages will fail", "error", err)
	}
	app.Phonemizer = phon
	return nil
}

func initRegistryStep(_ context.Context, app *App) error {
	reg, err := registry.New(app.Config.Model, app.Logging.Component("registry"))
	if err != nil {
		return err
	}
	app.Registry = reg
	app.Logger.Info("model registry ready",
		"active", string(reg.Active()), "variants", len(reg.Variants()))
	return nil
}

func initEngineStep(_ context.Context, app *App) error {
	driver := synth.NewDriver(app.Registry, app.Config.InferTimeoutDuration())
	app.Engine = synth.NewEngine(app.Resolver, app.Phonemizer, driver, app.Registry, synth.Options{
		DefaultVoice: app.Config.Voices.DefaultVoice,
		DefaultSpeed: app.Config.Engine.DefaultSpeed,
		CrossfadeMs:  app.Config.Engine.CrossfadeMs,
	}, app.Logging.Component("synth"))
	return nil
}

func initStreamStep(_ context.Context, app *App) error {
	app.Streams = stream.NewManager(app.Engine, stream.Options{
		Inflight: app.Config.Engine.StreamInflight,
	}, app.Logging.Component("stream"))
	return nil
}
