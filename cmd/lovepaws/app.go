package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"lovepaws/gateway/pkg/completion"
	"lovepaws/gateway/pkg/config"
	"lovepaws/gateway/pkg/credential"
	"lovepaws/gateway/pkg/limits/ratelimit"
	"lovepaws/gateway/pkg/limits/storage"
	"lovepaws/gateway/pkg/server"
	"lovepaws/gateway/pkg/telemetry/logging"
	"lovepaws/gateway/pkg/telemetry/metrics"
	"lovepaws/gateway/pkg/telemetry/tracing"
)

// app holds every long-lived component of a running server.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	creds   *credential.Holder
	tracer  *tracing.Tracer
	metrics *metrics.Collector
	store   storage.Store
	sweeper *storage.Sweeper
	watcher *credential.Watcher
	server  *server.Server
}

func newLogger(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		AddSource: cfg.AddSource,
		Writer:    w,
	})
}

// resolvePath makes p absolute relative to root.
func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if root == "" {
		root = "."
	}
	return filepath.Join(root, p)
}

// credentialSource builds the configured credential source.
func credentialSource(cfg config.CredentialConfig, root string, logger *slog.Logger) credential.Source {
	if cfg.Source == config.SourceEnv {
		return credential.NewEnvSource(cfg.EnvVar)
	}
	src := credential.NewFileSource(root, cfg.Path)
	src.Logger = logger
	return src
}

// loadCredential populates a holder. Failure is fatal at startup.
func loadCredential(ctx context.Context, cfg config.CredentialConfig, root string, logger *slog.Logger) (*credential.Holder, credential.Source, error) {
	src := credentialSource(cfg, root, logger)
	holder := credential.NewHolder()
	if err := holder.Load(ctx, src); err != nil {
		return nil, nil, fmt.Errorf("failed to load credential: %w", err)
	}
	return holder, src, nil
}

// buildApp constructs every component in dependency order. Components
// opened before a failure are closed again.
func buildApp(ctx context.Context, cfg *config.Config, root string, logger *slog.Logger) (a *app, err error) {
	a = &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = a.close(context.Background())
			a = nil
		}
	}()

	var src credential.Source
	a.creds, src, err = loadCredential(ctx, cfg.Credential, root, logger)
	if err != nil {
		return a, err
	}
	logger.Info("credential loaded", "source", src.Name(), "key", a.creds.Get().Masked())

	if cfg.Credential.Watch {
		if fileSrc, ok := src.(*credential.FileSource); ok {
			path, resolveErr := fileSrc.Resolve()
			if resolveErr != nil {
				return a, resolveErr
			}
			if a.watcher, err = credential.NewWatcher(path, logger); err != nil {
				return a, err
			}
		}
	}

	tel := cfg.Telemetry
	if a.tracer, err = tracing.New(tracing.Config{
		Enabled:        tel.Tracing.Enabled,
		Endpoint:       tel.Tracing.Endpoint,
		Insecure:       tel.Tracing.Insecure,
		SampleRatio:    tel.Tracing.SampleRatio,
		ServiceName:    tel.Tracing.ServiceName,
		ServiceVersion: Version,
	}); err != nil {
		return a, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tel.Metrics.Enabled {
		a.metrics = metrics.NewCollector(metrics.Config{
			Namespace:         tel.Metrics.Namespace,
			RuntimeCollectors: true,
		})
	}

	var limiter ratelimit.Limiter
	rl := cfg.Limits.RateLimit
	if rl.Enabled {
		st := cfg.Limits.Storage
		if a.store, err = storage.Open(storage.Options{
			Backend: st.Backend,
			Memory:  storage.MemoryConfig{MaxEntries: st.Memory.MaxEntries, Shards: st.Memory.Shards},
			SQLite: storage.SQLiteConfig{
				Path:        resolvePath(root, st.SQLite.Path),
				BusyTimeout: st.SQLite.BusyTimeout,
			},
		}); err != nil {
			return a, fmt.Errorf("failed to open rate limit store: %w", err)
		}

		limiter = ratelimit.NewWindowLimiter(a.store, ratelimit.Config{
			MaxRequests: rl.MaxRequests,
			Window:      rl.Window,
		})

		a.sweeper = storage.NewSweeper(a.store, st.SweepSchedule, rl.Window, logger)
		a.sweeper.OnSweep = a.metrics.RecordSweep
	}

	up := cfg.Upstream
	client := completion.NewHTTPClient(completion.Config{
		BaseURL:         up.BaseURL,
		Model:           up.Model,
		Temperature:     up.Temperature,
		Timeout:         up.Timeout,
		PersonaTemplate: up.PersonaTemplate,
	}, a.creds,
		completion.WithTracer(a.tracer),
		completion.WithMetrics(a.metrics),
		completion.WithLogger(logger),
	)

	a.server = server.NewServer(cfg, server.Dependencies{
		Completion: client,
		Limiter:    limiter,
		Metrics:    a.metrics,
		Tracer:     a.tracer,
		Logger:     logger,
	})

	return a, nil
}

// start launches the background jobs. They stop when ctx is cancelled.
func (a *app) start(ctx context.Context) error {
	if a.sweeper != nil {
		if err := a.sweeper.Start(ctx); err != nil {
			return err
		}
	}
	if a.watcher != nil {
		go a.watcher.Run(ctx)
	}
	return nil
}

// close releases every component. It is safe on a partially built app.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.sweeper != nil {
		a.sweeper.Stop()
	}
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
