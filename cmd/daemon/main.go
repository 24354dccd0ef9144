package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/genricoloni/spotink/internal/buttons"
	"github.com/genricoloni/spotink/internal/composer"
	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
	"github.com/genricoloni/spotink/internal/fetcher"
	"github.com/genricoloni/spotink/internal/idle"
	"github.com/genricoloni/spotink/internal/monitor"
	"github.com/genricoloni/spotink/internal/panel"
	"github.com/genricoloni/spotink/internal/scheduler"
	"github.com/genricoloni/spotink/internal/spotify"
	"github.com/genricoloni/spotink/internal/tracker"
)

// AppOptions is the full dependency graph of the daemon
var AppOptions = fx.Options(
	fx.Provide(
		config.New,
		newLogger,

		// Spotify session, shared by the provider, the buttons and the refresher
		spotify.ProvideTokenStore,
		spotify.NewClient,
		spotify.NewRefresher,

		// Render pipeline
		newProvider,
		fx.Annotate(fetcher.NewHTTPFetcher, fx.As(new(domain.CoverFetcher))),
		fx.Annotate(composer.NewComposer, fx.As(new(scheduler.Composer))),
		idle.NewCycler,
		func(c *idle.Cycler) scheduler.IdleSource { return c },
		newPanel,
		tracker.NewTracker,
		tracker.NewRefreshCounter,
		scheduler.NewScheduler,

		newWorkers,
	),
	fx.Invoke(func(cfg *config.Config, logger *zap.Logger) { cfg.LogFields(logger) }),
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		AppOptions,
	)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "spotink: %v\n", err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "spotink: shutdown: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the zap logger from log_level and log_format
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, &domain.ConfigError{Key: "log_level", Err: err}
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Log.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// newProvider selects the now-playing source
func newProvider(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config, client *spotify.Client) domain.NowPlayingProvider {
	if cfg.Provider == "mpris" {
		p := monitor.NewMprisProvider(logger.Named("mpris"), cfg)
		lc.Append(fx.StopHook(p.Close))
		return p
	}
	return spotify.NewProvider(logger.Named("spotify"), client)
}

// newPanel opens the display and releases it once the workers are gone.
// Hooks run in reverse order on stop, so this one runs after the workers' hook.
func newPanel(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (domain.PanelDriver, error) {
	drv, err := panel.New(logger.Named("panel"), cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() error {
		logger.Info("Putting panel to sleep")
		return drv.Close()
	}))
	return drv, nil
}

type workerParams struct {
	fx.In

	Logger    *zap.Logger
	Config    *config.Config
	Scheduler *scheduler.Scheduler
	Cycler    *idle.Cycler
	Refresher *spotify.Refresher
	Client    *spotify.Client
}

// newWorkers lists the long-lived tasks enabled by the configuration
func newWorkers(p workerParams) ([]domain.Worker, error) {
	workers := []domain.Worker{p.Scheduler}

	if p.Config.Idle.Mode == config.IdleCycle {
		workers = append(workers, p.Cycler)
	}
	if p.Config.Provider == "spotify" || p.Config.Buttons.Enabled {
		workers = append(workers, p.Refresher)
	}
	if p.Config.Buttons.Enabled {
		pins, err := buttons.OpenPins(p.Config.Buttons.Pins)
		if err != nil {
			return nil, err
		}
		handler := buttons.NewHandler(p.Logger.Named("buttons"), p.Client)
		poller, err := buttons.NewPoller(p.Logger.Named("buttons"), p.Config.Buttons, pins, handler)
		if err != nil {
			return nil, err
		}
		workers = append(workers, poller)
	}
	return workers, nil
}

// registerHooks starts every worker in its own goroutine and stops them by
// cancelling their shared context.
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, workers []domain.Worker) {
	var (
		cancel context.CancelFunc
		group  errgroup.Group
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// the start context expires once startup is over, workers need their own
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())

			for _, w := range workers {
				group.Go(func() error {
					logger.Info("Worker started", zap.String("worker", w.Name()))
					if err := w.Run(runCtx); err != nil {
						logger.Error("Worker failed", zap.String("worker", w.Name()), zap.Error(err))
						return fmt.Errorf("%s: %w", w.Name(), err)
					}
					logger.Info("Worker stopped", zap.String("worker", w.Name()))
					return nil
				})
			}
			logger.Info("spotink daemon started", zap.Int("workers", len(workers)))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			cancel()

			done := make(chan error, 1)
			go func() { done <- group.Wait() }()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return multierr.Append(errors.New("workers did not stop in time"), ctx.Err())
			}
		},
	})
}
