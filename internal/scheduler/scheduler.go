// Package scheduler runs the render loop: fetch, compare, compose, display.
package scheduler

import (
	"context"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
	"github.com/genricoloni/spotink/internal/tracker"
)

// Caption shown over the default image in static idle mode
const (
	IdleTitle  = "spotink"
	IdleArtist = "No song playing"
)

// Composer builds the panel bitmap
type Composer interface {
	Compose(src image.Image, title, artist string) (*image.NRGBA, error)
}

// IdleSource hands out idle images
type IdleSource interface {
	// Next returns the next idle image and its path
	Next() (image.Image, string, error)
	// Default returns the fallback image
	Default() (image.Image, error)
}

// Scheduler orchestrates the render pipeline. All of its state is owned by
// the goroutine running Run; ticks never overlap.
type Scheduler struct {
	logger   *zap.Logger
	provider domain.NowPlayingProvider
	covers   domain.CoverFetcher
	composer Composer
	idle     IdleSource
	panel    domain.PanelDriver
	tracker  *tracker.Tracker
	counter  *tracker.RefreshCounter

	interval time.Duration
	idleCfg  config.IdleConfig
	now      func() time.Time
	lastIdle time.Time // zero until an idle image is shown, reset by an active render
}

// NewScheduler creates the render loop
func NewScheduler(
	logger *zap.Logger,
	cfg *config.Config,
	provider domain.NowPlayingProvider,
	covers domain.CoverFetcher,
	comp Composer,
	idle IdleSource,
	panel domain.PanelDriver,
	tr *tracker.Tracker,
	counter *tracker.RefreshCounter,
) *Scheduler {
	return &Scheduler{
		logger:   logger,
		provider: provider,
		covers:   covers,
		composer: comp,
		idle:     idle,
		panel:    panel,
		tracker:  tr,
		counter:  counter,
		interval: cfg.PollInterval,
		idleCfg:  cfg.Idle,
		now:      time.Now,
	}
}

// Name implements domain.Worker
func (s *Scheduler) Name() string { return "scheduler" }

// Run cleans the panel once, then ticks every poll interval until ctx is cancelled.
// It only returns nil: every tick-level failure is logged and the loop goes on.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("Scheduler starting...", zap.Duration("interval", s.interval))

	if err := s.panel.Clean(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("Initial panel clean failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			break
		}
		s.tick(ctx)

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	s.logger.Info("Scheduler loop stopped")
	return nil
}

// tick runs one poll
func (s *Scheduler) tick(ctx context.Context) {
	snap, err := s.provider.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("Failed to fetch now playing", zap.Error(err))
	}

	d := s.tracker.Observe(snap, err)
	if d.Render {
		s.render(ctx, d)
		return
	}

	if s.idleDue() {
		s.rotateIdle(ctx)
	}
}

// render builds and shows the bitmap requested by the tracker
func (s *Scheduler) render(ctx context.Context, d tracker.Decision) {
	var img image.Image
	if d.Idle() {
		s.logger.Info("Nothing playing, showing idle screen")
		img = s.idleFrame()
	} else {
		s.logger.Info("Playback changed",
			zap.String("kind", string(d.Snapshot.Kind)),
			zap.String("title", d.Snapshot.Title),
			zap.String("artist", d.Snapshot.Artist))
		img = s.activeFrame(ctx, d.Snapshot)
	}
	if img == nil {
		return
	}

	if !s.show(ctx, img) {
		return
	}
	s.tracker.Commit(d)

	if d.Idle() {
		s.lastIdle = s.now()
	} else {
		s.lastIdle = time.Time{}
	}
}

// idleDue reports whether the idle screen should be redrawn without a state change.
// The first idle frame is always due; in cycle mode the next one is due
// once idle_display_time has elapsed.
func (s *Scheduler) idleDue() bool {
	if s.tracker.State() != tracker.StateIdle {
		return false
	}
	if s.lastIdle.IsZero() {
		return true
	}
	return s.idleCfg.Mode == config.IdleCycle && s.now().Sub(s.lastIdle) >= s.idleCfg.DisplayTime
}

func (s *Scheduler) rotateIdle(ctx context.Context) {
	img := s.idleFrame()
	if img == nil {
		return
	}
	if s.show(ctx, img) {
		s.lastIdle = s.now()
	}
}

// idleFrame composes the idle screen: the next cycled image without text,
// or the default image with the static caption.
func (s *Scheduler) idleFrame() image.Image {
	if s.idleCfg.Mode == config.IdleCycle {
		src, path, err := s.idle.Next()
		if err != nil {
			s.logger.Error("No idle image available", zap.Error(err))
			return nil
		}
		s.logger.Info("Displaying idle image", zap.String("path", path))
		return s.compose(src, "", "")
	}

	src, err := s.idle.Default()
	if err != nil {
		s.logger.Error("Default idle image unavailable", zap.Error(err))
		return nil
	}
	return s.compose(src, IdleTitle, IdleArtist)
}

// activeFrame composes the cover with title and artist. An unusable cover
// is replaced by the default image, keeping the text.
func (s *Scheduler) activeFrame(ctx context.Context, snap domain.Snapshot) image.Image {
	cover, err := s.covers.Fetch(ctx, snap.CoverURL)
	if err != nil {
		s.logger.Warn("Failed to fetch cover, using default image",
			zap.String("url", snap.CoverURL),
			zap.Error(err))
		if cover, err = s.idle.Default(); err != nil {
			s.logger.Error("Default idle image unavailable", zap.Error(err))
			return nil
		}
	}
	return s.compose(cover, snap.Title, snap.Artist)
}

// compose falls back to the default image with the same text when src cannot be composed
func (s *Scheduler) compose(src image.Image, title, artist string) image.Image {
	out, err := s.composer.Compose(src, title, artist)
	if err == nil {
		return out
	}
	s.logger.Warn("Composition failed, retrying with default image", zap.Error(err))

	def, derr := s.idle.Default()
	if derr != nil {
		s.logger.Error("Default idle image unavailable", zap.Error(derr))
		return nil
	}
	out, err = s.composer.Compose(def, title, artist)
	if err != nil {
		s.logger.Error("Composition of default image failed", zap.Error(err))
		return nil
	}
	return out
}

// show sends img to the panel, cleaning it first when the refresh counter says so.
// Panel calls are not interrupted by shutdown.
func (s *Scheduler) show(ctx context.Context, img image.Image) bool {
	pctx := context.WithoutCancel(ctx)

	if s.counter.Tick() {
		s.logger.Info("Refresh threshold reached, cleaning panel")
		if err := s.panel.Clean(pctx); err != nil {
			s.logger.Error("Panel clean failed", zap.Error(err))
		}
	}

	if err := s.panel.Display(pctx, img); err != nil {
		s.logger.Error("Panel display failed", zap.Error(err))
		return false
	}

	s.logger.Debug("Frame displayed", zap.Int("renders_since_clean", s.counter.Count()))
	return true
}
