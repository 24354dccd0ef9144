package scheduler

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
	"github.com/genricoloni/spotink/internal/domain/mocks"
	"github.com/genricoloni/spotink/internal/tracker"
)

var (
	songA = domain.Snapshot{Kind: domain.KindTrack, Title: "Song A", Artist: "Artist X", CoverURL: "http://x/1.png"}
	songB = domain.Snapshot{Kind: domain.KindTrack, Title: "Song B", Artist: "Artist X", CoverURL: "http://x/2.png"}
)

func solid(c color.Gray) image.Image {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = c.Y
	}
	return img
}

var (
	coverImg   = solid(color.Gray{Y: 10})
	defaultImg = solid(color.Gray{Y: 20})
	brokenImg  = solid(color.Gray{Y: 30})
)

type composeCall struct {
	src    image.Image
	title  string
	artist string
}

// fakeComposer records its calls and refuses brokenImg
type fakeComposer struct {
	mu    sync.Mutex
	calls []composeCall
}

func (f *fakeComposer) Compose(src image.Image, title, artist string) (*image.NRGBA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, composeCall{src: src, title: title, artist: artist})
	if src == brokenImg {
		return nil, &domain.DecodeError{Source: "test", Err: errors.New("bad pixels")}
	}
	return image.NewNRGBA(image.Rect(0, 0, 8, 8)), nil
}

// fakeIdle cycles over paths; every image it returns is defaultImg
type fakeIdle struct {
	paths  []string
	cursor int
	err    error
}

func (f *fakeIdle) Next() (image.Image, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	p := f.paths[f.cursor%len(f.paths)]
	f.cursor++
	return defaultImg, p, nil
}

func (f *fakeIdle) Default() (image.Image, error) {
	if f.err != nil {
		return nil, f.err
	}
	return defaultImg, nil
}

type harness struct {
	s        *Scheduler
	provider *mocks.MockNowPlayingProvider
	covers   *mocks.MockCoverFetcher
	panel    *mocks.MockPanelDriver
	comp     *fakeComposer
	idle     *fakeIdle
	clock    time.Time
}

func newHarness(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		provider: mocks.NewMockNowPlayingProvider(ctrl),
		covers:   mocks.NewMockCoverFetcher(ctrl),
		panel:    mocks.NewMockPanelDriver(ctrl),
		comp:     &fakeComposer{},
		idle:     &fakeIdle{paths: []string{"a.png", "b.png", "c.png"}},
		clock:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	h.s = NewScheduler(zap.NewNop(), cfg, h.provider, h.covers, h.comp, h.idle, h.panel,
		tracker.NewTracker(cfg), tracker.NewRefreshCounter(cfg))
	h.s.now = func() time.Time { return h.clock }
	return h
}

func testConfig() *config.Config {
	return &config.Config{
		PollInterval:     time.Millisecond,
		FetchErrorPolicy: config.PolicyIdle,
		Layout:           config.LayoutConfig{RefreshThreshold: 100},
		Idle:             config.IdleConfig{Mode: config.IdleCycle, DisplayTime: time.Hour},
	}
}

// polls scripts the provider answers in order
func (h *harness) polls(results ...any) {
	calls := make([]any, 0, len(results))
	for _, r := range results {
		switch v := r.(type) {
		case domain.Snapshot:
			calls = append(calls, h.provider.EXPECT().Fetch(gomock.Any()).Return(v, nil))
		case error:
			calls = append(calls, h.provider.EXPECT().Fetch(gomock.Any()).Return(domain.Snapshot{}, v))
		}
	}
	gomock.InOrder(calls...)
}

func (h *harness) ticks(n int) {
	for i := 0; i < n; i++ {
		h.s.tick(context.Background())
		h.clock = h.clock.Add(time.Second)
	}
}

func (h *harness) titles() []string {
	out := make([]string, 0, len(h.comp.calls))
	for _, c := range h.comp.calls {
		out = append(out, c.title)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScheduler_DuplicateThenChange(t *testing.T) {
	h := newHarness(t, testConfig())
	h.polls(songA, songA, songB)
	h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(coverImg, nil).Times(1)
	h.covers.EXPECT().Fetch(gomock.Any(), songB.CoverURL).Return(coverImg, nil).Times(1)
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	h.ticks(3)

	if got := h.titles(); !equal(got, []string{"Song A", "Song B"}) {
		t.Errorf("expected renders for Song A then Song B, got %v", got)
	}
}

func TestScheduler_NothingPlayingFromStartup(t *testing.T) {
	cfg := testConfig()
	cfg.Idle.DisplayTime = 0
	h := newHarness(t, cfg)
	h.polls(domain.Nothing, domain.Nothing, domain.Nothing)
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	h.ticks(3)

	if h.idle.cursor != 3 {
		t.Errorf("expected one idle image per tick, got %d selections", h.idle.cursor)
	}
	for _, c := range h.comp.calls {
		if c.title != "" || c.artist != "" {
			t.Errorf("expected cycled idle images without text, got %q/%q", c.title, c.artist)
		}
	}
	if h.s.tracker.State() != tracker.StateIdle {
		t.Errorf("expected idle state, got %s", h.s.tracker.State())
	}
}

func TestScheduler_ActiveToIdleRendersOnce(t *testing.T) {
	h := newHarness(t, testConfig()) // idle_display_time 1h
	h.polls(songA, domain.Nothing, domain.Nothing, domain.Nothing)
	h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(coverImg, nil)
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	h.ticks(4)

	if got := h.titles(); !equal(got, []string{"Song A", ""}) {
		t.Errorf("expected one song render and one idle render, got %v", got)
	}
}

func TestScheduler_IdleRotationIsPaced(t *testing.T) {
	cfg := testConfig()
	cfg.Idle.DisplayTime = 2 * time.Second
	h := newHarness(t, cfg)
	h.polls(domain.Nothing, domain.Nothing, domain.Nothing, domain.Nothing, domain.Nothing)
	// ticks are one second apart: images at t=0, t=2, t=4
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	h.ticks(5)

	if h.idle.cursor != 3 {
		t.Errorf("expected 3 idle selections, got %d", h.idle.cursor)
	}
}

func TestScheduler_StaticIdle(t *testing.T) {
	cfg := testConfig()
	cfg.Idle.Mode = config.IdleStatic
	cfg.Idle.DisplayTime = 0
	h := newHarness(t, cfg)
	h.polls(domain.Nothing, domain.Nothing, domain.Nothing)
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	h.ticks(3)

	if len(h.comp.calls) != 1 {
		t.Fatalf("expected a single static render, got %d", len(h.comp.calls))
	}
	c := h.comp.calls[0]
	if c.src != defaultImg || c.title != IdleTitle || c.artist != IdleArtist {
		t.Errorf("unexpected static idle composition %+v", c)
	}
	if h.idle.cursor != 0 {
		t.Error("static mode must not cycle")
	}
}

func TestScheduler_RefreshCounter(t *testing.T) {
	cfg := testConfig()
	cfg.Layout.RefreshThreshold = 1
	h := newHarness(t, cfg)
	songC := domain.Snapshot{Kind: domain.KindTrack, Title: "C", CoverURL: "http://x/3.png"}
	songD := domain.Snapshot{Kind: domain.KindTrack, Title: "D", CoverURL: "http://x/4.png"}
	h.polls(songA, songB, songC, songD)
	h.covers.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(coverImg, nil).Times(4)

	var order []string
	h.panel.EXPECT().Clean(gomock.Any()).DoAndReturn(func(context.Context) error {
		order = append(order, "clean")
		return nil
	}).Times(2)
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, image.Image) error {
		order = append(order, "display")
		return nil
	}).Times(4)

	h.ticks(4)

	expected := []string{"display", "clean", "display", "display", "clean", "display"}
	if !equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestScheduler_PanelErrorRetriesNextTick(t *testing.T) {
	h := newHarness(t, testConfig())
	h.polls(songA, songA, songA)
	h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(coverImg, nil).Times(2)
	gomock.InOrder(
		h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(&domain.PanelError{Op: "display", Err: errors.New("busy")}),
		h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil),
	)

	h.ticks(3)

	if h.s.tracker.Identity() != songA.Identity() {
		t.Errorf("expected Song A to be committed, got %s", h.s.tracker.Identity())
	}
}

func TestScheduler_CoverFailureUsesDefaultImage(t *testing.T) {
	h := newHarness(t, testConfig())
	h.polls(songA)
	h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).
		Return(nil, &domain.FetchError{Op: "cover", Err: errors.New("404")})
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil)

	h.ticks(1)

	if len(h.comp.calls) != 1 {
		t.Fatalf("expected one composition, got %d", len(h.comp.calls))
	}
	c := h.comp.calls[0]
	if c.src != defaultImg || c.title != songA.Title || c.artist != songA.Artist {
		t.Errorf("expected default image with the song text, got %+v", c)
	}
}

func TestScheduler_ComposeFailureFallsBack(t *testing.T) {
	h := newHarness(t, testConfig())
	h.polls(songA)
	h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(brokenImg, nil)
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil)

	h.ticks(1)

	if len(h.comp.calls) != 2 {
		t.Fatalf("expected a retry with the default image, got %d compositions", len(h.comp.calls))
	}
	retry := h.comp.calls[1]
	if retry.src != defaultImg || retry.title != songA.Title {
		t.Errorf("expected default image with original text, got %+v", retry)
	}
	if h.s.tracker.Identity() != songA.Identity() {
		t.Error("expected the fallback render to be committed")
	}
}

func TestScheduler_NoImageAtAllSkipsDisplay(t *testing.T) {
	h := newHarness(t, testConfig())
	h.idle.err = &domain.DecodeError{Source: "default.png", Err: errors.New("missing")}
	h.polls(songA)
	h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(nil, errors.New("404"))

	h.ticks(1)

	if h.s.tracker.Identity() != domain.NoSong {
		t.Error("nothing was displayed, identity must not move")
	}
}

func TestScheduler_FetchErrorPolicies(t *testing.T) {
	fetchErr := &domain.FetchError{Op: "currently playing", Err: errors.New("503")}

	t.Run("Idle policy shows the idle screen", func(t *testing.T) {
		h := newHarness(t, testConfig())
		h.polls(songA, fetchErr)
		h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(coverImg, nil)
		h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		h.ticks(2)

		if h.s.tracker.State() != tracker.StateIdle {
			t.Errorf("expected idle, got %s", h.s.tracker.State())
		}
	})

	t.Run("Hold policy keeps the last render", func(t *testing.T) {
		cfg := testConfig()
		cfg.FetchErrorPolicy = config.PolicyHold
		h := newHarness(t, cfg)
		h.polls(songA, fetchErr, songA)
		h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(coverImg, nil)
		h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		h.ticks(3)

		if h.s.tracker.State() != tracker.StateActive {
			t.Errorf("expected active, got %s", h.s.tracker.State())
		}
	})
}

func TestScheduler_Run(t *testing.T) {
	cfg := testConfig()
	h := newHarness(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	var fetches int
	var mu sync.Mutex

	h.panel.EXPECT().Clean(gomock.Any()).Return(nil).Times(1)
	h.provider.EXPECT().Fetch(gomock.Any()).DoAndReturn(func(context.Context) (domain.Snapshot, error) {
		mu.Lock()
		defer mu.Unlock()
		fetches++
		if fetches == 3 {
			cancel()
		}
		return songA, nil
	}).MinTimes(3)
	h.covers.EXPECT().Fetch(gomock.Any(), songA.CoverURL).Return(coverImg, nil).Times(1)
	h.panel.EXPECT().Display(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ image.Image) error {
		// panel calls survive cancellation
		if ctx.Err() != nil {
			t.Error("panel context must not be cancelled")
		}
		return nil
	}).Times(1)

	done := make(chan error, 1)
	go func() { done <- h.s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	if h.s.Name() != "scheduler" {
		t.Errorf("unexpected name %q", h.s.Name())
	}
}
