package domain

import (
	"context"
	"image"
)

// NowPlayingProvider reports what the player is doing right now.
// Ads and unsupported item types are normalized to Nothing, never returned as errors.
//
//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/spotink/internal/domain NowPlayingProvider,CoverFetcher,PanelDriver,PlaybackController
type NowPlayingProvider interface {
	// Fetch returns the current snapshot or a *FetchError
	Fetch(ctx context.Context) (Snapshot, error)
}

// CoverFetcher retrieves and decodes artwork
type CoverFetcher interface {
	// Fetch downloads the image at url and decodes it
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// PanelDriver pushes bitmaps to the display hardware
type PanelDriver interface {
	// Clean runs a full refresh cycle to remove ghosting
	Clean(ctx context.Context) error

	// Display shows img on the panel
	Display(ctx context.Context, img image.Image) error

	// Close puts the panel to sleep and releases the bus
	Close() error
}

// PlaybackController issues playback commands on behalf of the buttons
type PlaybackController interface {
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	// Play resumes playback, or starts contextURI when it is not empty
	Play(ctx context.Context, contextURI string) error
	Pause(ctx context.Context) error
	// Playlists returns the page at pageURL, or the first page when pageURL is empty
	Playlists(ctx context.Context, pageURL string) (PlaylistPage, error)
}

// Worker is a long-lived task run by the daemon until ctx is cancelled
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}
