package spotify

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/domain"
)

const (
	_maxAttempts  = 10
	_retryBackoff = 10 * time.Millisecond
)

var errMalformed = errors.New("malformed currently playing payload")

type currentlyPlayingClient interface {
	CurrentlyPlaying(ctx context.Context) (*CurrentlyPlaying, error)
}

// Provider reports the Web API playback state as domain snapshots
type Provider struct {
	logger  *zap.Logger
	client  currentlyPlayingClient
	backoff time.Duration
}

// NewProvider creates a now-playing provider backed by the Web API
func NewProvider(logger *zap.Logger, client *Client) *Provider {
	return newProvider(logger, client)
}

func newProvider(logger *zap.Logger, client currentlyPlayingClient) *Provider {
	return &Provider{
		logger:  logger,
		client:  client,
		backoff: _retryBackoff,
	}
}

// Fetch returns the current snapshot. Payloads missing the fields we need are
// retried a bounded number of times, then reported as nothing playing.
func (p *Provider) Fetch(ctx context.Context) (domain.Snapshot, error) {
	for attempt := 1; attempt <= _maxAttempts; attempt++ {
		cp, err := p.client.CurrentlyPlaying(ctx)
		if err != nil {
			return domain.Snapshot{}, &domain.FetchError{Op: "currently playing", Err: err}
		}

		snap, err := normalize(cp)
		if err == nil {
			return snap, nil
		}

		p.logger.Debug("Incomplete playback state, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == _maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return domain.Snapshot{}, &domain.FetchError{Op: "currently playing", Err: ctx.Err()}
		case <-time.After(p.backoff):
		}
	}

	p.logger.Warn("Giving up on incomplete playback state", zap.Int("attempts", _maxAttempts))
	return domain.Nothing, nil
}

// normalize maps a Web API payload to a snapshot. Ads and unknown item
// types are nothing playing; missing fields are errMalformed.
func normalize(cp *CurrentlyPlaying) (domain.Snapshot, error) {
	if cp == nil {
		return domain.Nothing, nil
	}

	switch cp.CurrentlyPlayingType {
	case "track":
		if cp.Item == nil || cp.Item.Album == nil || len(cp.Item.Album.Images) == 0 {
			return domain.Snapshot{}, errMalformed
		}
		names := make([]string, 0, len(cp.Item.Artists))
		for _, a := range cp.Item.Artists {
			names = append(names, a.Name)
		}
		return domain.Snapshot{
			Kind:     domain.KindTrack,
			Title:    cp.Item.Name,
			Artist:   strings.Join(names, ", "),
			CoverURL: cp.Item.Album.Images[0].URL,
		}, nil

	case "episode":
		if cp.Item == nil || cp.Item.Show == nil || len(cp.Item.Images) == 0 {
			return domain.Snapshot{}, errMalformed
		}
		return domain.Snapshot{
			Kind:     domain.KindEpisode,
			Title:    cp.Item.Name,
			Artist:   cp.Item.Show.Name,
			CoverURL: cp.Item.Images[0].URL,
		}, nil

	default:
		// "ad", "unknown" and anything newer
		return domain.Nothing, nil
	}
}
