package spotify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/domain"
)

const (
	_refreshInterval = 5 * time.Minute
	_refreshMargin   = 5 * time.Minute
)

type keepAliveClient interface {
	Player(ctx context.Context) (bool, error)
}

type tokenRefresher interface {
	RefreshIfExpiring(ctx context.Context, margin time.Duration) (bool, error)
}

// Refresher keeps the access token fresh and the Spotify session warm.
// Failures are logged; the next round tries again.
type Refresher struct {
	logger   *zap.Logger
	tokens   tokenRefresher
	client   keepAliveClient
	interval time.Duration
}

// NewRefresher creates the token refresh and keep-alive worker
func NewRefresher(logger *zap.Logger, tokens *TokenStore, client *Client) *Refresher {
	return &Refresher{
		logger:   logger,
		tokens:   tokens,
		client:   client,
		interval: _refreshInterval,
	}
}

// Name implements domain.Worker
func (r *Refresher) Name() string { return "token-refresher" }

// Run refreshes immediately and then every interval until ctx is cancelled
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("Token refresher started", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		r.round(ctx)

		select {
		case <-ctx.Done():
			r.logger.Info("Token refresher stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Refresher) round(ctx context.Context) {
	refreshed, err := r.tokens.RefreshIfExpiring(ctx, _refreshMargin)
	switch {
	case errors.Is(err, domain.ErrNoToken):
		r.logger.Error("No saved token found, run the authorize command once", zap.Error(err))
		return
	case err != nil:
		r.logger.Error("Token refresh failed", zap.Error(err))
		return
	case refreshed:
		r.logger.Info("Token was about to expire and has been refreshed")
	}

	active, err := r.client.Player(ctx)
	if err != nil {
		r.logger.Warn("Keep-alive request failed", zap.Error(err))
		return
	}
	r.logger.Debug("Keep-alive sent", zap.Bool("active_playback", active))
}
