package buttons

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/domain"
)

var errNoPlaylists = errors.New("no playlists available")

// Handler executes button actions. It owns the playlist cursor: the current
// page of the user's playlists and the index of the next one to start.
type Handler struct {
	logger *zap.Logger
	ctrl   domain.PlaybackController

	page    domain.PlaylistPage
	pageURL string // "" for the first page
	loaded  bool
	cursor  int
}

// NewHandler creates a handler issuing commands through ctrl
func NewHandler(logger *zap.Logger, ctrl domain.PlaybackController) *Handler {
	return &Handler{logger: logger, ctrl: ctrl}
}

// Handle runs the command bound to action
func (h *Handler) Handle(ctx context.Context, action domain.Action) error {
	switch action {
	case domain.ActionNext:
		return h.ctrl.Next(ctx)
	case domain.ActionPrevious:
		return h.ctrl.Previous(ctx)
	case domain.ActionTogglePlayback:
		return h.toggle(ctx)
	case domain.ActionNextPlaylist:
		return h.nextPlaylist(ctx)
	default:
		return fmt.Errorf("unknown action %d", action)
	}
}

// toggle resumes playback; the API refuses that while already playing, so pause then
func (h *Handler) toggle(ctx context.Context) error {
	playErr := h.ctrl.Play(ctx, "")
	if playErr == nil {
		return nil
	}
	h.logger.Debug("Play refused, pausing instead", zap.Error(playErr))
	return h.ctrl.Pause(ctx)
}

// nextPlaylist starts the playlist under the cursor and advances it. Past the
// last item of a page the next page is loaded; past the last page the cursor
// goes back to the first one.
func (h *Handler) nextPlaylist(ctx context.Context) error {
	if !h.loaded {
		if err := h.load(ctx, ""); err != nil {
			return err
		}
	}
	if len(h.page.Items) == 0 {
		// the library may have changed since the last fetch
		h.loaded = false
		return errNoPlaylists
	}

	playlist := h.page.Items[h.cursor]
	h.logger.Info("Starting playlist",
		zap.Int("index", h.cursor+1),
		zap.String("name", playlist.Name),
		zap.String("uri", playlist.URI))

	if err := h.ctrl.Play(ctx, playlist.URI); err != nil {
		return err
	}

	h.cursor++
	if h.cursor < len(h.page.Items) {
		return nil
	}

	next := h.page.Next
	if next == "" && h.pageURL == "" {
		// a single page, just wrap
		h.cursor = 0
		return nil
	}
	if err := h.load(ctx, next); err != nil {
		h.logger.Warn("Failed to load the next playlist page, wrapping on the current one", zap.Error(err))
		h.cursor = 0
	}
	return nil
}

func (h *Handler) load(ctx context.Context, pageURL string) error {
	page, err := h.ctrl.Playlists(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to load playlists: %w", err)
	}
	h.page = page
	h.pageURL = pageURL
	h.loaded = true
	h.cursor = 0

	h.logger.Debug("Playlist page loaded",
		zap.Int("items", len(page.Items)),
		zap.Bool("has_next", page.Next != ""))
	return nil
}
