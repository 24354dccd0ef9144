//go:build linux

package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
)

const (
	objectPath     = "/org/mpris/MediaPlayer2"
	metadataProp   = "org.mpris.MediaPlayer2.Player.Metadata"
	statusProp     = "org.mpris.MediaPlayer2.Player.PlaybackStatus"
	serviceUnknown = "org.freedesktop.DBus.Error.ServiceUnknown"
)

// MprisProvider reports what a local MPRIS player (the Spotify desktop client by default)
// is playing, by reading its properties on the session bus at every poll.
type MprisProvider struct {
	logger *zap.Logger
	player string
	dial   func() (DBusClient, error)

	mu   sync.Mutex
	conn DBusClient // Lazily dialed, dropped on bus errors
}

// NewMprisProvider creates a provider for the player named by mpris_player
func NewMprisProvider(logger *zap.Logger, cfg *config.Config) *MprisProvider {
	return &MprisProvider{
		logger: logger,
		player: cfg.MprisPlayer,
		dial:   NewStdDBusClient,
	}
}

// Fetch reads Metadata and PlaybackStatus from the player.
// A player that is not running is nothing playing, not an error.
func (m *MprisProvider) Fetch(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, &domain.FetchError{Op: "mpris", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		conn, err := m.dial()
		if err != nil {
			return domain.Snapshot{}, &domain.FetchError{Op: "mpris", Err: fmt.Errorf("session bus connection failed: %w", err)}
		}
		m.conn = conn
		m.logger.Info("Connected to session bus", zap.String("player", m.player))
	}

	statusVariant, err := m.conn.GetProperty(m.player, objectPath, statusProp)
	if err != nil {
		return m.handleBusError(err)
	}
	status, ok := statusVariant.Value().(string)
	if !ok {
		return domain.Snapshot{}, &domain.FetchError{Op: "mpris", Err: fmt.Errorf("invalid playback status format")}
	}
	if status == "Stopped" {
		return domain.Nothing, nil
	}

	variant, err := m.conn.GetProperty(m.player, objectPath, metadataProp)
	if err != nil {
		return m.handleBusError(err)
	}

	// SAFE CAST: Some players may return nil or unexpected types if not playing anything
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		m.logger.Debug("Metadata variant is not a map", zap.String("player", m.player))
		return domain.Nothing, nil
	}

	return m.parseMetadata(metadata), nil
}

// Close releases the bus connection
func (m *MprisProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

func (m *MprisProvider) handleBusError(err error) (domain.Snapshot, error) {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) && dbusErr.Name == serviceUnknown {
		m.logger.Debug("Player is not running", zap.String("player", m.player))
		return domain.Nothing, nil
	}

	// the connection may be broken, dial again on the next poll
	if cerr := m.conn.Close(); cerr != nil {
		m.logger.Warn("Failed to close D-Bus connection", zap.Error(cerr))
	}
	m.conn = nil
	return domain.Snapshot{}, &domain.FetchError{Op: "mpris", Err: err}
}

// parseMetadata converts MPRIS metadata to a snapshot
func (m *MprisProvider) parseMetadata(metadata map[string]dbus.Variant) domain.Snapshot {
	snap := domain.Snapshot{Kind: domain.KindTrack}

	// Spotify encodes the item type in the track id, either as an object path
	// (/com/spotify/ad/...) or as a URI (spotify:ad:...)
	if idVar, ok := metadata["mpris:trackid"]; ok {
		var id string
		switch v := idVar.Value().(type) {
		case dbus.ObjectPath:
			id = string(v)
		case string:
			id = v
		}
		switch trackType(id) {
		case "ad":
			return domain.Nothing
		case "episode":
			snap.Kind = domain.KindEpisode
		}
	}

	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok {
			snap.Title = title
		}
	}

	// Extract artist (can be an array)
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			snap.Artist = strings.Join(artists, ", ")
		case string:
			snap.Artist = artists
		default:
			// Some non-compliant players may use unexpected types
			m.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}
	if snap.Artist == "" && snap.Kind == domain.KindEpisode {
		if albumVar, ok := metadata["xesam:album"]; ok {
			if album, ok := albumVar.Value().(string); ok {
				snap.Artist = album
			}
		}
	}

	if artVar, ok := metadata["mpris:artUrl"]; ok {
		if artURL, ok := artVar.Value().(string); ok {
			snap.CoverURL = artURL
		}
	}

	if snap.Title == "" && snap.CoverURL == "" {
		return domain.Nothing
	}
	return snap
}

// trackType extracts the item type from a Spotify track id
func trackType(id string) string {
	for _, typ := range []string{"ad", "episode", "track"} {
		if strings.Contains(id, "/"+typ+"/") || strings.Contains(id, ":"+typ+":") {
			return typ
		}
	}
	return ""
}
