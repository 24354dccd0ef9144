package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
)

// Scopes requested by the authorize command
var Scopes = []string{
	"user-read-currently-playing",
	"user-read-playback-state",
	"user-modify-playback-state",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// Endpoint is the Spotify accounts service
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.spotify.com/authorize",
	TokenURL:  "https://accounts.spotify.com/api/token",
	AuthStyle: oauth2.AuthStyleInHeader,
}

// NewOAuthConfig builds the OAuth client configuration from the Spotify credentials
func NewOAuthConfig(cfg config.SpotifyConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint:     Endpoint,
	}
}

// cachedToken is the on-disk token cache layout, compatible with spotipy's .cache files
type cachedToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
}

// TokenStore owns the cached OAuth token. It is shared by the render loop,
// the button poller and the refresher; every access goes through mu.
type TokenStore struct {
	logger *zap.Logger
	oauth  *oauth2.Config
	path   string

	mu    sync.Mutex
	token *oauth2.Token
	now   func() time.Time
}

// NewTokenStore creates a store for the token cache at path.
// The cache is read lazily so the daemon can start before the authorize command ran.
func NewTokenStore(logger *zap.Logger, oauth *oauth2.Config, path string) *TokenStore {
	return &TokenStore{
		logger: logger,
		oauth:  oauth,
		path:   path,
		now:    time.Now,
	}
}

// ProvideTokenStore wires a TokenStore from the application config
func ProvideTokenStore(logger *zap.Logger, cfg *config.Config) *TokenStore {
	return NewTokenStore(logger, NewOAuthConfig(cfg.Spotify), cfg.Spotify.TokenFile)
}

// AccessToken returns a valid access token, refreshing it when expired
func (s *TokenStore) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return "", err
	}
	if s.expiresWithinLocked(0) {
		if err := s.refreshLocked(ctx); err != nil {
			return "", err
		}
	}
	return s.token.AccessToken, nil
}

// Token returns a copy of the cached token
func (s *TokenStore) Token() (oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return oauth2.Token{}, err
	}
	return *s.token, nil
}

// RefreshIfExpiring refreshes the token when it expires within margin.
// It reports whether a refresh happened.
func (s *TokenStore) RefreshIfExpiring(ctx context.Context, margin time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return false, err
	}
	if !s.expiresWithinLocked(margin) {
		return false, nil
	}
	if err := s.refreshLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Save replaces the cached token and persists it
func (s *TokenStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeLocked(token); err != nil {
		return err
	}
	s.token = token
	return nil
}

func (s *TokenStore) expiresWithinLocked(margin time.Duration) bool {
	if s.token.Expiry.IsZero() {
		return false
	}
	return s.token.Expiry.Sub(s.now()) < margin
}

// loadLocked reads the cache file once. A token saved by another process
// is picked up on the next refresh failure only.
func (s *TokenStore) loadLocked() error {
	if s.token != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrNoToken
	}
	if err != nil {
		return fmt.Errorf("failed to read token cache: %w", err)
	}

	var cached cachedToken
	if err := json.Unmarshal(data, &cached); err != nil {
		return fmt.Errorf("failed to parse token cache %s: %w", s.path, err)
	}
	if cached.AccessToken == "" && cached.RefreshToken == "" {
		return domain.ErrNoToken
	}

	token := &oauth2.Token{
		AccessToken:  cached.AccessToken,
		TokenType:    cached.TokenType,
		RefreshToken: cached.RefreshToken,
	}
	if cached.ExpiresAt > 0 {
		token.Expiry = time.Unix(cached.ExpiresAt, 0)
	}
	s.token = token.WithExtra(map[string]any{"scope": cached.Scope})

	s.logger.Debug("Token cache loaded",
		zap.String("path", s.path),
		zap.Time("expiry", token.Expiry))
	return nil
}

func (s *TokenStore) refreshLocked(ctx context.Context) error {
	if s.token.RefreshToken == "" {
		return fmt.Errorf("token expired and no refresh token is cached: %w", domain.ErrNoToken)
	}

	// a refresh that started is allowed to finish and reach the cache
	src := s.oauth.TokenSource(context.WithoutCancel(ctx), &oauth2.Token{RefreshToken: s.token.RefreshToken})
	fresh, err := src.Token()
	if err != nil {
		// the authorize command may have replaced the cache behind our back
		s.token = nil
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.token.RefreshToken
	}

	if err := s.writeLocked(fresh); err != nil {
		s.logger.Warn("Failed to persist refreshed token", zap.Error(err))
	}
	s.token = fresh

	s.logger.Info("Access token refreshed", zap.Time("expiry", fresh.Expiry))
	return nil
}

func (s *TokenStore) writeLocked(token *oauth2.Token) error {
	cached := cachedToken{
		AccessToken:  token.AccessToken,
		TokenType:    token.TokenType,
		RefreshToken: token.RefreshToken,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		cached.Scope = scope
	}
	if !token.Expiry.IsZero() {
		cached.ExpiresAt = token.Expiry.Unix()
		cached.ExpiresIn = int64(token.Expiry.Sub(s.now()).Seconds())
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace token cache: %w", err)
	}
	return nil
}
