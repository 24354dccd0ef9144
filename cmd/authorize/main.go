// Command authorize performs the one-time Spotify login and writes the token
// cache read by the daemon.
package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/spotify"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "authorize: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.Spotify.ClientID == "" || cfg.Spotify.ClientSecret == "" || cfg.Spotify.RedirectURI == "" {
		logger.Fatal("SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and SPOTIFY_REDIRECT_URI must be set")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	oauth := spotify.NewOAuthConfig(cfg.Spotify)
	store := spotify.NewTokenStore(logger, oauth, cfg.Spotify.TokenFile)

	if err := authorize(ctx, oauth, store, rand.Text(), os.Stdin, os.Stdout); err != nil {
		logger.Fatal("Authorization failed", zap.Error(err))
	}
	logger.Info("Token cache written", zap.String("path", cfg.Spotify.TokenFile))
}

type tokenSaver interface {
	Save(token *oauth2.Token) error
}

// authorize prints the consent URL, reads back the redirect URL (or the bare
// code) and exchanges it for a token.
func authorize(ctx context.Context, oauth *oauth2.Config, store tokenSaver, state string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Open this URL in a browser and log in:\n\n%s\n\n", oauth.AuthCodeURL(state))
	fmt.Fprint(out, "Paste the URL you were redirected to: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read redirect: %w", err)
	}

	code, err := parseCode(strings.TrimSpace(line), state)
	if err != nil {
		return err
	}

	token, err := oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return store.Save(token)
}

func parseCode(input, state string) (string, error) {
	if input == "" {
		return "", errors.New("no redirect URL given")
	}
	if !strings.Contains(input, "?") {
		return input, nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("parse redirect: %w", err)
	}
	q := u.Query()
	if e := q.Get("error"); e != "" {
		return "", fmt.Errorf("authorization denied: %s", e)
	}
	if q.Get("state") != state {
		return "", errors.New("state mismatch")
	}
	code := q.Get("code")
	if code == "" {
		return "", errors.New("redirect has no code")
	}
	return code, nil
}
