package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/spotink/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const minimalConfig = `
width = 640
height = 400
no_song_cover = "images/default.png"
`

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := filepath.Dir(path)
	if cfg.Layout.Width != 640 || cfg.Layout.Height != 400 {
		t.Errorf("expected 640x400, got %dx%d", cfg.Layout.Width, cfg.Layout.Height)
	}
	if cfg.Layout.BackgroundMode != BackgroundFit {
		t.Errorf("expected fit background, got %s", cfg.Layout.BackgroundMode)
	}
	if cfg.Layout.TextDirection != TopDown {
		t.Errorf("expected top-down text, got %s", cfg.Layout.TextDirection)
	}
	if cfg.Layout.RefreshThreshold != 20 {
		t.Errorf("expected refresh threshold 20, got %d", cfg.Layout.RefreshThreshold)
	}
	if cfg.Idle.Mode != IdleCycle {
		t.Errorf("expected cycle idle mode, got %s", cfg.Idle.Mode)
	}
	if cfg.Idle.DisplayTime != 300*time.Second {
		t.Errorf("expected 300s idle display time, got %s", cfg.Idle.DisplayTime)
	}
	if cfg.Idle.DefaultImage != filepath.Join(base, "images/default.png") {
		t.Errorf("expected default image resolved against config dir, got %s", cfg.Idle.DefaultImage)
	}
	if cfg.Idle.Folder != filepath.Join(base, "idle_images") {
		t.Errorf("expected idle folder resolved against config dir, got %s", cfg.Idle.Folder)
	}
	if cfg.PollInterval != time.Second {
		t.Errorf("expected 1s poll interval, got %s", cfg.PollInterval)
	}
	if cfg.FetchErrorPolicy != PolicyIdle {
		t.Errorf("expected idle fetch error policy, got %s", cfg.FetchErrorPolicy)
	}
	if cfg.Panel.Model != "file" {
		t.Errorf("expected file panel, got %s", cfg.Panel.Model)
	}
	if len(cfg.Buttons.Pins) != 4 {
		t.Errorf("expected 4 default button pins, got %d", len(cfg.Buttons.Pins))
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
width = 600
height = 448
offset_px_left = 20
offset_px_right = 20
offset_px_top = 10
offset_px_bottom = 15
album_cover_small = true
album_cover_small_px = 200
background_mode = "repeat"
background_blur = 12.5
text_direction = "bottom-up"
offset_text_px_shadow = 4
display_refresh_counter = 5
font_path = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
font_size_title = 30
font_size_artist = 24
idle_mode = "cycle"
idle_display_time = 60
idle_shuffle = true
idle_folder = "/srv/idle"
no_song_cover = "/srv/default.jpg"
poll_interval = "2s"
fetch_error_policy = "hold"
model = "command"
panel_command = "/usr/local/bin/inky-show"
buttons_enabled = true
button_pins = ["GPIO5", "GPIO6", "GPIO16", "GPIO24"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l := cfg.Layout
	if l.OffsetLeft != 20 || l.OffsetRight != 20 || l.OffsetTop != 10 || l.OffsetBottom != 15 {
		t.Errorf("offsets not loaded: %+v", l)
	}
	if !l.SmallCover || l.SmallCoverPx != 200 {
		t.Errorf("small cover not loaded: %v %d", l.SmallCover, l.SmallCoverPx)
	}
	if l.BackgroundMode != BackgroundRepeat || l.BackgroundBlur != 12.5 {
		t.Errorf("background not loaded: %s %v", l.BackgroundMode, l.BackgroundBlur)
	}
	if l.TextDirection != BottomUp || l.ShadowOffset != 4 || l.RefreshThreshold != 5 {
		t.Errorf("text settings not loaded: %+v", l)
	}
	if cfg.Idle.DisplayTime != time.Minute || !cfg.Idle.Shuffle || cfg.Idle.Folder != "/srv/idle" {
		t.Errorf("idle settings not loaded: %+v", cfg.Idle)
	}
	if cfg.PollInterval != 2*time.Second || cfg.FetchErrorPolicy != PolicyHold {
		t.Errorf("loop settings not loaded: %s %s", cfg.PollInterval, cfg.FetchErrorPolicy)
	}
	if cfg.Panel.Model != "command" || cfg.Panel.Command != "/usr/local/bin/inky-show" {
		t.Errorf("panel settings not loaded: %+v", cfg.Panel)
	}
	if !cfg.Buttons.Enabled || cfg.Buttons.Debounce != 200*time.Millisecond {
		t.Errorf("button settings not loaded: %+v", cfg.Buttons)
	}
}

func TestLoad_Fallbacks(t *testing.T) {
	tests := []struct {
		name       string
		extra      string
		background BackgroundMode
		idle       IdleMode
	}{
		{
			name:       "Unknown background mode falls back to crop",
			extra:      `background_mode = "stretch"`,
			background: BackgroundCrop,
			idle:       IdleCycle,
		},
		{
			name:       "Unknown idle mode falls back to static",
			extra:      `idle_mode = "slideshow"`,
			background: BackgroundFit,
			idle:       IdleStatic,
		},
		{
			name:       "Explicit static idle mode",
			extra:      `idle_mode = "static"`,
			background: BackgroundFit,
			idle:       IdleStatic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, minimalConfig+tt.extra+"\n"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Layout.BackgroundMode != tt.background {
				t.Errorf("expected background %s, got %s", tt.background, cfg.Layout.BackgroundMode)
			}
			if cfg.Idle.Mode != tt.idle {
				t.Errorf("expected idle mode %s, got %s", tt.idle, cfg.Idle.Mode)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectedKey string
	}{
		{
			name:        "Missing width",
			body:        "height = 400\nno_song_cover = \"x.png\"\n",
			expectedKey: "width",
		},
		{
			name:        "Missing height",
			body:        "width = 400\nno_song_cover = \"x.png\"\n",
			expectedKey: "height",
		},
		{
			name:        "Missing default cover",
			body:        "width = 400\nheight = 300\n",
			expectedKey: "no_song_cover",
		},
		{
			name:        "Zero width",
			body:        "width = 0\nheight = 300\nno_song_cover = \"x.png\"\n",
			expectedKey: "width",
		},
		{
			name:        "Unknown text direction",
			body:        minimalConfig + "text_direction = \"sideways\"\n",
			expectedKey: "text_direction",
		},
		{
			name:        "Unknown fetch error policy",
			body:        minimalConfig + "fetch_error_policy = \"panic\"\n",
			expectedKey: "fetch_error_policy",
		},
		{
			name:        "Unknown panel model",
			body:        minimalConfig + "model = \"inky\"\n",
			expectedKey: "model",
		},
		{
			name:        "Command panel without command",
			body:        minimalConfig + "model = \"command\"\n",
			expectedKey: "panel_command",
		},
		{
			name:        "Invalid poll interval",
			body:        minimalConfig + "poll_interval = \"soon\"\n",
			expectedKey: "poll_interval",
		},
		{
			name:        "Negative refresh counter",
			body:        minimalConfig + "display_refresh_counter = -1\n",
			expectedKey: "display_refresh_counter",
		},
		{
			name:        "Wrong number of button pins",
			body:        minimalConfig + "buttons_enabled = true\nbutton_pins = [\"GPIO5\"]\n",
			expectedKey: "button_pins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cfgErr *domain.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *domain.ConfigError, got %T: %v", err, err)
			}
			if cfgErr.Key != tt.expectedKey {
				t.Errorf("expected key %q, got %q (%v)", tt.expectedKey, cfgErr.Key, err)
			}
		})
	}
}

func TestLoad_MissingFileAndSyntax(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("expected read error, got %v", err)
	}

	_, err = Load(writeConfig(t, "width = = 3"))
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestNew_ReadsEnvironment(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(minimalConfig), 0644); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, "spotink.env")
	if err := os.WriteFile(envPath, []byte("SPOTIFY_CLIENT_ID=abc\nSPOTIFY_REDIRECT_URI=http://localhost:8888/callback\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SPOTINK_CONFIG", cfgPath)
	t.Setenv("SPOTINK_ENV_FILE", envPath)
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	// Registered with t.Setenv so the values loaded from the env file are restored afterwards
	t.Setenv("SPOTIFY_CLIENT_ID", "")
	t.Setenv("SPOTIFY_REDIRECT_URI", "")
	os.Unsetenv("SPOTIFY_CLIENT_ID")
	os.Unsetenv("SPOTIFY_REDIRECT_URI")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Spotify.ClientID != "abc" {
		t.Errorf("expected client id from env file, got %q", cfg.Spotify.ClientID)
	}
	if cfg.Spotify.ClientSecret != "secret" {
		t.Errorf("expected client secret from environment, got %q", cfg.Spotify.ClientSecret)
	}
	if cfg.Spotify.RedirectURI != "http://localhost:8888/callback" {
		t.Errorf("expected redirect uri from env file, got %q", cfg.Spotify.RedirectURI)
	}
}

func TestConfig_LogFields(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	core, logs := observer.New(zap.InfoLevel)
	cfg.LogFields(zap.New(core))

	entries := logs.FilterMessage("Configuration loaded").All()
	if len(entries) != 1 {
		t.Fatalf("expected one configuration entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["width"] != int64(640) || fields["height"] != int64(400) {
		t.Errorf("expected panel geometry in the log, got %v", fields)
	}
	if fields["provider"] != "spotify" {
		t.Errorf("expected the default provider, got %v", fields["provider"])
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Log.Level)
	}
}
