package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/genricoloni/spotink/internal/domain"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultConfigPath = "/etc/spotink/config.toml"
	defaultEnvFile    = ".env"
)

// BackgroundMode selects how the cover is stretched over the whole panel
type BackgroundMode string

const (
	BackgroundFit    BackgroundMode = "fit"
	BackgroundRepeat BackgroundMode = "repeat"
	BackgroundCrop   BackgroundMode = "crop"
)

// TextDirection selects where title and artist are anchored
type TextDirection string

const (
	TopDown  TextDirection = "top-down"
	BottomUp TextDirection = "bottom-up"
)

// IdleMode selects what is shown while nothing is playing
type IdleMode string

const (
	IdleCycle  IdleMode = "cycle"
	IdleStatic IdleMode = "static"
)

// FetchErrorPolicy decides how a failed now-playing fetch affects the screen
type FetchErrorPolicy string

const (
	// PolicyIdle treats a fetch error like "nothing playing"
	PolicyIdle FetchErrorPolicy = "idle"
	// PolicyHold keeps the last render on screen until the provider recovers
	PolicyHold FetchErrorPolicy = "hold"
)

// LayoutConfig holds the panel geometry and the composition settings
type LayoutConfig struct {
	Width  int
	Height int

	OffsetLeft   int
	OffsetRight  int
	OffsetTop    int
	OffsetBottom int

	SmallCover   bool
	SmallCoverPx int

	BackgroundMode BackgroundMode
	BackgroundBlur float64
	TextDirection  TextDirection
	ShadowOffset   int

	FontPath       string
	TitleFontSize  float64
	ArtistFontSize float64

	// RefreshThreshold is the number of renders tolerated before a full panel clean
	RefreshThreshold int
}

// IdleConfig controls the idle screen
type IdleConfig struct {
	Mode         IdleMode
	DisplayTime  time.Duration
	Shuffle      bool
	Folder       string
	DefaultImage string
}

// PanelConfig selects the display driver
type PanelConfig struct {
	Model   string
	Output  string
	Command string
}

// SpotifyConfig holds the Web API credentials
type SpotifyConfig struct {
	TokenFile    string
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// ButtonsConfig maps the four physical buttons
type ButtonsConfig struct {
	Enabled      bool
	Pins         []string
	PollInterval time.Duration
	Debounce     time.Duration
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string
	Format string
}

// Config is the whole daemon configuration, read once at startup
type Config struct {
	Layout           LayoutConfig
	Idle             IdleConfig
	Panel            PanelConfig
	Spotify          SpotifyConfig
	Buttons          ButtonsConfig
	Log              LogConfig
	Provider         string
	MprisPlayer      string
	PollInterval     time.Duration
	FetchErrorPolicy FetchErrorPolicy
}

// fileConfig mirrors the flat key/value layout of the config file
type fileConfig struct {
	Width        int `toml:"width"`
	Height       int `toml:"height"`
	OffsetLeft   int `toml:"offset_px_left"`
	OffsetRight  int `toml:"offset_px_right"`
	OffsetTop    int `toml:"offset_px_top"`
	OffsetBottom int `toml:"offset_px_bottom"`

	SmallCover     bool    `toml:"album_cover_small"`
	SmallCoverPx   int     `toml:"album_cover_small_px"`
	BackgroundMode string  `toml:"background_mode"`
	BackgroundBlur float64 `toml:"background_blur"`
	TextDirection  string  `toml:"text_direction"`
	ShadowOffset   int     `toml:"offset_text_px_shadow"`
	RefreshCounter int     `toml:"display_refresh_counter"`

	FontPath       string  `toml:"font_path"`
	TitleFontSize  float64 `toml:"font_size_title"`
	ArtistFontSize float64 `toml:"font_size_artist"`

	IdleMode        string `toml:"idle_mode"`
	IdleDisplayTime int    `toml:"idle_display_time"` // seconds
	IdleShuffle     bool   `toml:"idle_shuffle"`
	IdleFolder      string `toml:"idle_folder"`
	NoSongCover     string `toml:"no_song_cover"`

	PollInterval     string `toml:"poll_interval"`
	FetchErrorPolicy string `toml:"fetch_error_policy"`
	Provider         string `toml:"provider"`
	MprisPlayer      string `toml:"mpris_player"`

	Model        string `toml:"model"`
	PanelOutput  string `toml:"panel_output"`
	PanelCommand string `toml:"panel_command"`

	TokenFile string `toml:"token_file"`

	ButtonsEnabled bool     `toml:"buttons_enabled"`
	ButtonPins     []string `toml:"button_pins"`
	ButtonPoll     string   `toml:"button_poll_interval"`
	ButtonDebounce string   `toml:"button_debounce"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

var requiredKeys = []string{"width", "height", "no_song_cover"}

func defaults() fileConfig {
	return fileConfig{
		SmallCoverPx:     250,
		BackgroundMode:   string(BackgroundFit),
		TextDirection:    string(TopDown),
		RefreshCounter:   20,
		TitleFontSize:    40,
		ArtistFontSize:   32,
		IdleMode:         string(IdleCycle),
		IdleDisplayTime:  300,
		IdleFolder:       "idle_images",
		PollInterval:     "1s",
		FetchErrorPolicy: string(PolicyIdle),
		Provider:         "spotify",
		MprisPlayer:      "org.mpris.MediaPlayer2.spotify",
		Model:            "file",
		PanelOutput:      "/tmp/spotink/panel.png",
		TokenFile:        ".cache",
		ButtonPins:       []string{"GPIO5", "GPIO6", "GPIO16", "GPIO24"},
		ButtonPoll:       "100ms",
		ButtonDebounce:   "200ms",
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// New loads the configuration from SPOTINK_CONFIG (or the default path) and
// the Spotify client credentials from the environment, after loading the
// optional env file named by SPOTINK_ENV_FILE.
func New() (*Config, error) {
	envFile := os.Getenv("SPOTINK_ENV_FILE")
	if envFile == "" {
		envFile = defaultEnvFile
	}
	// A missing env file is fine, the variables may come from systemd
	_ = godotenv.Load(expandHome(envFile))

	path := os.Getenv("SPOTINK_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	return Load(expandHome(os.ExpandEnv(path)))
}

// Load reads and validates the config file at path.
// Relative paths inside the file are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Key: path, Err: fmt.Errorf("read config: %w", err)}
	}

	fc := defaults()
	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return nil, &domain.ConfigError{Key: path, Err: fmt.Errorf("parse config: %w", err)}
	}
	for _, key := range requiredKeys {
		if !md.IsDefined(key) {
			return nil, &domain.ConfigError{Key: key, Err: errors.New("missing required key")}
		}
	}

	cfg, err := fc.build(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.Spotify.ClientID = os.Getenv("SPOTIFY_CLIENT_ID")
	cfg.Spotify.ClientSecret = os.Getenv("SPOTIFY_CLIENT_SECRET")
	cfg.Spotify.RedirectURI = os.Getenv("SPOTIFY_REDIRECT_URI")
	return cfg, nil
}

func (fc fileConfig) build(base string) (*Config, error) {
	if fc.Width <= 0 {
		return nil, &domain.ConfigError{Key: "width", Err: fmt.Errorf("must be positive, got %d", fc.Width)}
	}
	if fc.Height <= 0 {
		return nil, &domain.ConfigError{Key: "height", Err: fmt.Errorf("must be positive, got %d", fc.Height)}
	}
	if fc.RefreshCounter < 0 {
		return nil, &domain.ConfigError{Key: "display_refresh_counter", Err: fmt.Errorf("must not be negative, got %d", fc.RefreshCounter)}
	}
	if fc.SmallCover && fc.SmallCoverPx <= 0 {
		return nil, &domain.ConfigError{Key: "album_cover_small_px", Err: fmt.Errorf("must be positive, got %d", fc.SmallCoverPx)}
	}
	if fc.IdleDisplayTime < 0 {
		return nil, &domain.ConfigError{Key: "idle_display_time", Err: fmt.Errorf("must not be negative, got %d", fc.IdleDisplayTime)}
	}

	direction := TextDirection(fc.TextDirection)
	if direction != TopDown && direction != BottomUp {
		return nil, &domain.ConfigError{Key: "text_direction", Err: fmt.Errorf("unknown direction %q", fc.TextDirection)}
	}

	policy := FetchErrorPolicy(fc.FetchErrorPolicy)
	if policy != PolicyIdle && policy != PolicyHold {
		return nil, &domain.ConfigError{Key: "fetch_error_policy", Err: fmt.Errorf("unknown policy %q", fc.FetchErrorPolicy)}
	}

	switch fc.Provider {
	case "spotify", "mpris":
	default:
		return nil, &domain.ConfigError{Key: "provider", Err: fmt.Errorf("unknown provider %q", fc.Provider)}
	}

	switch fc.Model {
	case "file", "command", "waveshare2in13v4":
	default:
		return nil, &domain.ConfigError{Key: "model", Err: fmt.Errorf("unknown panel model %q", fc.Model)}
	}
	if fc.Model == "command" && fc.PanelCommand == "" {
		return nil, &domain.ConfigError{Key: "panel_command", Err: errors.New("required by the command panel model")}
	}

	poll, err := parseDuration("poll_interval", fc.PollInterval)
	if err != nil {
		return nil, err
	}
	buttonPoll, err := parseDuration("button_poll_interval", fc.ButtonPoll)
	if err != nil {
		return nil, err
	}
	debounce, err := parseDuration("button_debounce", fc.ButtonDebounce)
	if err != nil {
		return nil, err
	}
	if fc.ButtonsEnabled && len(fc.ButtonPins) != 4 {
		return nil, &domain.ConfigError{Key: "button_pins", Err: fmt.Errorf("expected 4 pins, got %d", len(fc.ButtonPins))}
	}

	return &Config{
		Layout: LayoutConfig{
			Width:            fc.Width,
			Height:           fc.Height,
			OffsetLeft:       fc.OffsetLeft,
			OffsetRight:      fc.OffsetRight,
			OffsetTop:        fc.OffsetTop,
			OffsetBottom:     fc.OffsetBottom,
			SmallCover:       fc.SmallCover,
			SmallCoverPx:     fc.SmallCoverPx,
			BackgroundMode:   backgroundMode(fc.BackgroundMode),
			BackgroundBlur:   fc.BackgroundBlur,
			TextDirection:    direction,
			ShadowOffset:     fc.ShadowOffset,
			FontPath:         resolve(base, fc.FontPath),
			TitleFontSize:    fc.TitleFontSize,
			ArtistFontSize:   fc.ArtistFontSize,
			RefreshThreshold: fc.RefreshCounter,
		},
		Idle: IdleConfig{
			Mode:         idleMode(fc.IdleMode),
			DisplayTime:  time.Duration(fc.IdleDisplayTime) * time.Second,
			Shuffle:      fc.IdleShuffle,
			Folder:       resolve(base, fc.IdleFolder),
			DefaultImage: resolve(base, fc.NoSongCover),
		},
		Panel: PanelConfig{
			Model:   fc.Model,
			Output:  resolve(base, fc.PanelOutput),
			Command: fc.PanelCommand,
		},
		Spotify: SpotifyConfig{
			TokenFile: resolve(base, fc.TokenFile),
		},
		Buttons: ButtonsConfig{
			Enabled:      fc.ButtonsEnabled,
			Pins:         fc.ButtonPins,
			PollInterval: buttonPoll,
			Debounce:     debounce,
		},
		Log: LogConfig{
			Level:  fc.LogLevel,
			Format: fc.LogFormat,
		},
		Provider:         fc.Provider,
		MprisPlayer:      fc.MprisPlayer,
		PollInterval:     poll,
		FetchErrorPolicy: policy,
	}, nil
}

// LogFields writes the effective configuration once at startup
func (c *Config) LogFields(logger *zap.Logger) {
	logger.Info("Configuration loaded",
		zap.Int("width", c.Layout.Width),
		zap.Int("height", c.Layout.Height),
		zap.String("backgroundMode", string(c.Layout.BackgroundMode)),
		zap.String("textDirection", string(c.Layout.TextDirection)),
		zap.String("idleMode", string(c.Idle.Mode)),
		zap.String("idleFolder", c.Idle.Folder),
		zap.String("provider", c.Provider),
		zap.String("model", c.Panel.Model),
		zap.Duration("pollInterval", c.PollInterval),
		zap.String("fetchErrorPolicy", string(c.FetchErrorPolicy)),
		zap.Bool("buttons", c.Buttons.Enabled))
}

// backgroundMode maps anything that is not fit or repeat to crop
func backgroundMode(s string) BackgroundMode {
	switch BackgroundMode(s) {
	case BackgroundFit, BackgroundRepeat:
		return BackgroundMode(s)
	default:
		return BackgroundCrop
	}
}

// idleMode maps anything that is not cycle to static
func idleMode(s string) IdleMode {
	if IdleMode(s) == IdleCycle {
		return IdleCycle
	}
	return IdleStatic
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, &domain.ConfigError{Key: key, Err: err}
	}
	if d <= 0 {
		return 0, &domain.ConfigError{Key: key, Err: fmt.Errorf("must be positive, got %s", value)}
	}
	return d, nil
}

// resolve expands ~ and makes relative paths relative to base
func resolve(base, p string) string {
	if p == "" {
		return ""
	}
	p = expandHome(os.ExpandEnv(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}
