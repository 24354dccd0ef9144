// Package panel holds the PanelDriver implementations.
package panel

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
)

// Supported values of the model key
const (
	ModelFile             = "file"
	ModelCommand          = "command"
	ModelWaveshare2in13v4 = "waveshare2in13v4"
)

// New creates the driver selected by the model key
func New(logger *zap.Logger, cfg *config.Config) (domain.PanelDriver, error) {
	logger = logger.With(zap.String("model", cfg.Panel.Model))

	switch cfg.Panel.Model {
	case ModelFile:
		return NewFile(logger, cfg.Panel.Output, cfg.Layout.Width, cfg.Layout.Height), nil
	case ModelCommand:
		return NewCommand(logger, cfg.Panel.Command, cfg.Panel.Output)
	case ModelWaveshare2in13v4:
		return NewWaveshare(logger)
	default:
		return nil, &domain.ConfigError{Key: "model", Err: fmt.Errorf("unsupported panel model %q", cfg.Panel.Model)}
	}
}

// writePNG encodes img to path through a temp file and a rename,
// so readers never see a partial bitmap.
func writePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".panel-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
