package panel

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/genricoloni/spotink/internal/domain"
)

// File is a panel that writes every frame to a PNG file. Useful for development
// without hardware, and as the frame source for external viewers.
type File struct {
	logger *zap.Logger
	path   string
	width  int
	height int
}

// NewFile creates a file panel writing to path
func NewFile(logger *zap.Logger, path string, width, height int) *File {
	return &File{
		logger: logger,
		path:   path,
		width:  width,
		height: height,
	}
}

// Clean writes a blank white frame
func (f *File) Clean(ctx context.Context) error {
	blank := imaging.New(f.width, f.height, color.White)
	if err := writePNG(f.path, blank); err != nil {
		return &domain.PanelError{Op: "clean", Err: err}
	}
	f.logger.Debug("Panel cleaned", zap.String("path", f.path))
	return nil
}

// Display writes img to the output file
func (f *File) Display(ctx context.Context, img image.Image) error {
	if err := writePNG(f.path, img); err != nil {
		return &domain.PanelError{Op: "display", Err: err}
	}
	f.logger.Debug("Frame written",
		zap.String("path", f.path),
		zap.Stringer("size", img.Bounds().Size()))
	return nil
}

// Close is a no-op, the last frame stays on disk
func (f *File) Close() error {
	return nil
}
