package panel

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"

	"github.com/genricoloni/spotink/internal/domain"
)

// epd is the subset of the periph e-paper driver we use
type epd interface {
	Init() error
	Clear(color.Color) error
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Sleep() error
	Halt() error
	Bounds() image.Rectangle
}

// Waveshare drives a Waveshare 2.13" V4 HAT over SPI. The controller is woken
// before every operation and put back to sleep after it.
type Waveshare struct {
	logger *zap.Logger
	dev    epd
	port   io.Closer
}

// NewWaveshare opens the default SPI port and initializes the HAT
func NewWaveshare(logger *zap.Logger) (*Waveshare, error) {
	if _, err := host.Init(); err != nil {
		return nil, &domain.PanelError{Op: "init", Err: fmt.Errorf("periph host init: %w", err)}
	}

	port, err := spireg.Open("")
	if err != nil {
		return nil, &domain.PanelError{Op: "init", Err: fmt.Errorf("failed to open spi port: %w", err)}
	}

	opts := waveshare2in13v4.EPD2in13v4
	dev, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, &domain.PanelError{Op: "init", Err: err}
	}

	logger.Info("E-paper panel ready", zap.Stringer("bounds", dev.Bounds()))
	return &Waveshare{logger: logger, dev: dev, port: port}, nil
}

// Clean clears the panel to white with a full refresh
func (w *Waveshare) Clean(ctx context.Context) error {
	if err := w.dev.Init(); err != nil {
		return &domain.PanelError{Op: "clean", Err: err}
	}
	if err := w.dev.Clear(color.White); err != nil {
		return &domain.PanelError{Op: "clean", Err: err}
	}
	if err := w.dev.Sleep(); err != nil {
		w.logger.Warn("Panel sleep failed", zap.Error(err))
	}
	return nil
}

// Display dithers img to 1 bit and draws it
func (w *Waveshare) Display(ctx context.Context, img image.Image) error {
	frame := toPanel(img, w.dev.Bounds())

	if err := w.dev.Init(); err != nil {
		return &domain.PanelError{Op: "display", Err: err}
	}
	if err := w.dev.Draw(frame.Bounds(), frame, image.Point{}); err != nil {
		return &domain.PanelError{Op: "display", Err: err}
	}
	if err := w.dev.Sleep(); err != nil {
		w.logger.Warn("Panel sleep failed", zap.Error(err))
	}
	return nil
}

// Close halts the controller and releases the SPI port
func (w *Waveshare) Close() error {
	return multierr.Combine(w.dev.Halt(), w.port.Close())
}

// toPanel fits img to the panel geometry: landscape frames are rotated 90°
// clockwise onto the portrait controller, then resized and dithered.
func toPanel(img image.Image, bounds image.Rectangle) *image1bit.VerticalLSB {
	src := img
	size := img.Bounds().Size()
	if (size.X > size.Y) != (bounds.Dx() > bounds.Dy()) {
		src = imaging.Rotate270(src)
		size = src.Bounds().Size()
	}
	if size != bounds.Size() {
		src = imaging.Resize(src, bounds.Dx(), bounds.Dy(), imaging.Lanczos)
	}

	frame := image1bit.NewVerticalLSB(bounds)
	draw.FloydSteinberg.Draw(frame, bounds, src, src.Bounds().Min)
	return frame
}
