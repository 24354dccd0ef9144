package composer

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/spotink/internal/config"
	"github.com/genricoloni/spotink/internal/domain"
	"github.com/genricoloni/spotink/internal/textlayout"
	"go.uber.org/zap"
	"golang.org/x/image/font"
)

var (
	textColor   = color.White
	shadowColor = color.Black
	canvasColor = color.Black
)

// Composer builds the final panel bitmap from a cover and two strings
type Composer struct {
	logger     *zap.Logger
	layout     config.LayoutConfig
	titleFace  font.Face
	artistFace font.Face
}

// NewComposer loads the configured fonts and returns a composer for the panel geometry
func NewComposer(logger *zap.Logger, cfg *config.Config) (*Composer, error) {
	return New(logger, cfg.Layout)
}

// New creates a composer from a layout. Font files are read once here.
func New(logger *zap.Logger, layout config.LayoutConfig) (*Composer, error) {
	titleFace, err := loadFace(layout.FontPath, layout.TitleFontSize)
	if err != nil {
		return nil, &domain.ConfigError{Key: "font_path", Err: err}
	}
	artistFace, err := loadFace(layout.FontPath, layout.ArtistFontSize)
	if err != nil {
		return nil, &domain.ConfigError{Key: "font_path", Err: err}
	}

	return &Composer{
		logger:     logger,
		layout:     layout,
		titleFace:  titleFace,
		artistFace: artistFace,
	}, nil
}

// Compose renders src, title and artist into a bitmap of exactly the panel size.
// The output depends only on its inputs.
func (c *Composer) Compose(src image.Image, title, artist string) (*image.NRGBA, error) {
	if src == nil {
		return nil, &domain.DecodeError{Source: "cover", Err: errors.New("no image")}
	}
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &domain.DecodeError{Source: "cover", Err: errors.New("empty image")}
	}

	l := c.layout

	// 1. Background, then blur it before anything sharp is laid on top
	canvas := c.background(src)
	if l.BackgroundBlur > 0 {
		canvas = imaging.Blur(canvas, l.BackgroundBlur)
	}

	// 2. Small sharp cover, horizontally centred
	textTop := l.OffsetTop
	if l.SmallCover {
		cover := imaging.Resize(src, l.SmallCoverPx, l.SmallCoverPx, imaging.Lanczos)
		canvas = imaging.Paste(canvas, cover, image.Pt((l.Width-l.SmallCoverPx)/2, l.OffsetTop))
		textTop += l.SmallCoverPx
	}

	// 3. Text
	titleLines := textlayout.Lines(title, c.textWidth(), measurer(c.titleFace))
	artistLines := textlayout.Lines(artist, c.textWidth(), measurer(c.artistFace))

	switch l.TextDirection {
	case config.BottomUp:
		artistTop := l.Height - l.OffsetBottom - blockHeight(c.artistFace, artistLines)
		titleTop := artistTop - blockHeight(c.titleFace, titleLines)
		c.drawLines(canvas, c.artistFace, artistLines, artistTop)
		c.drawLines(canvas, c.titleFace, titleLines, titleTop)
	default:
		next := c.drawLines(canvas, c.titleFace, titleLines, textTop)
		c.drawLines(canvas, c.artistFace, artistLines, next)
	}

	c.logger.Debug("Image composed",
		zap.Int("w", l.Width),
		zap.Int("h", l.Height),
		zap.Int("titleLines", len(titleLines)),
		zap.Int("artistLines", len(artistLines)))
	return canvas, nil
}

// background transforms src to the panel size according to the background mode
func (c *Composer) background(src image.Image) *image.NRGBA {
	w, h := c.layout.Width, c.layout.Height

	switch c.layout.BackgroundMode {
	case config.BackgroundFit:
		return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)

	case config.BackgroundRepeat:
		canvas := imaging.New(w, h, canvasColor)
		tile := imaging.Clone(src)
		tw, th := tile.Bounds().Dx(), tile.Bounds().Dy()
		for y := 0; y < h; y += th {
			for x := 0; x < w; x += tw {
				draw.Draw(canvas, image.Rect(x, y, x+tw, y+th), tile, image.Point{}, draw.Src)
			}
		}
		return canvas

	default:
		// Hard crop from the origin; a source smaller than the panel leaves canvas showing
		canvas := imaging.New(w, h, canvasColor)
		origin := src.Bounds().Min
		cropped := imaging.Crop(src, image.Rect(origin.X, origin.Y, origin.X+w, origin.Y+h))
		return imaging.Paste(canvas, cropped, image.Pt(0, 0))
	}
}

func (c *Composer) textWidth() int {
	w := c.layout.Width - c.layout.OffsetLeft - c.layout.OffsetRight
	if w <= 0 {
		return c.layout.Width
	}
	return w
}

// drawLines draws lines centred between the side offsets starting at top,
// and returns the y coordinate just below the last line
func (c *Composer) drawLines(dst draw.Image, face font.Face, lines []textlayout.Line, top int) int {
	lineHeight := face.Metrics().Height.Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	shadow := c.layout.ShadowOffset

	for i, line := range lines {
		x := c.layout.OffsetLeft + (c.textWidth()-line.Width)/2
		baseline := top + i*lineHeight + ascent
		if shadow > 0 {
			drawString(dst, face, shadowColor, x+shadow, baseline+shadow, line.Text)
		}
		drawString(dst, face, textColor, x, baseline, line.Text)
	}
	return top + len(lines)*lineHeight
}

func blockHeight(face font.Face, lines []textlayout.Line) int {
	return len(lines) * face.Metrics().Height.Ceil()
}
