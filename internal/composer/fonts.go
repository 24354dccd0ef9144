package composer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/genricoloni/spotink/internal/textlayout"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// loadFace opens a TrueType/OpenType font at the given size.
// An empty path selects the built-in 7x13 bitmap face, whatever the size.
func loadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func measurer(face font.Face) textlayout.MeasureFunc {
	return func(text string) int {
		return font.MeasureString(face, text).Ceil()
	}
}

func drawString(dst draw.Image, face font.Face, c color.Color, x, baseline int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
}
