// Package annotate stamps screenshots with a caption banner.
package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const textInset = 12

// Banner draws a caption strip above an image
type Banner struct {
	Height     int
	Background color.Color
	Foreground color.Color
	Face       font.Face
}

// DefaultBanner is a 48px dark strip with white text
func DefaultBanner() Banner {
	return Banner{
		Height:     48,
		Background: color.RGBA{R: 20, G: 20, B: 20, A: 255},
		Foreground: color.White,
		Face:       basicfont.Face7x13,
	}
}

// Annotate reads the image at path and returns a PNG with a banner reading
// "<title> | <browser>" above the original content.
func (b Banner) Annotate(path, title, browser string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open screenshot: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	img := b.compose(src, title+" | "+browser)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (b Banner) compose(src image.Image, caption string) *image.RGBA {
	sb := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()+b.Height))

	draw.Draw(dst, dst.Bounds(), image.NewUniform(b.Background), image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(0, b.Height, sb.Dx(), sb.Dy()+b.Height), src, sb.Min, draw.Src)

	ascent := b.Face.Metrics().Ascent.Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(b.Foreground),
		Face: b.Face,
		Dot:  fixed.P(textInset, (b.Height+ascent)/2),
	}
	d.DrawString(caption)

	return dst
}
