package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxDimension = 1536
	DefaultJPEGQuality  = 88
)

var ErrEmptyImage = errors.New("empty image payload")

type Options struct {
	MaxDimension int
	Quality      int
}

// ToJPEG decodes png/jpeg/webp/gif bytes and re-encodes them as JPEG.
// Transparent pixels are flattened onto white and the long edge is capped at MaxDimension.
func ToJPEG(raw []byte, opts Options) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyImage
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultMaxDimension
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = DefaultJPEGQuality
	}

	src, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format == "jpeg" && fits(src.Bounds(), opts.MaxDimension) {
		return raw, nil
	}

	scaled := scaleToFit(src, opts.MaxDimension)
	b := scaled.Bounds()

	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(scaled, -b.Min.X, -b.Min.Y)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dc.Image(), &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

func fits(b image.Rectangle, max int) bool {
	return b.Dx() <= max && b.Dy() <= max
}

func scaleToFit(src image.Image, max int) image.Image {
	b := src.Bounds()
	if fits(b, max) {
		return src
	}
	w, h := b.Dx(), b.Dy()
	if w >= h {
		h = h * max / w
		w = max
	} else {
		w = w * max / h
		h = max
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
