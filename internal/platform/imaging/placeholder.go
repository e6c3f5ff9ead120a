package imaging

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image/color"
	"image/jpeg"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var palette = [][3]float64{
	{0.16, 0.20, 0.38},
	{0.36, 0.18, 0.32},
	{0.12, 0.32, 0.30},
	{0.40, 0.28, 0.14},
	{0.22, 0.22, 0.24},
}

// Placeholder renders the prompt text onto a gradient card.
// Used when image synthesis is disabled so recaps still carry a stored image.
func Placeholder(prompt string, size int) ([]byte, error) {
	if size <= 0 {
		size = 768
	}
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	base := palette[int(h.Sum32())%len(palette)]

	dc := gg.NewContext(size, size)
	grad := gg.NewLinearGradient(0, 0, float64(size), float64(size))
	grad.AddColorStop(0, rgb(base, 1.0))
	grad.AddColorStop(1, rgb(base, 0.55))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, float64(size), float64(size))
	dc.Fill()

	fontSize := float64(size) / 24
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: fontSize}))
	dc.SetRGB(1, 1, 1)
	margin := float64(size) / 10
	dc.DrawStringWrapped(truncateWords(prompt, 60), margin, margin, 0, 0, float64(size)-2*margin, 1.4, gg.AlignLeft)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dc.Image(), &jpeg.Options{Quality: DefaultJPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

func rgb(c [3]float64, scale float64) color.Color {
	return color.NRGBA{
		R: uint8(c[0] * scale * 255),
		G: uint8(c[1] * scale * 255),
		B: uint8(c[2] * scale * 255),
		A: 255,
	}
}

func truncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ") + " …"
}
