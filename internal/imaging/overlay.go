package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultGhostColor tints the reference glyph in an overlay.
const DefaultGhostColor = "#e05a5a"

var guideColor = colorful.Color{R: 0.82, G: 0.82, B: 0.82}

// OverlayResult contains a rendered comparison picture
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Overlay draws a drawing on top of its reference for visual feedback.
//
// The picture is a practice square: white paper with dashed center guides,
// the reference glyph as a tinted ghost, and the user's ink in black on top.
// Each ink pixel becomes a scale×scale block. ghostHex is a "#rrggbb" color;
// an empty or invalid value uses DefaultGhostColor.
func Overlay(user, ref *InkImage, scale int, ghostHex string) (*OverlayResult, error) {
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid drawing: %w", err)
	}
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reference: %w", err)
	}
	if user.Size != ref.Size {
		return nil, fmt.Errorf("size mismatch: drawing is %d, reference is %d", user.Size, ref.Size)
	}
	if scale < 1 {
		scale = 1
	}

	ghost, err := colorful.Hex(ghostHex)
	if err != nil {
		ghost, _ = colorful.Hex(DefaultGhostColor)
	}
	ink := colorful.Color{}

	size := user.Size
	mid := size / 2
	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := paper
			if (x == mid || y == mid) && (x+y)%2 == 0 {
				c = guideColor
			}
			i := y*size + x
			c = c.BlendRgb(ghost, clampUnit(ref.Pix[i]))
			c = c.BlendRgb(ink, clampUnit(user.Pix[i]))
			r, g, b := c.Clamped().RGB255()
			canvas.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}

	out := image.Image(canvas)
	if scale > 1 {
		out = imaging.Resize(canvas, size*scale, size*scale, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       size * scale,
		Height:      size * scale,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
