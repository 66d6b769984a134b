package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

var paper = colorful.Color{R: 1, G: 1, B: 1}

// LoadImage reads a PNG, JPEG, or GIF file from disk.
func LoadImage(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// DecodeBase64 decodes an image from base64 text.
//
// Both bare base64 and data URLs ("data:image/png;base64,...", as produced by
// a browser canvas) are accepted.
func DecodeBase64(data string) (image.Image, error) {
	if strings.HasPrefix(data, "data:") {
		comma := strings.Index(data, ",")
		if comma < 0 {
			return nil, fmt.Errorf("invalid data URL: missing comma")
		}
		data = data[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// FromImage rasterizes a picture of a drawing into a size×size ink image.
//
// The picture is scaled (up or down) so its longer side spans the square
// canvas, preserving its aspect ratio, and centered on white paper. Each
// pixel is composited over white and its ink is 1 - L*, the CIE lightness in
// [0,1]: black strokes give 1,
// white paper gives 0, and colored pen strokes land in between according to
// how dark they look. Fully transparent pixels carry no ink.
func FromImage(img image.Image, size int) (*InkImage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ink image size must be positive, got %d", size)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("source image is empty")
	}

	canvas := imaging.New(size, size, color.Transparent)
	if bounds.Dx() != size || bounds.Dy() != size {
		// A zero dimension tells Resize to preserve the aspect ratio.
		if bounds.Dx() >= bounds.Dy() {
			img = imaging.Resize(img, size, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, size, imaging.Lanczos)
		}
	}
	canvas = imaging.PasteCenter(canvas, img)

	out := NewInkImage(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out.Pix[y*size+x] = inkOf(canvas.NRGBAAt(x, y))
		}
	}
	return out, nil
}

// inkOf converts one non-premultiplied pixel into an ink value.
func inkOf(c color.NRGBA) float64 {
	if c.A == 0 {
		return 0
	}
	stroke := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	// Composite over white paper by alpha.
	seen := paper.BlendRgb(stroke, float64(c.A)/255.0)
	l, _, _ := seen.Lab()

	ink := 1 - l
	if ink < 0 {
		return 0
	}
	if ink > 1 {
		return 1
	}
	return ink
}

// ToGray renders an ink image as black ink on white paper.
func ToGray(img *InkImage) *image.Gray {
	size := img.Size
	out := image.NewGray(image.Rect(0, 0, size, size))
	for i, v := range img.Pix {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out.Pix[(i/size)*out.Stride+i%size] = uint8((1-v)*255 + 0.5)
	}
	return out
}

// EncodePNGBase64 encodes an ink image as a base64 PNG.
func EncodePNGBase64(img *InkImage) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, ToGray(img)); err != nil {
		return "", fmt.Errorf("failed to encode ink image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SavePNG writes an ink image to path as a grayscale PNG.
func SavePNG(path string, img *InkImage) error {
	if err := imgio.Save(path, ToGray(img), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save ink image: %w", err)
	}
	return nil
}
