package glyph

import (
	"errors"
	"fmt"
	"image"
	"os"
	"unicode/utf8"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
)

// Scale is the fraction of the canvas the glyph's em square spans.
const Scale = 0.8

var (
	// ErrNoFont is returned by Unavailable for every render.
	ErrNoFont = errors.New("glyph: no font configured")

	// ErrMissingGlyph is returned when the font has no glyph for the character.
	ErrMissingGlyph = errors.New("glyph: character not covered by font")

	// ErrInvalidCharacter is returned for anything other than exactly one rune.
	ErrInvalidCharacter = errors.New("glyph: expected a single character")
)

// Renderer draws characters with a parsed TrueType font. It is safe for
// concurrent use: each call builds its own drawing context.
type Renderer struct {
	font *truetype.Font
}

// New wraps an already parsed font.
func New(f *truetype.Font) *Renderer {
	return &Renderer{font: f}
}

// Parse parses TrueType font data.
func Parse(data []byte) (*Renderer, error) {
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return New(f), nil
}

// Load reads and parses a TrueType font file.
func Load(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	return Parse(data)
}

// Covers reports whether the font has a glyph for r.
func (r *Renderer) Covers(ch rune) bool {
	return r.font.Index(ch) != 0
}

// Render draws character into a size×size ink image.
//
// The glyph's ink bounds are centered on the canvas. The glyph is drawn twice,
// one pixel apart horizontally, to give printed strokes the weight of a pen
// line.
func (r *Renderer) Render(character string, size int) (*imaging.InkImage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("glyph size must be positive, got %d", size)
	}
	if utf8.RuneCountInString(character) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCharacter, character)
	}
	ch, _ := utf8.DecodeRuneInString(character)
	if ch == utf8.RuneError || !r.Covers(ch) {
		return nil, fmt.Errorf("%w: %q", ErrMissingGlyph, character)
	}

	fontSize := Scale * float64(size)
	face := truetype.NewFace(r.font, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	bounds, _, ok := face.GlyphBounds(ch)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingGlyph, character)
	}
	dot := centerDot(bounds, size)

	dst := image.NewAlpha(image.Rect(0, 0, size, size))
	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(r.font)
	c.SetFontSize(fontSize)
	c.SetHinting(font.HintingNone)
	c.SetClip(dst.Bounds())
	c.SetDst(dst)
	c.SetSrc(image.Opaque)

	// Bold: draw twice, half a pixel either side of center.
	half := fixed.Int26_6(32)
	for _, dx := range []fixed.Int26_6{-half, half} {
		if _, err := c.DrawString(character, fixed.Point26_6{X: dot.X + dx, Y: dot.Y}); err != nil {
			return nil, fmt.Errorf("failed to draw %q: %w", character, err)
		}
	}

	out := imaging.NewInkImage(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			out.Pix[y*size+x] = float64(dst.AlphaAt(x, y).A) / 255.0
		}
	}
	return out, nil
}

// centerDot returns the baseline origin that puts the glyph bounds in the
// middle of a size×size canvas.
func centerDot(b fixed.Rectangle26_6, size int) fixed.Point26_6 {
	canvas := fixed.I(size)
	w := b.Max.X - b.Min.X
	h := b.Max.Y - b.Min.Y
	return fixed.Point26_6{
		X: (canvas-w)/2 - b.Min.X,
		Y: (canvas-h)/2 - b.Min.Y,
	}
}

// Unavailable is the renderer used when no font is configured.
type Unavailable struct{}

// Render always fails with ErrNoFont.
func (Unavailable) Render(character string, size int) (*imaging.InkImage, error) {
	return nil, ErrNoFont
}
