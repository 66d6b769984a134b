package imaging

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// createCanvasImage creates a white canvas with a black square stroke area,
// like a capture from a drawing canvas.
func createCanvasImage(width, height int, r image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image.Pt(x, y).In(r) {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func TestFromImage_BlackOnWhite(t *testing.T) {
	src := createCanvasImage(16, 16, image.Rect(4, 4, 12, 12))

	ink, err := FromImage(src, 16)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if ink.Size != 16 {
		t.Fatalf("Size: got %d, want 16", ink.Size)
	}
	if v := ink.At(8, 8); v < 0.99 {
		t.Errorf("stroke pixel: got %v, want ~1", v)
	}
	if v := ink.At(1, 1); v > 0.01 {
		t.Errorf("paper pixel: got %v, want ~0", v)
	}
	if got := Coverage(ink, DefaultInkThreshold); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Coverage: got %v, want 0.25", got)
	}
}

func TestFromImage_Resizes(t *testing.T) {
	src := createCanvasImage(128, 128, image.Rect(32, 32, 96, 96))

	ink, err := FromImage(src, 32)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if len(ink.Pix) != 32*32 {
		t.Fatalf("len(Pix): got %d, want %d", len(ink.Pix), 32*32)
	}
	box := FindBoundingBox(ink, 0.5)
	if box.MinX < 6 || box.MinX > 9 || box.MaxX < 22 || box.MaxX > 25 {
		t.Errorf("bounding box after resize: got %+v, want about {8 8 23 23}", box)
	}
}

func TestFromImage_NonSquareIsCentered(t *testing.T) {
	// Wide picture: fitted by width, letterboxed vertically.
	src := createCanvasImage(64, 32, image.Rect(0, 0, 64, 32))

	ink, err := FromImage(src, 32)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if v := ink.At(16, 0); v != 0 {
		t.Errorf("letterbox pixel: got %v, want 0", v)
	}
	if v := ink.At(16, 16); v < 0.9 {
		t.Errorf("center pixel: got %v, want ~1", v)
	}
}

func TestFromImage_TransparentIsBlank(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.SetNRGBA(3, 3, color.NRGBA{0, 0, 0, 255})

	ink, err := FromImage(src, 8)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if v := ink.At(0, 0); v != 0 {
		t.Errorf("transparent pixel: got %v, want 0", v)
	}
	if v := ink.At(3, 3); v < 0.99 {
		t.Errorf("opaque black pixel: got %v, want ~1", v)
	}
}

func TestFromImage_Errors(t *testing.T) {
	if _, err := FromImage(image.NewRGBA(image.Rect(0, 0, 4, 4)), 0); err == nil {
		t.Error("size 0: expected error")
	}
	if _, err := FromImage(image.NewRGBA(image.Rectangle{}), 8); err == nil {
		t.Error("empty source: expected error")
	}
}

func TestInkOf(t *testing.T) {
	tests := []struct {
		name     string
		c        color.NRGBA
		min, max float64
	}{
		{"black", color.NRGBA{0, 0, 0, 255}, 0.99, 1},
		{"white", color.NRGBA{255, 255, 255, 255}, 0, 0.01},
		{"transparent black", color.NRGBA{0, 0, 0, 0}, 0, 0},
		{"half transparent black", color.NRGBA{0, 0, 0, 128}, 0.3, 0.7},
		{"red pen", color.NRGBA{220, 30, 30, 255}, 0.4, 0.7},
		{"dark blue pen", color.NRGBA{20, 20, 120, 255}, 0.75, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inkOf(tt.c)
			if got < tt.min || got > tt.max {
				t.Errorf("inkOf(%v): got %.3f, want in [%.2f, %.2f]", tt.c, got, tt.min, tt.max)
			}
		})
	}
}

func TestToGray(t *testing.T) {
	ink := &InkImage{Size: 2, Pix: []float64{0, 1, 0.5, 2}}
	gray := ToGray(ink)

	want := []uint8{255, 0, 128, 0}
	for i, w := range want {
		x, y := i%2, i/2
		if got := gray.GrayAt(x, y).Y; got != w {
			t.Errorf("pixel (%d,%d): got %d, want %d", x, y, got, w)
		}
	}
}

func TestEncodeDecodeBase64(t *testing.T) {
	ink := createCenteredBlock(16, 8)

	encoded, err := EncodePNGBase64(ink)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}

	for _, data := range []string{encoded, "data:image/png;base64," + encoded} {
		img, err := DecodeBase64(data)
		if err != nil {
			t.Fatalf("DecodeBase64 failed: %v", err)
		}
		back, err := FromImage(img, 16)
		if err != nil {
			t.Fatalf("FromImage failed: %v", err)
		}
		for i := range ink.Pix {
			if math.Abs(back.Pix[i]-ink.Pix[i]) > 0.01 {
				t.Fatalf("pixel %d: got %v, want %v", i, back.Pix[i], ink.Pix[i])
			}
		}
	}
}

func TestDecodeBase64_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not base64", "!!!"},
		{"data URL without comma", "data:image/png;base64"},
		{"not an image", "aGVsbG8gd29ybGQ="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeBase64(tt.data); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveAndLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ink.png")
	ink := createBlockAt(16, 5, 2, 3)

	if err := SavePNG(path, ink); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	back, err := FromImage(img, 16)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if got := FindBoundingBox(back, 0.5); got != (BoundingBox{2, 3, 6, 7}) {
		t.Errorf("bounding box: got %+v, want {2 3 6 7}", got)
	}
}

func TestLoadImage_Errors(t *testing.T) {
	if _, err := LoadImage("/nonexistent/path/to/image.png"); err == nil {
		t.Error("nonexistent file: expected error")
	}

	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := LoadImage(path); err == nil {
		t.Error("invalid file: expected error")
	}
}

func TestLoadImage_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	if err := png.Encode(f, createCanvasImage(20, 10, image.Rect(0, 0, 5, 5))); err != nil {
		f.Close()
		t.Fatalf("failed to encode: %v", err)
	}
	f.Close()

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds: got %dx%d, want 20x10", b.Dx(), b.Dy())
	}
}

func TestFromImage_UpscalesSmallCapture(t *testing.T) {
	src := createCanvasImage(8, 8, image.Rect(2, 2, 6, 6))

	ink, err := FromImage(src, 32)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	box := FindBoundingBox(ink, 0.5)
	if box.Width() < 14 || box.Width() > 18 {
		t.Errorf("bounding box width after upscale: got %d, want about 16", box.Width())
	}
	if v := ink.At(16, 16); v < 0.9 {
		t.Errorf("center pixel: got %v, want ~1", v)
	}
}
