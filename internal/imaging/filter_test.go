package imaging

import (
	"math"
	"testing"
)

func TestNormalize_MovesOffCenterBlockTowardCenter(t *testing.T) {
	const size = 32
	img := createBlockAt(size, 8, 0, 0)
	normalized := Normalize(img)

	origX, origY := FindBoundingBox(img, DefaultBoxThreshold).Center()
	normX, normY := FindBoundingBox(normalized, DefaultBoxThreshold).Center()
	canvasCenter := float64(size) / 2

	if math.Abs(normX-canvasCenter) >= math.Abs(origX-canvasCenter) {
		t.Errorf("center X: normalized %.1f not closer to %.1f than original %.1f", normX, canvasCenter, origX)
	}
	if math.Abs(normY-canvasCenter) >= math.Abs(origY-canvasCenter) {
		t.Errorf("center Y: normalized %.1f not closer to %.1f than original %.1f", normY, canvasCenter, origY)
	}
}

func TestNormalize_ScalesUpSmallBlock(t *testing.T) {
	const size = 32
	img := createCenteredBlock(size, 4)
	normalized := Normalize(img)

	origWidth := FindBoundingBox(img, DefaultBoxThreshold).Width()
	normWidth := FindBoundingBox(normalized, DefaultBoxThreshold).Width()
	if normWidth <= origWidth {
		t.Errorf("width: normalized %d, want > original %d", normWidth, origWidth)
	}
	// The drawing should fill the canvas minus the padding.
	if normWidth < 26 || normWidth > 31 {
		t.Errorf("width: normalized %d, want about %d", normWidth, 29)
	}
}

func TestNormalize_KeepsContent(t *testing.T) {
	normalized := Normalize(createCenteredBlock(32, 10))
	if Density(normalized) <= 0 {
		t.Error("normalized centered block lost all ink")
	}
}

func TestNormalize_BlankStaysBlank(t *testing.T) {
	normalized := Normalize(NewInkImage(16))
	if Density(normalized) != 0 {
		t.Errorf("Density: got %v, want 0", Density(normalized))
	}
}

func TestNormalize_ThinLineUnchanged(t *testing.T) {
	img := NewInkImage(16)
	for y := 2; y < 12; y++ {
		img.Set(5, y, 1)
	}

	normalized := Normalize(img)
	for i := range img.Pix {
		if normalized.Pix[i] != img.Pix[i] {
			t.Fatalf("pixel %d: got %v, want %v", i, normalized.Pix[i], img.Pix[i])
		}
	}
	normalized.Pix[0] = 0.5
	if img.Pix[0] != 0 {
		t.Error("Normalize returned the input instead of a copy")
	}
}

func TestNormalize_PreservesAspectRatio(t *testing.T) {
	const size = 32
	img := NewInkImage(size)
	// 4 wide, 8 tall
	for y := 4; y < 12; y++ {
		for x := 4; x < 8; x++ {
			img.Set(x, y, 1)
		}
	}

	box := FindBoundingBox(Normalize(img), DefaultBoxThreshold)
	ratio := float64(box.Height()) / float64(box.Width())
	if ratio < 1.6 || ratio > 2.4 {
		t.Errorf("aspect ratio: got %.2f, want about 2", ratio)
	}
}

func TestGaussianBlur_UniformImage(t *testing.T) {
	for _, sigma := range []float64{0.5, 1.0, 1.5, 2.5} {
		blurred := GaussianBlur(createFilledImage(16, 0.5), sigma)
		for i, v := range blurred.Pix {
			if math.Abs(v-0.5) > 1e-9 {
				t.Fatalf("sigma %.1f pixel %d: got %v, want 0.5", sigma, i, v)
			}
		}
	}
}

func TestGaussianBlur_ConservesEnergy(t *testing.T) {
	img := createCenteredBlock(16, 6)
	for _, sigma := range []float64{1.0, 1.5} {
		blurred := GaussianBlur(img, sigma)
		if math.Abs(blurred.Sum()-img.Sum()) > 1e-6 {
			t.Errorf("sigma %.1f: sum %v, want %v", sigma, blurred.Sum(), img.Sum())
		}
	}
}

func TestGaussianBlur_ClampsAtBorder(t *testing.T) {
	// A block touching the border keeps most of its energy because
	// out-of-range samples reuse the edge pixel instead of reading zero.
	img := createBlockAt(16, 4, 0, 0)
	blurred := GaussianBlur(img, 1.5)
	if blurred.At(0, 0) < 0.9 {
		t.Errorf("corner pixel: got %v, want close to 1", blurred.At(0, 0))
	}
	if math.Abs(blurred.Sum()-img.Sum()) > 0.25*img.Sum() {
		t.Errorf("sum: got %v, want approximately %v", blurred.Sum(), img.Sum())
	}
}

func TestGaussianBlur_SmoothsSharpEdge(t *testing.T) {
	const size = 16
	img := NewInkImage(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size/2; x++ {
			img.Set(x, y, 1)
		}
	}

	blurred := GaussianBlur(img, 1.0)
	origDiff := math.Abs(img.At(7, 8) - img.At(8, 8))
	blurDiff := math.Abs(blurred.At(7, 8) - blurred.At(8, 8))
	if blurDiff >= origDiff {
		t.Errorf("edge step: blurred %v, want < original %v", blurDiff, origDiff)
	}
}

func TestGaussianBlur_SmallSigmaNearlyIdentity(t *testing.T) {
	img := createCenteredBlock(8, 4)
	blurred := GaussianBlur(img, 0.3)
	if math.Abs(blurred.At(4, 4)-img.At(4, 4)) > 0.05 {
		t.Errorf("center: got %v, want about %v", blurred.At(4, 4), img.At(4, 4))
	}
}

func TestGaussianKernel(t *testing.T) {
	tests := []struct {
		name   string
		radius int
		sigma  float64
	}{
		{"radius 1", 1, 1.0},
		{"radius 2", 2, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel := gaussianKernel(tt.radius, tt.sigma)
			side := 2*tt.radius + 1
			if len(kernel) != side*side {
				t.Fatalf("len: got %d, want %d", len(kernel), side*side)
			}
			var sum float64
			for _, w := range kernel {
				sum += w
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("sum: got %v, want 1", sum)
			}
			center := kernel[tt.radius*side+tt.radius]
			for i, w := range kernel {
				if w > center {
					t.Errorf("weight %d (%v) exceeds center weight %v", i, w, center)
				}
			}
		})
	}
}

func TestPreprocess(t *testing.T) {
	if got := Density(Preprocess(NewInkImage(16))); got != 0 {
		t.Errorf("blank: Density got %v, want 0", got)
	}
	if got := Density(Preprocess(createCenteredBlock(32, 10))); got <= 0 {
		t.Errorf("block: Density got %v, want > 0", got)
	}
}

func TestPreprocess_DoesNotModifyInput(t *testing.T) {
	img := createBlockAt(32, 6, 2, 3)
	before := img.Clone()
	Preprocess(img)
	for i := range img.Pix {
		if img.Pix[i] != before.Pix[i] {
			t.Fatalf("pixel %d changed from %v to %v", i, before.Pix[i], img.Pix[i])
		}
	}
}
