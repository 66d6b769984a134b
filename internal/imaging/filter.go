package imaging

import "math"

const (
	// PaddingRatio is the margin left on each side of a normalized drawing,
	// as a fraction of the canvas size.
	PaddingRatio = 0.05

	// PreprocessSigma is the blur strength applied after normalization.
	PreprocessSigma = 1.5
)

// Normalize crops the inked region, rescales it to fill the canvas minus a
// small margin, and centers it.
//
// The scale factor is uniform, so the drawing keeps its aspect ratio. Each
// destination pixel is mapped back into source coordinates and read with
// BilinearSample. If the inked region is one pixel wide or tall (or less) the
// image is returned unchanged as a copy.
//
// The effect is that two drawings of the same shape at different positions
// and sizes end up registered on top of each other.
func Normalize(img *InkImage) *InkImage {
	size := img.Size
	box := FindBoundingBox(img, DefaultBoxThreshold)
	bw := box.Width()
	bh := box.Height()
	if bw <= 1 || bh <= 1 {
		return img.Clone()
	}

	padding := float64(size) * PaddingRatio
	target := float64(size) - 2*padding
	scale := math.Min(target/float64(bw), target/float64(bh))

	newW := float64(bw) * scale
	newH := float64(bh) * scale
	offX := int((float64(size) - newW) / 2)
	offY := int((float64(size) - newH) / 2)

	out := NewInkImage(size)
	for dy := 0; dy < size; dy++ {
		ry := float64(dy - offY)
		if ry < 0 || ry >= newH {
			continue
		}
		sy := float64(box.MinY) + ry/scale
		for dx := 0; dx < size; dx++ {
			rx := float64(dx - offX)
			if rx < 0 || rx >= newW {
				continue
			}
			sx := float64(box.MinX) + rx/scale
			out.Pix[dy*size+dx] = BilinearSample(img, sx, sy)
		}
	}
	return out
}

// GaussianBlur convolves the image with a normalized Gaussian kernel.
//
// The kernel radius is 1 for sigma < 1.5 and 2 otherwise. Samples that fall
// outside the canvas are clamped to the nearest edge pixel instead of being
// treated as blank, which keeps the total ink close to the input's.
func GaussianBlur(img *InkImage, sigma float64) *InkImage {
	size := img.Size
	radius := 1
	if sigma >= 1.5 {
		radius = 2
	}
	kernel := gaussianKernel(radius, sigma)
	side := 2*radius + 1

	out := NewInkImage(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			var sum float64
			for ky := -radius; ky <= radius; ky++ {
				py := clamp(y+ky, 0, size-1)
				for kx := -radius; kx <= radius; kx++ {
					px := clamp(x+kx, 0, size-1)
					sum += img.Pix[py*size+px] * kernel[(ky+radius)*side+kx+radius]
				}
			}
			out.Pix[y*size+x] = sum
		}
	}
	return out
}

// gaussianKernel builds a (2r+1)×(2r+1) kernel whose weights sum to 1.
func gaussianKernel(radius int, sigma float64) []float64 {
	side := 2*radius + 1
	kernel := make([]float64, side*side)
	twoSigmaSq := 2 * sigma * sigma

	var total float64
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			w := math.Exp(-float64(dx*dx+dy*dy) / twoSigmaSq)
			kernel[(dy+radius)*side+dx+radius] = w
			total += w
		}
	}
	for i := range kernel {
		kernel[i] /= total
	}
	return kernel
}

// Preprocess is the canonical transform applied to both the user's drawing
// and the reference glyph before any comparison: Normalize, then
// GaussianBlur with PreprocessSigma.
func Preprocess(img *InkImage) *InkImage {
	return GaussianBlur(Normalize(img), PreprocessSigma)
}
