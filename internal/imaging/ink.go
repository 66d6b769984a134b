package imaging

import "fmt"

const (
	// DefaultBoxThreshold is the ink level above which a pixel counts toward
	// the bounding box.
	DefaultBoxThreshold = 0.05

	// DefaultInkThreshold is the binarization level used for coverage and IoU.
	DefaultInkThreshold = 0.15
)

// InkImage is a square grid of ink densities.
//
// Each value lies in [0,1], where 0 is untouched paper and 1 is fully inked.
// Pixels are stored row-major, so the pixel at (x, y) lives at Pix[y*Size+x].
// Functions in this package never modify their inputs; transforms allocate a
// new image.
type InkImage struct {
	// Size is the width and height of the grid in pixels.
	Size int `json:"size"`

	// Pix holds Size*Size ink values.
	Pix []float64 `json:"pix"`
}

// NewInkImage returns a blank size×size image.
func NewInkImage(size int) *InkImage {
	return &InkImage{
		Size: size,
		Pix:  make([]float64, size*size),
	}
}

// InkImageFromSlice wraps pix as a size×size image after checking its length.
func InkImageFromSlice(size int, pix []float64) (*InkImage, error) {
	img := &InkImage{Size: size, Pix: pix}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// Validate reports whether the image is internally consistent.
func (img *InkImage) Validate() error {
	if img == nil {
		return fmt.Errorf("ink image is nil")
	}
	if img.Size <= 0 {
		return fmt.Errorf("ink image size must be positive, got %d", img.Size)
	}
	if len(img.Pix) != img.Size*img.Size {
		return fmt.Errorf("ink image has %d pixels, want %d for size %d",
			len(img.Pix), img.Size*img.Size, img.Size)
	}
	return nil
}

// At returns the ink value at (x, y). Coordinates must be inside the grid.
func (img *InkImage) At(x, y int) float64 {
	return img.Pix[y*img.Size+x]
}

// Set stores v at (x, y).
func (img *InkImage) Set(x, y int, v float64) {
	img.Pix[y*img.Size+x] = v
}

// Clone returns a deep copy.
func (img *InkImage) Clone() *InkImage {
	out := NewInkImage(img.Size)
	copy(out.Pix, img.Pix)
	return out
}

// Sum returns the total ink in the image.
func (img *InkImage) Sum() float64 {
	var sum float64
	for _, v := range img.Pix {
		sum += v
	}
	return sum
}

// BoundingBox is an inclusive pixel range containing ink.
type BoundingBox struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Width returns the number of columns covered by the box.
func (b BoundingBox) Width() int { return b.MaxX - b.MinX + 1 }

// Height returns the number of rows covered by the box.
func (b BoundingBox) Height() int { return b.MaxY - b.MinY + 1 }

// Center returns the midpoint of the box in pixel coordinates.
func (b BoundingBox) Center() (float64, float64) {
	return float64(b.MinX+b.MaxX) / 2, float64(b.MinY+b.MaxY) / 2
}

// Density returns the mean ink value over the whole image.
//
// It is the cheapest "how much was drawn" signal and drives the blank check.
func Density(img *InkImage) float64 {
	if len(img.Pix) == 0 {
		return 0
	}
	return img.Sum() / float64(len(img.Pix))
}

// FindBoundingBox returns the tightest box containing values above threshold.
//
// An image with no ink above threshold yields the full canvas
// {0, 0, size-1, size-1}, so callers that divide by the box extent never see
// a zero-sized box.
func FindBoundingBox(img *InkImage, threshold float64) BoundingBox {
	size := img.Size
	minX, minY := size, size
	maxX, maxY := -1, -1

	for y := 0; y < size; y++ {
		row := img.Pix[y*size : (y+1)*size]
		for x, v := range row {
			if v <= threshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return BoundingBox{MinX: 0, MinY: 0, MaxX: size - 1, MaxY: size - 1}
	}
	return BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// BilinearSample interpolates the image at a continuous coordinate.
//
// The four surrounding pixels are blended by their distance to (x, y). When
// the floor of either coordinate falls outside [0, size) the sample is blank
// (0) rather than an error. Neighbors past the last row or column reuse the
// edge pixel.
func BilinearSample(img *InkImage, x, y float64) float64 {
	size := img.Size
	x0 := floorInt(x)
	y0 := floorInt(y)
	if x0 < 0 || y0 < 0 || x0 >= size || y0 >= size {
		return 0
	}
	x1 := clamp(x0+1, 0, size-1)
	y1 := clamp(y0+1, 0, size-1)

	fx := x - float64(x0)
	fy := y - float64(y0)

	v00 := img.Pix[y0*size+x0]
	v10 := img.Pix[y0*size+x1]
	v01 := img.Pix[y1*size+x0]
	v11 := img.Pix[y1*size+x1]

	top := v00*(1-fx) + v10*fx
	bottom := v01*(1-fx) + v11*fx
	return top*(1-fy) + bottom*fy
}

// Binarize maps every pixel to 1 if it exceeds threshold and 0 otherwise.
func Binarize(img *InkImage, threshold float64) *InkImage {
	out := NewInkImage(img.Size)
	for i, v := range img.Pix {
		if v > threshold {
			out.Pix[i] = 1
		}
	}
	return out
}

// Coverage returns the fraction of pixels whose ink exceeds threshold.
//
// It equals Density(Binarize(img, threshold)) without allocating.
func Coverage(img *InkImage, threshold float64) float64 {
	if len(img.Pix) == 0 {
		return 0
	}
	count := 0
	for _, v := range img.Pix {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(img.Pix))
}

func floorInt(v float64) int {
	i := int(v)
	if float64(i) > v {
		i--
	}
	return i
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
