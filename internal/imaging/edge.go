package imaging

import "math"

// DetectEdges returns the gradient magnitude of the image.
//
// For each interior pixel the horizontal gradient is the difference between
// its right and left neighbors and the vertical gradient is the difference
// between the pixels below and above; the magnitude is sqrt(gx² + gy²).
//
// The outermost rows and columns are not computed and stay 0. Strokes that
// touch the canvas border therefore lose their outer edge; normalization
// leaves a margin so preprocessed images are not affected.
func DetectEdges(img *InkImage) *InkImage {
	size := img.Size
	edges := NewInkImage(size)

	for y := 1; y < size-1; y++ {
		for x := 1; x < size-1; x++ {
			idx := y*size + x
			gx := img.Pix[idx+1] - img.Pix[idx-1]
			gy := img.Pix[idx+size] - img.Pix[idx-size]
			edges.Pix[idx] = math.Sqrt(gx*gx + gy*gy)
		}
	}
	return edges
}
