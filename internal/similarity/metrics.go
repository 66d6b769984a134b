package similarity

import (
	"math"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
)

const (
	// EdgeThreshold binarizes edge maps before Structural compares them.
	EdgeThreshold = 0.05

	// DefaultGridSize is the number of cells per side used by SpatialVariance.
	DefaultGridSize = 4
)

// Cosine returns the cosine similarity of two equal-length vectors.
//
// The result is 0 when either vector has zero norm. Ink values are
// non-negative, so the result lies in [0,1].
func Cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SoftF1 returns the harmonic mean of soft precision and recall.
//
// Overlap at each pixel is min(user, ref). Precision is the overlap divided by
// the user's total ink; recall is the overlap divided by the reference's total
// ink. If either total is 0, or both ratios are 0, the result is 0.
func SoftF1(user, ref []float64) float64 {
	var overlap, sumUser, sumRef float64
	for i := range user {
		overlap += math.Min(user[i], ref[i])
		sumUser += user[i]
		sumRef += ref[i]
	}
	if sumUser == 0 || sumRef == 0 {
		return 0
	}
	precision := overlap / sumUser
	recall := overlap / sumRef
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// IoU binarizes both vectors at threshold and returns intersection over union.
//
// A pixel is inked when its value is strictly greater than threshold. An
// empty union yields 0.
func IoU(a, b []float64, threshold float64) float64 {
	intersection, union := 0, 0
	for i := range a {
		inA := a[i] > threshold
		inB := b[i] > threshold
		if inA && inB {
			intersection++
		}
		if inA || inB {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Structural compares the outlines of two images: the IoU of their edge maps
// binarized at EdgeThreshold.
func Structural(a, b *imaging.InkImage) float64 {
	return IoU(imaging.DetectEdges(a).Pix, imaging.DetectEdges(b).Pix, EdgeThreshold)
}

// SpatialVariance measures how unevenly ink is spread across the canvas.
//
// The image is split into gridSize×gridSize cells of size/gridSize pixels
// (trailing pixels that do not fill a cell are ignored). The result is the
// population standard deviation of the cell means divided by their mean, or 0
// when the mean is effectively zero. A cross scores high; uniform noise scores
// low.
func SpatialVariance(img *imaging.InkImage, gridSize int) float64 {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	cellSize := img.Size / gridSize
	if cellSize == 0 {
		return 0
	}

	cells := make([]float64, 0, gridSize*gridSize)
	for gy := 0; gy < gridSize; gy++ {
		for gx := 0; gx < gridSize; gx++ {
			var sum float64
			for y := gy * cellSize; y < (gy+1)*cellSize; y++ {
				for x := gx * cellSize; x < (gx+1)*cellSize; x++ {
					sum += img.Pix[y*img.Size+x]
				}
			}
			cells = append(cells, sum/float64(cellSize*cellSize))
		}
	}

	var mean float64
	for _, c := range cells {
		mean += c
	}
	mean /= float64(len(cells))
	if mean < 1e-10 {
		return 0
	}

	var variance float64
	for _, c := range cells {
		d := c - mean
		variance += d * d
	}
	variance /= float64(len(cells))
	return math.Sqrt(variance) / mean
}

// Report holds every metric for one pair of images.
type Report struct {
	Cosine          float64 `json:"cosine"`
	SoftF1          float64 `json:"soft_f1"`
	IoU             float64 `json:"iou"`
	Structural      float64 `json:"structural"`
	UserVariance    float64 `json:"user_spatial_variance"`
	RefVariance     float64 `json:"reference_spatial_variance"`
	UserCoverage    float64 `json:"user_coverage"`
	RefCoverage     float64 `json:"reference_coverage"`
	UserDensity     float64 `json:"user_density"`
	RefDensity      float64 `json:"reference_density"`
	CoverageRatio   float64 `json:"coverage_ratio"`
	PreprocessedIoU float64 `json:"preprocessed_iou"`
}

// Compare scores user against ref with every metric.
//
// The raw metrics compare the images as given. PreprocessedIoU repeats the IoU
// after both have gone through imaging.Preprocess, which is what the
// recognizer actually scores. CoverageRatio is 0 when the reference has no
// coverage.
func Compare(user, ref *imaging.InkImage) Report {
	userCov := imaging.Coverage(user, imaging.DefaultInkThreshold)
	refCov := imaging.Coverage(ref, imaging.DefaultInkThreshold)

	var ratio float64
	if refCov > 0 {
		ratio = userCov / refCov
	}

	return Report{
		Cosine:          Cosine(user.Pix, ref.Pix),
		SoftF1:          SoftF1(user.Pix, ref.Pix),
		IoU:             IoU(user.Pix, ref.Pix, imaging.DefaultInkThreshold),
		Structural:      Structural(user, ref),
		UserVariance:    SpatialVariance(user, DefaultGridSize),
		RefVariance:     SpatialVariance(ref, DefaultGridSize),
		UserCoverage:    userCov,
		RefCoverage:     refCov,
		UserDensity:     imaging.Density(user),
		RefDensity:      imaging.Density(ref),
		CoverageRatio:   ratio,
		PreprocessedIoU: IoU(imaging.Preprocess(user).Pix, imaging.Preprocess(ref).Pix, imaging.DefaultInkThreshold),
	}
}
