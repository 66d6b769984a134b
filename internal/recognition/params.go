package recognition

import (
	"fmt"
	"math"
)

// DefaultSize is the working canvas size, in pixels per side, used when a
// drawing has to be rasterized before recognition.
const DefaultSize = 64

// Params holds every tunable constant of the decision procedure.
//
// The zero value is not useful; start from DefaultParams and override fields.
type Params struct {
	// BlankDensity: drawings with less mean ink than this are blank.
	BlankDensity float64 `json:"blank_density"`

	// StrokeRatio is the fraction of the expected stroke count a drawing must
	// reach, rounded up.
	StrokeRatio float64 `json:"stroke_ratio"`

	// MinStrokes is the floor of the required stroke count.
	MinStrokes int `json:"min_strokes"`

	// StrokeGateMinExpected: characters with fewer expected strokes skip the
	// stroke gate.
	StrokeGateMinExpected int `json:"stroke_gate_min_expected"`

	// MaxCoverage is the largest binarized coverage a preprocessed drawing
	// may have before it is rejected as a scribble.
	MaxCoverage float64 `json:"max_coverage"`

	// MaxCoverageRatio is the largest allowed ratio of the drawing's
	// coverage to the reference's.
	MaxCoverageRatio float64 `json:"max_coverage_ratio"`

	StrokeRejectConfidence   float64 `json:"stroke_reject_confidence"`
	CoverageRejectConfidence float64 `json:"coverage_reject_confidence"`

	// Recognize score weights. They must sum to 1.
	IoUWeight        float64 `json:"iou_weight"`
	StructuralWeight float64 `json:"structural_weight"`
	DensityWeight    float64 `json:"density_weight"`

	// RankCandidates score weights. They must sum to 1.
	RankIoUWeight        float64 `json:"rank_iou_weight"`
	RankStructuralWeight float64 `json:"rank_structural_weight"`

	// Threshold is the default acceptance score.
	Threshold float64 `json:"threshold"`
}

// DefaultParams returns the tuned production parameters.
func DefaultParams() Params {
	return Params{
		BlankDensity:             0.01,
		StrokeRatio:              0.8,
		MinStrokes:               2,
		StrokeGateMinExpected:    3,
		MaxCoverage:              0.6,
		MaxCoverageRatio:         2.5,
		StrokeRejectConfidence:   0.1,
		CoverageRejectConfidence: 0.15,
		IoUWeight:                0.5,
		StructuralWeight:         0.3,
		DensityWeight:            0.2,
		RankIoUWeight:            0.5,
		RankStructuralWeight:     0.5,
		Threshold:                0.35,
	}
}

// Validate checks that every field is in range.
func (p Params) Validate() error {
	checks := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"blank_density", p.BlankDensity, 0, 1},
		{"stroke_ratio", p.StrokeRatio, 0, 1},
		{"max_coverage", p.MaxCoverage, 0, 1},
		{"stroke_reject_confidence", p.StrokeRejectConfidence, 0, 1},
		{"coverage_reject_confidence", p.CoverageRejectConfidence, 0, 1},
		{"iou_weight", p.IoUWeight, 0, 1},
		{"structural_weight", p.StructuralWeight, 0, 1},
		{"density_weight", p.DensityWeight, 0, 1},
		{"rank_iou_weight", p.RankIoUWeight, 0, 1},
		{"rank_structural_weight", p.RankStructuralWeight, 0, 1},
		{"threshold", p.Threshold, 0, 1},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || c.value < c.min || c.value > c.max {
			return fmt.Errorf("%w: %s must be in [%g, %g], got %g", ErrInvalidParams, c.name, c.min, c.max, c.value)
		}
	}

	if p.StrokeRatio == 0 {
		return fmt.Errorf("%w: stroke_ratio must be positive", ErrInvalidParams)
	}
	if p.MaxCoverageRatio <= 0 || math.IsNaN(p.MaxCoverageRatio) {
		return fmt.Errorf("%w: max_coverage_ratio must be positive, got %g", ErrInvalidParams, p.MaxCoverageRatio)
	}
	if p.MinStrokes < 0 || p.StrokeGateMinExpected < 0 {
		return fmt.Errorf("%w: stroke counts must not be negative", ErrInvalidParams)
	}

	const tolerance = 1e-9
	if sum := p.IoUWeight + p.StructuralWeight + p.DensityWeight; math.Abs(sum-1) > tolerance {
		return fmt.Errorf("%w: score weights must sum to 1, got %g", ErrInvalidParams, sum)
	}
	if sum := p.RankIoUWeight + p.RankStructuralWeight; math.Abs(sum-1) > tolerance {
		return fmt.Errorf("%w: rank weights must sum to 1, got %g", ErrInvalidParams, sum)
	}
	return nil
}

// requiredStrokes returns the minimum stroke count accepted for a character
// with the given expected count.
func (p Params) requiredStrokes(expected int) int {
	required := int(math.Ceil(float64(expected) * p.StrokeRatio))
	if required < p.MinStrokes {
		return p.MinStrokes
	}
	return required
}
