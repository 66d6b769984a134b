package recognition

import (
	"fmt"
	"math"
	"sort"

	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/imaging"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/logging"
	"github.com/ChanGohi195/kanji-master-3rd-grade/internal/similarity"
)

// GlyphRenderer rasterizes a character into a size×size ink image, bold and
// centered, using a font that covers CJK characters.
//
// Implementations must be deterministic: the same character and size always
// produce the same image.
type GlyphRenderer interface {
	Render(character string, size int) (*imaging.InkImage, error)
}

// RendererFunc adapts an ordinary function to the GlyphRenderer interface.
type RendererFunc func(character string, size int) (*imaging.InkImage, error)

// Render calls f(character, size).
func (f RendererFunc) Render(character string, size int) (*imaging.InkImage, error) {
	return f(character, size)
}

// Stage names the step of the decision procedure that produced a result.
type Stage string

const (
	StageBlank            Stage = "blank"
	StageStrokes          Stage = "strokes"
	StageCoverage         Stage = "coverage"
	StageRelativeCoverage Stage = "relative_coverage"
	StageScored           Stage = "scored"
)

// Options are the per-call inputs to Recognize. Zero values mean "not
// supplied".
type Options struct {
	// UserStrokeCount is the number of pen-down gestures in the drawing.
	UserStrokeCount int `json:"user_stroke_count,omitempty"`

	// ExpectedStrokeCount is the canonical stroke count of the target.
	ExpectedStrokeCount int `json:"expected_stroke_count,omitempty"`

	// Threshold overrides Params.Threshold when positive.
	Threshold float64 `json:"threshold,omitempty"`

	// Size is the working size. When set it must equal the image's size.
	Size int `json:"size,omitempty"`
}

// Result is the verdict for one drawing.
type Result struct {
	Character  string  `json:"character"`
	Confidence float64 `json:"confidence"`
	IsCorrect  bool    `json:"is_correct"`
	Stage      Stage   `json:"stage"`

	// Details is set once the drawing has been preprocessed.
	Details *Details `json:"details,omitempty"`
}

// Details records the measurements behind a result.
type Details struct {
	UserCoverage float64 `json:"user_coverage"`
	RefCoverage  float64 `json:"reference_coverage,omitempty"`
	IoU          float64 `json:"iou,omitempty"`
	Structural   float64 `json:"structural,omitempty"`
	DensityRatio float64 `json:"density_ratio,omitempty"`
}

// Candidate is one entry of a RankCandidates result.
type Candidate struct {
	Character  string  `json:"character"`
	Confidence float64 `json:"confidence"`
}

// Recognizer decides whether a drawing matches a target character.
//
// A Recognizer is safe for concurrent use. Its only mutable state is the
// reference cache.
type Recognizer struct {
	renderer GlyphRenderer
	cache    *ReferenceCache
	params   Params
	logger   *logging.Logger
}

// Option configures a Recognizer.
type Option func(*Recognizer)

// WithCache shares an existing reference cache. By default each Recognizer
// owns a fresh one.
func WithCache(cache *ReferenceCache) Option {
	return func(r *Recognizer) {
		r.cache = cache
	}
}

// WithParams replaces DefaultParams. The caller is expected to have checked
// them with Params.Validate.
func WithParams(p Params) Option {
	return func(r *Recognizer) {
		r.params = p
	}
}

// WithLogger sets the logger for per-call debug output.
func WithLogger(l *logging.Logger) Option {
	return func(r *Recognizer) {
		r.logger = l
	}
}

// New creates a Recognizer that draws reference glyphs with renderer.
//
// renderer may be nil; calls that need a reference then fail with
// ErrRendererUnavailable, while drawings rejected by the early gates are still
// answered.
func New(renderer GlyphRenderer, opts ...Option) *Recognizer {
	r := &Recognizer{
		renderer: renderer,
		params:   DefaultParams(),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewReferenceCache()
	}
	return r
}

// Params returns the parameters in use.
func (r *Recognizer) Params() Params {
	return r.params
}

// Cache returns the reference cache.
func (r *Recognizer) Cache() *ReferenceCache {
	return r.cache
}

// Recognize scores user against the reference glyph for target.
//
// The drawing passes through a fixed sequence of gates, each of which can end
// the call early with a low-confidence result:
//
//  1. Blank: raw mean ink below Params.BlankDensity gives confidence 0.
//  2. Strokes: when both stroke counts are supplied and the target has at
//     least Params.StrokeGateMinExpected strokes, the drawing needs
//     max(MinStrokes, ceil(expected×StrokeRatio)) strokes or it gets
//     StrokeRejectConfidence.
//  3. Coverage: after preprocessing, binarized coverage above
//     Params.MaxCoverage gets CoverageRejectConfidence. No reference is
//     rendered for such drawings.
//  4. Relative coverage: coverage more than Params.MaxCoverageRatio times the
//     reference's gets CoverageRejectConfidence.
//
// A drawing that passes every gate is scored as
// IoUWeight×IoU + StructuralWeight×Structural + DensityWeight×densityRatio
// against the preprocessed reference and accepted when the score reaches the
// threshold.
//
// Rejections are ordinary results. Errors are reserved for invalid input and
// for a reference that cannot be rendered.
func (r *Recognizer) Recognize(user *imaging.InkImage, target string, opts Options) (Result, error) {
	if target == "" {
		return Result{}, ErrEmptyTarget
	}
	size, err := checkImage(user, opts.Size)
	if err != nil {
		return Result{}, err
	}

	threshold := r.params.Threshold
	if opts.Threshold > 0 {
		threshold = opts.Threshold
	}
	p := r.params

	if imaging.Density(user) < p.BlankDensity {
		return r.verdict(target, 0, false, StageBlank, nil), nil
	}

	if opts.UserStrokeCount > 0 && opts.ExpectedStrokeCount >= p.StrokeGateMinExpected && opts.ExpectedStrokeCount > 0 {
		if opts.UserStrokeCount < p.requiredStrokes(opts.ExpectedStrokeCount) {
			return r.verdict(target, p.StrokeRejectConfidence, false, StageStrokes, nil), nil
		}
	}

	processed := imaging.Preprocess(user)
	details := &Details{
		UserCoverage: imaging.Coverage(processed, imaging.DefaultInkThreshold),
	}
	if details.UserCoverage > p.MaxCoverage {
		return r.verdict(target, p.CoverageRejectConfidence, false, StageCoverage, details), nil
	}

	ref, err := r.Reference(target, size)
	if err != nil {
		return Result{}, err
	}

	details.RefCoverage = imaging.Coverage(ref, imaging.DefaultInkThreshold)
	if details.RefCoverage > 0 && details.UserCoverage/details.RefCoverage > p.MaxCoverageRatio {
		return r.verdict(target, p.CoverageRejectConfidence, false, StageRelativeCoverage, details), nil
	}

	details.IoU = similarity.IoU(processed.Pix, ref.Pix, imaging.DefaultInkThreshold)
	details.Structural = similarity.Structural(processed, ref)
	details.DensityRatio = densityRatio(imaging.Density(processed), imaging.Density(ref))

	confidence := p.IoUWeight*details.IoU +
		p.StructuralWeight*details.Structural +
		p.DensityWeight*details.DensityRatio

	return r.verdict(target, confidence, confidence >= threshold, StageScored, details), nil
}

// RankCandidates scores user against every candidate character and returns
// them best first.
//
// Each score is RankIoUWeight×IoU + RankStructuralWeight×Structural of the
// preprocessed images. No gates are applied: the question is which character
// the drawing most resembles, not whether it is acceptable. Candidates with
// equal scores keep their input order.
//
// size may be 0 to use the image's size.
func (r *Recognizer) RankCandidates(user *imaging.InkImage, candidates []string, size int) ([]Candidate, error) {
	size, err := checkImage(user, size)
	if err != nil {
		return nil, err
	}

	processed := imaging.Preprocess(user)
	ranked := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			return nil, ErrEmptyTarget
		}
		ref, err := r.Reference(c, size)
		if err != nil {
			return nil, err
		}
		score := r.params.RankIoUWeight*similarity.IoU(processed.Pix, ref.Pix, imaging.DefaultInkThreshold) +
			r.params.RankStructuralWeight*similarity.Structural(processed, ref)
		ranked = append(ranked, Candidate{Character: c, Confidence: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	return ranked, nil
}

// Reference returns the preprocessed reference glyph for character at size,
// rendering and caching it on first use.
//
// The returned image is shared with the cache; callers must not modify it.
func (r *Recognizer) Reference(character string, size int) (*imaging.InkImage, error) {
	if character == "" {
		return nil, ErrEmptyTarget
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrSizeMismatch, size)
	}

	return r.cache.GetOrCreate(character, size, func() (*imaging.InkImage, error) {
		if r.renderer == nil {
			return nil, ErrRendererUnavailable
		}
		raw, err := r.renderer.Render(character, size)
		if err != nil {
			return nil, fmt.Errorf("failed to render %q: %w", character, err)
		}
		if err := raw.Validate(); err != nil {
			return nil, fmt.Errorf("%w: reference for %q: %v", ErrInvalidImage, character, err)
		}
		if raw.Size != size {
			return nil, fmt.Errorf("%w: reference for %q is %d×%d, want %d×%d",
				ErrSizeMismatch, character, raw.Size, raw.Size, size, size)
		}
		r.logger.Debug("rendered reference", "character", character, "size", size)
		return imaging.Preprocess(raw), nil
	})
}

func (r *Recognizer) verdict(character string, confidence float64, correct bool, stage Stage, details *Details) Result {
	r.logger.Debug("recognition verdict",
		"character", character,
		"stage", stage,
		"confidence", fmt.Sprintf("%.4f", confidence),
		"correct", correct)
	return Result{
		Character:  character,
		Confidence: confidence,
		IsCorrect:  correct,
		Stage:      stage,
		Details:    details,
	}
}

// checkImage validates img and resolves the working size.
func checkImage(img *imaging.InkImage, size int) (int, error) {
	if err := img.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if size == 0 {
		return img.Size, nil
	}
	if size != img.Size {
		return 0, fmt.Errorf("%w: image is %d×%d, size is %d", ErrSizeMismatch, img.Size, img.Size, size)
	}
	return size, nil
}

func densityRatio(a, b float64) float64 {
	hi := math.Max(a, b)
	if hi == 0 {
		return 0
	}
	return math.Min(a, b) / hi
}
