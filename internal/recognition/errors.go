package recognition

import "errors"

var (
	// ErrInvalidImage is returned for a nil image or one whose pixel count is
	// not Size².
	ErrInvalidImage = errors.New("recognition: invalid ink image")

	// ErrSizeMismatch is returned when the working size requested by the
	// caller differs from the image's size, or the renderer returns a
	// reference of the wrong size.
	ErrSizeMismatch = errors.New("recognition: image size mismatch")

	// ErrEmptyTarget is returned when no target character is given.
	ErrEmptyTarget = errors.New("recognition: empty target character")

	// ErrRendererUnavailable is returned when a reference is needed but the
	// recognizer has no glyph renderer.
	ErrRendererUnavailable = errors.New("recognition: glyph renderer unavailable")

	// ErrInvalidParams is returned by Params.Validate.
	ErrInvalidParams = errors.New("recognition: invalid parameters")
)
