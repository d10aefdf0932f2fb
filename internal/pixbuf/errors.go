package pixbuf

import "errors"

// Error taxonomy shared by every core package. Callers match with errors.Is;
// refinements (invalid level, invalid segment count) wrap ErrInvalidParameter.
var (
	// ErrInvalidBuffer reports zero/negative dimensions, an unsupported
	// channel count or a sample slice whose length does not match.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")

	// ErrInvalidParameter reports an out-of-range option value.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyImage reports an image without any usable pixel.
	ErrEmptyImage = errors.New("empty image")
)
