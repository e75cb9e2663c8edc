package processor

import "errors"

var (
	// ErrDecode marks a source or watermark image that could not be read.
	ErrDecode = errors.New("decode error")
	// ErrWatermarkAsset marks a missing or unusable watermark image.
	ErrWatermarkAsset = errors.New("watermark asset error")
	// ErrEncode marks a failed serialization or invalid export parameters.
	ErrEncode = errors.New("encode error")
	// ErrFontUnavailable is never returned to callers; the font resolver
	// logs it and degrades to the next candidate.
	ErrFontUnavailable = errors.New("font unavailable")

	ErrInvalidSpec  = errors.New("invalid watermark spec")
	ErrSizeMismatch = errors.New("layer size mismatch")
)
