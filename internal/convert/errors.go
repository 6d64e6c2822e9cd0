package convert

import (
	"errors"
	"fmt"
)

// Error kinds returned by the pipeline. Codec failures are wrapped so that
// errors.Is matches both the kind and the codec's own error.
var (
	ErrFormatMismatch    = errors.New("declared format does not match signature")
	ErrUnrecognized      = errors.New("unrecognized image signature")
	ErrDecode            = errors.New("decode failed")
	ErrEncode            = errors.New("encode failed")
	ErrDimensionMismatch = errors.New("pixel buffer does not match dimensions")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrConsumed          = errors.New("image handle already consumed")
)

// FormatMismatchError is returned when the caller's declared format
// disagrees with the format detected from the bytes.
type FormatMismatchError struct {
	Declared Format
	Detected Format
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("declared %s but signature is %s", e.Declared, e.Detected)
}

// Is makes errors.Is(err, ErrFormatMismatch) succeed.
func (e *FormatMismatchError) Is(target error) bool {
	return target == ErrFormatMismatch
}

func dimensionError(w, h uint32, n int) error {
	return fmt.Errorf("%w: %dx%d needs %d bytes, have %d",
		ErrDimensionMismatch, w, h, uint64(w)*uint64(h)*4, n)
}
