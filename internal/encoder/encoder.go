package encoder

import (
	"image"

	"github.com/AnyUserName/imgconv/internal/convert"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format.
	Format() convert.Format

	// Encode converts the image to bytes at the given quality (1-100).
	// Lossless encoders ignore quality.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}
