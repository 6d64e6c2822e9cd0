package encoder

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/AnyUserName/imgconv/internal/convert"
)

// DefaultJPEGQuality is used when the caller passes a quality outside 1-100.
const DefaultJPEGQuality = 82

// JPEGEncoder encodes images to JPEG using Go's standard library.
// JPEG has no alpha channel; translucent pixels are flattened by image/jpeg.
type JPEGEncoder struct{}

func (e *JPEGEncoder) Format() convert.Format { return convert.FormatJPEG }
func (e *JPEGEncoder) Extension() string      { return "jpg" }
func (e *JPEGEncoder) Available() bool        { return true }

func (e *JPEGEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024) // typical photo output

	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
