package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/AnyUserName/imgconv/internal/convert"
)

// PNGEncoder encodes images to PNG using Go's standard library.
type PNGEncoder struct {
	Compression png.CompressionLevel
}

func (e *PNGEncoder) Format() convert.Format { return convert.FormatPNG }
func (e *PNGEncoder) Extension() string      { return "png" }
func (e *PNGEncoder) Available() bool        { return true }

func (e *PNGEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(512 * 1024)

	enc := &png.Encoder{CompressionLevel: e.Compression}
	err := enc.Encode(&buf, img)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
