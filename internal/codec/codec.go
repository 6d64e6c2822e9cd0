// Package codec is the default pixel codec behind the conversion pipeline:
// signature sniffing, JPEG decoding via jpegn, PNG decoding via image/png,
// RGBA8 normalization via imaging, and encoding through the encoder registry.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/encoder"
	"github.com/AnyUserName/imgconv/internal/profile"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/jpegn"
)

// Codec implements convert.Codec.
type Codec struct {
	registry *encoder.Registry
	quality  int
}

var _ convert.Codec = (*Codec)(nil)

// New creates a codec encoding with the parameters of prof.
func New(prof profile.Profile) *Codec {
	return &Codec{
		registry: encoder.NewRegistry(
			&encoder.JPEGEncoder{},
			&encoder.PNGEncoder{Compression: prof.PNGCompression},
		),
		quality: prof.Quality,
	}
}

// Registry returns the encoders used by Encode.
func (c *Codec) Registry() *encoder.Registry { return c.registry }

// Sniff implements convert.Codec.
func (c *Codec) Sniff(data []byte) (convert.Format, error) {
	return Sniff(data)
}

// Decode implements convert.Codec. The result is always tightly packed,
// non-premultiplied RGBA8 regardless of the source color model.
func (c *Codec) Decode(data []byte, f convert.Format) (convert.Pixels, error) {
	var (
		img image.Image
		err error
	)
	switch f {
	case convert.FormatJPEG:
		img, err = jpegn.Decode(bytes.NewReader(data), &jpegn.Options{ToRGBA: true})
	case convert.FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return convert.Pixels{}, fmt.Errorf("%w: %s", convert.ErrUnsupportedFormat, f)
	}
	if err != nil {
		return convert.Pixels{}, err
	}
	return ToPixels(img), nil
}

// Encode implements convert.Codec.
func (c *Codec) Encode(p convert.Pixels, f convert.Format) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	enc := c.registry.Get(f)
	if enc == nil {
		return nil, fmt.Errorf("no encoder for %s", f)
	}
	return enc.Encode(p.NRGBA(), c.quality)
}

// Config reads the dimensions and color model of data without decoding
// the pixels.
func (c *Codec) Config(data []byte, f convert.Format) (image.Config, error) {
	switch f {
	case convert.FormatJPEG:
		return jpegn.DecodeConfig(bytes.NewReader(data))
	case convert.FormatPNG:
		return png.DecodeConfig(bytes.NewReader(data))
	}
	return image.Config{}, fmt.Errorf("%w: %s", convert.ErrUnsupportedFormat, f)
}

// ToPixels canonicalizes any image into RGBA8 pixels anchored at (0,0).
func ToPixels(img image.Image) convert.Pixels {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) || nrgba.Stride != b.Dx()*4 {
		nrgba = imaging.Clone(img)
	}
	return convert.Pixels{
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Pix:    nrgba.Pix[:b.Dx()*b.Dy()*4],
	}
}
