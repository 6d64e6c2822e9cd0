package convert

import "image"

// Codec performs the pixel-level work the pipeline delegates: signature
// sniffing, full decode into RGBA8 and encode from RGBA8.
type Codec interface {
	// Sniff infers the container format from content alone.
	// Returns an error wrapping ErrUnrecognized when no supported signature matches.
	Sniff(data []byte) (Format, error)

	// Decode parses data as format f into canonical RGBA8 pixels.
	Decode(data []byte, f Format) (Pixels, error)

	// Encode serializes canonical RGBA8 pixels into format f.
	Encode(p Pixels, f Format) ([]byte, error)
}

// Pixels is an uncompressed, non-premultiplied RGBA8 buffer,
// 4 bytes per pixel, rows packed without padding.
type Pixels struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// Validate checks len(Pix) == Width*Height*4.
func (p Pixels) Validate() error {
	if uint64(len(p.Pix)) != uint64(p.Width)*uint64(p.Height)*4 {
		return dimensionError(p.Width, p.Height, len(p.Pix))
	}
	return nil
}

// NRGBA returns an image view sharing p.Pix. Callers must Validate first.
func (p Pixels) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: int(p.Width) * 4,
		Rect:   image.Rect(0, 0, int(p.Width), int(p.Height)),
	}
}
