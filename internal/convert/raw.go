package convert

import (
	"bytes"
	"errors"
	"fmt"
	"image"
)

// Raw holds decoded RGBA8 pixels. len(pix) == width*height*4.
type Raw struct {
	codec    Codec
	pix      []byte
	format   Format
	width    uint32
	height   uint32
	consumed bool
}

// NewRaw rebuilds a Raw handle from pixels that were produced elsewhere,
// for example a checkpoint read back from disk. It takes ownership of p.Pix.
func NewRaw(codec Codec, p Pixels, f Format) (*Raw, error) {
	if codec == nil {
		return nil, errors.New("convert: nil codec")
	}
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Raw{codec: codec, pix: p.Pix, format: f, width: p.Width, height: p.Height}, nil
}

// Format returns the format the pixels were decoded from. It is the
// format a checkpoint reports, not a constraint on EncodeAs.
func (r *Raw) Format() Format { return r.format }

func (r *Raw) Width() uint32  { return r.width }
func (r *Raw) Height() uint32 { return r.height }

// Len returns the pixel buffer size in bytes, or 0 once consumed.
func (r *Raw) Len() int { return len(r.pix) }

// Image returns an NRGBA view sharing the pixel buffer, or nil once
// consumed. The view must not be modified or retained past the next
// transition.
func (r *Raw) Image() *image.NRGBA {
	if r.pix == nil {
		return nil
	}
	return Pixels{Width: r.width, Height: r.height, Pix: r.pix}.NRGBA()
}

// Opaque reports whether every pixel has alpha 255.
func (r *Raw) Opaque() bool {
	for i := 3; i < len(r.pix); i += 4 {
		if r.pix[i] != 0xff {
			return false
		}
	}
	return true
}

// EncodeAs consumes r and serializes its pixels as target.
func (r *Raw) EncodeAs(target Format) (*Encoded, error) {
	pix, err := r.take()
	if err != nil {
		return nil, err
	}
	return encodePixels(r.codec, Pixels{Width: r.width, Height: r.height, Pix: pix}, target)
}

// Reset consumes r and returns its pixel bytes and format together with a
// new Raw holding a copy of the same pixels. No decoding takes place.
func (r *Raw) Reset() ([]byte, Format, *Raw, error) {
	pix, err := r.take()
	if err != nil {
		return nil, FormatUnknown, nil, err
	}
	clone := &Raw{
		codec:  r.codec,
		pix:    bytes.Clone(pix),
		format: r.format,
		width:  r.width,
		height: r.height,
	}
	return pix, r.format, clone, nil
}

// EncodeAll consumes r and encodes its pixels once per target, in order.
// Pixels are decoded once; each target but the last is encoded from a
// checkpoint. On any failure no output is returned.
func (r *Raw) EncodeAll(targets ...Format) ([]*Encoded, error) {
	if len(targets) == 0 {
		if _, err := r.take(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("encode: no target formats: %w", ErrUnsupportedFormat)
	}

	out := make([]*Encoded, 0, len(targets))
	cur := r
	for _, t := range targets[:len(targets)-1] {
		pix, _, next, err := cur.Reset()
		if err != nil {
			return nil, err
		}
		enc, err := encodePixels(next.codec, Pixels{Width: next.width, Height: next.height, Pix: pix}, t)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
		cur = next
	}

	enc, err := cur.EncodeAs(targets[len(targets)-1])
	if err != nil {
		return nil, err
	}
	return append(out, enc), nil
}

func (r *Raw) take() ([]byte, error) {
	if r == nil || r.consumed {
		return nil, ErrConsumed
	}
	pix := r.pix
	r.pix = nil
	r.consumed = true
	return pix, nil
}

func encodePixels(codec Codec, p Pixels, target Format) (*Encoded, error) {
	// Buffers rebuilt across a boundary may not satisfy the invariant.
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", target, err)
	}
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, target)
	}
	data, err := codec.Encode(p, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, target, err)
	}

	Logger().Debug("encoded", "format", target, "width", p.Width, "height", p.Height, "bytes", len(data))
	return &Encoded{codec: codec, data: data, format: target}, nil
}
