package convert

import (
	"errors"
	"fmt"
)

// Loaded holds encoded bytes whose signature matched the declared format.
type Loaded struct {
	codec    Codec
	data     []byte
	format   Format
	consumed bool
}

// Load validates that data's signature matches declared and returns a
// Loaded handle that owns data. Only the signature is inspected; the image
// is not decoded.
func Load(codec Codec, data []byte, declared Format) (*Loaded, error) {
	if codec == nil {
		return nil, errors.New("convert: nil codec")
	}
	if !declared.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, declared)
	}
	detected, err := sniff(codec, data)
	if err != nil {
		return nil, err
	}
	if detected != declared {
		return nil, &FormatMismatchError{Declared: declared, Detected: detected}
	}

	Logger().Debug("loaded", "format", declared, "bytes", len(data))
	return &Loaded{codec: codec, data: data, format: declared}, nil
}

// Format returns the declared (and signature-verified) format.
func (l *Loaded) Format() Format { return l.format }

// Len returns the encoded size in bytes, or 0 once consumed.
func (l *Loaded) Len() int { return len(l.data) }

// Bytes returns the encoded bytes without copying, or nil once consumed.
// The slice must not be modified.
func (l *Loaded) Bytes() []byte { return l.data }

// Decode consumes l and decodes it into RGBA8 pixels.
func (l *Loaded) Decode() (*Raw, error) {
	data, err := l.take()
	if err != nil {
		return nil, err
	}
	return decodeRaw(l.codec, data, l.format)
}

// Reset consumes l, decodes it and checkpoints the result. It is Decode
// followed by (*Raw).Reset.
func (l *Loaded) Reset() ([]byte, Format, *Raw, error) {
	raw, err := l.Decode()
	if err != nil {
		return nil, FormatUnknown, nil, err
	}
	return raw.Reset()
}

func (l *Loaded) take() ([]byte, error) {
	if l == nil || l.consumed {
		return nil, ErrConsumed
	}
	data := l.data
	l.data = nil
	l.consumed = true
	return data, nil
}

// sniff runs the codec's signature probe, guaranteeing that failures
// match ErrUnrecognized and that the result is a supported format.
func sniff(codec Codec, data []byte) (Format, error) {
	f, err := codec.Sniff(data)
	if err != nil {
		if errors.Is(err, ErrUnrecognized) {
			return FormatUnknown, err
		}
		return FormatUnknown, fmt.Errorf("%w: %w", ErrUnrecognized, err)
	}
	if !f.Valid() {
		return FormatUnknown, ErrUnrecognized
	}
	return f, nil
}

func decodeRaw(codec Codec, data []byte, f Format) (*Raw, error) {
	p, err := codec.Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, f, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}

	Logger().Debug("decoded", "format", f, "width", p.Width, "height", p.Height, "bytes", len(data))
	return &Raw{codec: codec, pix: p.Pix, format: f, width: p.Width, height: p.Height}, nil
}
