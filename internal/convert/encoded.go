package convert

import "fmt"

// Encoded holds bytes just produced by EncodeAs.
type Encoded struct {
	codec    Codec
	data     []byte
	format   Format
	consumed bool
}

// Format returns the format the bytes were encoded as.
func (e *Encoded) Format() Format { return e.format }

// Len returns the encoded size in bytes, or 0 once consumed.
func (e *Encoded) Len() int { return len(e.data) }

// Bytes returns the encoded bytes without copying, or nil once consumed.
// The slice must not be modified.
func (e *Encoded) Bytes() []byte { return e.data }

// Reset consumes e, returning its encoded bytes unchanged together with a
// Raw handle decoded from them. The stored format is re-checked against
// the bytes' signature before decoding.
func (e *Encoded) Reset() ([]byte, Format, *Raw, error) {
	data, err := e.take()
	if err != nil {
		return nil, FormatUnknown, nil, err
	}
	detected, err := sniff(e.codec, data)
	if err != nil {
		return nil, FormatUnknown, nil, fmt.Errorf("reset %s: %w", e.format, err)
	}
	if detected != e.format {
		return nil, FormatUnknown, nil, &FormatMismatchError{Declared: e.format, Detected: detected}
	}
	raw, err := decodeRaw(e.codec, data, e.format)
	if err != nil {
		return nil, FormatUnknown, nil, err
	}
	return data, e.format, raw, nil
}

func (e *Encoded) take() ([]byte, error) {
	if e == nil || e.consumed {
		return nil, ErrConsumed
	}
	data := e.data
	e.data = nil
	e.consumed = true
	return data, nil
}
