// Package convert implements the image conversion pipeline as a set of
// phase types. Each phase exposes only the operations legal for it:
//
//	Load ──► *Loaded ──Decode──► *Raw ──EncodeAs──► *Encoded
//	                                ▲  │                │
//	                                └──┘ Reset          │ Reset
//	                                ▲                   │
//	                                └───────────────────┘
//
// Every transition consumes its receiver: the receiver's buffers move into
// the result and any further transition on it fails with ErrConsumed.
// Handles are single-owner values and are not safe for concurrent use.
// Distinct handles share nothing and may be used on different goroutines.
package convert

import "fmt"

// Convert loads data declared as from, decodes it and re-encodes it as to.
func Convert(codec Codec, data []byte, from, to Format) ([]byte, error) {
	loaded, err := Load(codec, data, from)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	raw, err := loaded.Decode()
	if err != nil {
		return nil, err
	}
	enc, err := raw.EncodeAs(to)
	if err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}
