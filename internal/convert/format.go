package convert

import (
	"fmt"
	"strings"
)

// Format is an encoded image container supported by the pipeline.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
)

// Formats returns the supported formats in priority order.
func Formats() []Format {
	return []Format{FormatJPEG, FormatPNG}
}

// String returns the codec identifier, matching the names registered
// with Go's image package ("jpeg", "png").
func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f == FormatJPEG || f == FormatPNG
}

// ParseFormat maps a codec identifier or file extension to a Format.
// Accepts "jpeg", "jpg", "png" in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
