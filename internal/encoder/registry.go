package encoder

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/imgconv/internal/convert"
)

// Registry holds all available encoders, one per format.
type Registry struct {
	encoders map[convert.Format]Encoder
}

// NewRegistry creates a registry from the given encoders, keeping only
// available ones. With no arguments the JPEG and PNG defaults are used.
// A later encoder for the same format replaces an earlier one.
func NewRegistry(encoders ...Encoder) *Registry {
	r := &Registry{
		encoders: make(map[convert.Format]Encoder),
	}

	if len(encoders) == 0 {
		encoders = []Encoder{
			&JPEGEncoder{},
			&PNGEncoder{},
		}
	}

	for _, enc := range encoders {
		if enc != nil && enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(f convert.Format) Encoder {
	return r.encoders[f]
}

// Available returns all available formats in priority order.
func (r *Registry) Available() []convert.Format {
	var result []convert.Format
	for _, f := range convert.Formats() {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// ResolveFormats filters requested formats to those available, dropping
// duplicates, and ensures at least one output format is present.
func (r *Registry) ResolveFormats(requested []convert.Format, hasAlpha bool) []convert.Format {
	var resolved []convert.Format
	seen := map[convert.Format]bool{}

	for _, f := range requested {
		if _, ok := r.encoders[f]; ok && !seen[f] {
			resolved = append(resolved, f)
			seen[f] = true
		}
	}

	if len(resolved) == 0 {
		if hasAlpha {
			if r.encoders[convert.FormatPNG] != nil {
				resolved = append(resolved, convert.FormatPNG)
			}
		} else {
			if r.encoders[convert.FormatJPEG] != nil {
				resolved = append(resolved, convert.FormatJPEG)
			}
		}
	}

	// JPEG drops alpha, so translucent images always get a PNG too.
	if hasAlpha && !seen[convert.FormatPNG] && len(resolved) > 0 &&
		resolved[0] != convert.FormatPNG && r.encoders[convert.FormatPNG] != nil {
		resolved = append(resolved, convert.FormatPNG)
	}

	return resolved
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	names := make([]string, len(avail))
	for i, f := range avail {
		names[i] = f.String()
	}
	return fmt.Sprintf("encoders: %s", strings.Join(names, ", "))
}
