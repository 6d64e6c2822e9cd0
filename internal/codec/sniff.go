package codec

import (
	"bytes"
	"fmt"
	"image"

	// Containers we recognize only to name them in errors.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/imgconv/internal/convert"
)

// Signatures of the supported containers.
var (
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF} // SOI followed by a marker
)

// Sniff detects the container format from the leading bytes of data.
// Anything other than PNG or JPEG yields an error wrapping
// convert.ErrUnrecognized; other containers Go can identify are named in it.
func Sniff(data []byte) (convert.Format, error) {
	switch {
	case bytes.HasPrefix(data, magicPNG):
		return convert.FormatPNG, nil
	case bytes.HasPrefix(data, magicJPEG):
		return convert.FormatJPEG, nil
	}

	if len(data) == 0 {
		return convert.FormatUnknown, fmt.Errorf("%w: empty input", convert.ErrUnrecognized)
	}
	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return convert.FormatUnknown, convert.ErrUnrecognized
	}
	if _, perr := convert.ParseFormat(name); perr == nil {
		return convert.FormatUnknown, fmt.Errorf("%w: malformed %s signature", convert.ErrUnrecognized, name)
	}
	return convert.FormatUnknown, fmt.Errorf("%w: %s is not supported", convert.ErrUnrecognized, name)
}
