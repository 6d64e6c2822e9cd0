// Package checkpoint persists Raw handles so a conversion can resume from
// decoded pixels without the source file. The layout is a fixed header
// followed by a zstd stream of RGBA8 pixels:
//
//	offset size
//	0      4    magic "IMGR"
//	4      1    version (1)
//	5      1    source format (1 = jpeg, 2 = png)
//	6      4    width, big endian
//	10     4    height, big endian
//	14     -    zstd(pixels)
package checkpoint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/AnyUserName/imgconv/internal/convert"
)

const (
	version    = 1
	headerSize = 14

	// maxPayload bounds the pixel buffer a header may announce (2 GiB).
	maxPayload = 1 << 31
)

var magic = []byte("IMGR")

// ErrInvalid is returned for data that is not a checkpoint this package wrote.
var ErrInvalid = errors.New("invalid checkpoint")

// Save consumes raw, writes its pixels to w and returns the Raw to continue
// the conversion with.
func Save(w io.Writer, raw *convert.Raw) (*convert.Raw, error) {
	width, height := raw.Width(), raw.Height()
	pix, f, next, err := raw.Reset()
	if err != nil {
		return nil, err
	}

	hdr := make([]byte, headerSize)
	copy(hdr, magic)
	hdr[4] = version
	hdr[5] = byte(f)
	binary.BigEndian.PutUint32(hdr[6:], width)
	binary.BigEndian.PutUint32(hdr[10:], height)
	if _, err := w.Write(hdr); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	if _, err := enc.Write(pix); err != nil {
		enc.Close()
		return nil, fmt.Errorf("write pixels: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("flush pixels: %w", err)
	}

	convert.Logger().Debug("checkpoint saved", "format", f, "width", width, "height", height)
	return next, nil
}

// Load reads a checkpoint from r into a new Raw handle bound to codec.
// A payload whose length disagrees with the header's dimensions fails with
// convert.ErrDimensionMismatch.
func Load(r io.Reader, codec convert.Codec) (*convert.Raw, error) {
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrInvalid, err)
	}
	if !bytes.Equal(hdr[:4], magic) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalid, hdr[:4])
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalid, hdr[4])
	}
	f := convert.Format(hdr[5])
	width := binary.BigEndian.Uint32(hdr[6:])
	height := binary.BigEndian.Uint32(hdr[10:])

	want := uint64(width) * uint64(height) * 4
	if want > maxPayload {
		return nil, fmt.Errorf("%w: %dx%d exceeds size limit", ErrInvalid, width, height)
	}

	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	// Read one byte past the announced size so oversized payloads are caught.
	pix, err := io.ReadAll(io.LimitReader(dec, int64(want)+1))
	if err != nil {
		return nil, fmt.Errorf("read pixels: %w", err)
	}

	raw, err := convert.NewRaw(codec, convert.Pixels{Width: width, Height: height, Pix: pix}, f)
	if err != nil {
		return nil, fmt.Errorf("restore checkpoint: %w", err)
	}
	convert.Logger().Debug("checkpoint loaded", "format", f, "width", width, "height", height)
	return raw, nil
}

// SaveFile writes a checkpoint to path, see Save.
func SaveFile(path string, raw *convert.Raw) (*convert.Raw, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create checkpoint: %w", err)
	}
	next, err := Save(f, raw)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close checkpoint: %w", cerr)
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return next, nil
}

// LoadFile reads a checkpoint from path, see Load.
func LoadFile(path string, codec convert.Codec) (*convert.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()
	return Load(f, codec)
}
