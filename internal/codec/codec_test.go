package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/profile"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func TestSniff_Supported(t *testing.T) {
	img := gradient(16, 8)

	f, err := Sniff(encodePNG(t, img))
	if err != nil || f != convert.FormatPNG {
		t.Errorf("png: got %v, %v", f, err)
	}
	f, err = Sniff(encodeJPEG(t, img))
	if err != nil || f != convert.FormatJPEG {
		t.Errorf("jpeg: got %v, %v", f, err)
	}
}

func TestSniff_Unrecognized(t *testing.T) {
	for name, data := range map[string][]byte{
		"zeros": make([]byte, 16),
		"empty": nil,
		"text":  []byte("definitely not an image"),
	} {
		f, err := Sniff(data)
		if !errors.Is(err, convert.ErrUnrecognized) {
			t.Errorf("%s: expected ErrUnrecognized, got %v", name, err)
		}
		if f != convert.FormatUnknown {
			t.Errorf("%s: format %v", name, f)
		}
	}
}

func TestSniff_NamesOtherContainers(t *testing.T) {
	img := gradient(8, 8)

	var bmpBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, img); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	var gifBuf bytes.Buffer
	if err := gif.Encode(&gifBuf, img, nil); err != nil {
		t.Fatalf("gif encode: %v", err)
	}

	for name, data := range map[string][]byte{"bmp": bmpBuf.Bytes(), "gif": gifBuf.Bytes()} {
		_, err := Sniff(data)
		if !errors.Is(err, convert.ErrUnrecognized) {
			t.Fatalf("%s: expected ErrUnrecognized, got %v", name, err)
		}
		if !strings.Contains(err.Error(), name) {
			t.Errorf("%s: error should name the container: %v", name, err)
		}
	}
}

func TestDecode_GrayPNGNormalized(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(40 * i)
	}

	c := New(profile.Get(profile.DefaultName))
	p, err := c.Decode(encodePNG(t, gray), convert.FormatPNG)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Width != 3 || p.Height != 2 {
		t.Fatalf("dims: %dx%d", p.Width, p.Height)
	}
	if len(p.Pix) != 3*2*4 {
		t.Fatalf("pix len: %d", len(p.Pix))
	}
	for i := 0; i < 6; i++ {
		px := p.Pix[i*4 : i*4+4]
		if px[0] != gray.Pix[i] || px[1] != gray.Pix[i] || px[2] != gray.Pix[i] || px[3] != 0xff {
			t.Errorf("pixel %d: got %v, want gray %d opaque", i, px, gray.Pix[i])
		}
	}
}

func TestDecode_JPEG(t *testing.T) {
	c := New(profile.Get(profile.DefaultName))
	p, err := c.Decode(encodeJPEG(t, gradient(64, 48)), convert.FormatJPEG)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Width != 64 || p.Height != 48 {
		t.Errorf("dims: %dx%d", p.Width, p.Height)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestDecode_Truncated(t *testing.T) {
	c := New(profile.Get(profile.DefaultName))
	data := encodePNG(t, gradient(32, 32))
	if _, err := c.Decode(data[:len(magicPNG)+10], convert.FormatPNG); err == nil {
		t.Error("truncated png decoded")
	}
}

func TestEncode(t *testing.T) {
	c := New(profile.Get("fast"))
	p := ToPixels(gradient(20, 10))

	for _, f := range convert.Formats() {
		data, err := c.Encode(p, f)
		if err != nil {
			t.Fatalf("encode %s: %v", f, err)
		}
		got, err := Sniff(data)
		if err != nil || got != f {
			t.Errorf("encode %s: sniffed %v, %v", f, got, err)
		}
	}
}

func TestEncode_DimensionMismatch(t *testing.T) {
	c := New(profile.Get(profile.DefaultName))
	p := convert.Pixels{Width: 4, Height: 4, Pix: make([]byte, 10)}
	if _, err := c.Encode(p, convert.FormatPNG); !errors.Is(err, convert.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestConfig(t *testing.T) {
	c := New(profile.Get(profile.DefaultName))
	cfg, err := c.Config(encodeJPEG(t, gradient(40, 30)), convert.FormatJPEG)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("dims: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestToPixels_SubImage(t *testing.T) {
	src := gradient(10, 10)
	sub := src.SubImage(image.Rect(2, 3, 6, 5))

	p := ToPixels(sub)
	if p.Width != 4 || p.Height != 2 {
		t.Fatalf("dims: %dx%d", p.Width, p.Height)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := src.NRGBAAt(2, 3)
	if got := (color.NRGBA{R: p.Pix[0], G: p.Pix[1], B: p.Pix[2], A: p.Pix[3]}); got != want {
		t.Errorf("first pixel: got %v, want %v", got, want)
	}
}

func TestToPixels_Unpremultiplies(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 64, G: 0, B: 0, A: 128})

	p := ToPixels(src)
	if p.Pix[3] != 128 {
		t.Errorf("alpha: got %d", p.Pix[3])
	}
	if p.Pix[0] <= 64 {
		t.Errorf("red should be unpremultiplied, got %d", p.Pix[0])
	}
}
