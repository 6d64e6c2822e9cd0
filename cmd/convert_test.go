package cmd

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/profile"
)

func fixture(w, h int, alpha bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(255)
			if alpha {
				a = uint8(x * 255 / w)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 90, A: a})
		}
	}
	return img
}

func writeFile(t *testing.T, path string, encode func(*bytes.Buffer) error) {
	t.Helper()
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConvertCmd_RejectsMislabeledFile(t *testing.T) {
	dir, out := t.TempDir(), t.TempDir()
	input := filepath.Join(dir, "mislabeled.png")
	writeFile(t, input, func(b *bytes.Buffer) error {
		return jpeg.Encode(b, fixture(16, 16, false), nil)
	})

	rootCmd.SetArgs([]string{"convert", input, "-o", out})
	err := rootCmd.Execute()
	if !errors.Is(err, convert.ErrFormatMismatch) {
		t.Fatalf("expected format mismatch, got %v", err)
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 0 {
		t.Errorf("outputs written for rejected input: %d", len(entries))
	}
}

func TestConvertCmd_ExplicitTargetsOnly(t *testing.T) {
	dir, out := t.TempDir(), t.TempDir()
	input := filepath.Join(dir, "logo.png")
	writeFile(t, input, func(b *bytes.Buffer) error {
		return png.Encode(b, fixture(16, 16, true))
	})

	rootCmd.SetArgs([]string{"convert", input, "--to", "jpeg", "-o", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("convert: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "logo.jpg" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("outputs: %v, want [logo.jpg]", names)
	}
}

func TestResolveTargets(t *testing.T) {
	c := codec.New(profile.Get(profile.DefaultName))
	jpg, pn := convert.FormatJPEG, convert.FormatPNG

	if got := resolveTargets(c, []convert.Format{jpg}, nil, false); !reflect.DeepEqual(got, []convert.Format{jpg}) {
		t.Errorf("explicit, translucent: got %v", got)
	}
	if got := resolveTargets(c, nil, []convert.Format{jpg}, false); !reflect.DeepEqual(got, []convert.Format{jpg, pn}) {
		t.Errorf("profile, translucent: got %v", got)
	}
	if got := resolveTargets(c, nil, nil, true); !reflect.DeepEqual(got, []convert.Format{jpg}) {
		t.Errorf("default, opaque: got %v", got)
	}
}

func TestDeclaredFormat(t *testing.T) {
	if f, err := declaredFormat("photo.JPG", ""); err != nil || f != convert.FormatJPEG {
		t.Errorf("extension: got %v, %v", f, err)
	}
	if f, err := declaredFormat("photo.jpg", "png"); err != nil || f != convert.FormatPNG {
		t.Errorf("--from wins: got %v, %v", f, err)
	}
	if _, err := declaredFormat("photo.bin", ""); !errors.Is(err, convert.ErrUnsupportedFormat) {
		t.Errorf("unknown extension: got %v", err)
	}
}
