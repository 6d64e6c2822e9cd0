package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/hasher"
	"github.com/AnyUserName/imgconv/internal/manifest"
)

// processResult holds the result of converting a single source image.
type processResult struct {
	key            string
	asset          manifest.Asset
	err            error
	skippedRegress int // outputs skipped because larger than original
}

// processImage converts one source: load (signature check against the
// extension), decode once, encode every target, write the outputs.
func processImage(src Source, cfg Config, c *codec.Codec) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}

	loaded, err := convert.Load(c, data, src.Format)
	if err != nil {
		result.err = fmt.Errorf("load %s: %w", src.RelPath, err)
		return result
	}
	raw, err := loaded.Decode()
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	w, h := raw.Width(), raw.Height()
	hasAlpha := !raw.Opaque()

	result.asset = manifest.Asset{
		Original: manifest.OriginalInfo{
			Path:     src.RelPath,
			Width:    int(w),
			Height:   int(h),
			Format:   src.Format,
			Size:     src.Size,
			HasAlpha: hasAlpha,
		},
	}

	requested := cfg.Targets
	if len(requested) == 0 {
		requested = cfg.Profile.Formats
	}
	formats := c.Registry().ResolveFormats(requested, hasAlpha)

	outputs, err := raw.EncodeAll(formats...)
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}

	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755); err != nil {
			result.err = fmt.Errorf("create output dir: %w", err)
			return result
		}
	}

	sizes := make([]int, len(outputs))
	for i, enc := range outputs {
		sizes[i] = enc.Len()
	}
	keep := make([]bool, len(outputs))
	for i := range keep {
		keep[i] = true
	}
	if cfg.NoRegressSize {
		keep = keepNonRegressing(sizes, src.Size)
	}

	for i, enc := range outputs {
		out := enc.Bytes()

		if !keep[i] {
			convert.Logger().Debug("skip output larger than original",
				"key", src.Key, "format", enc.Format(), "bytes", len(out), "original", src.Size)
			result.skippedRegress++
			continue
		}

		contentHash := hasher.ContentHash(out, 16)
		relPath := OutputPath(src.Key, w, h, contentHash, c.Registry().Get(enc.Format()).Extension())

		if err := os.WriteFile(filepath.Join(cfg.OutputDir, relPath), out, 0o644); err != nil {
			result.err = fmt.Errorf("write %s: %w", relPath, err)
			return result
		}

		result.asset.Outputs = append(result.asset.Outputs, manifest.Output{
			Format: enc.Format(),
			Size:   int64(len(out)),
			Hash:   contentHash,
			Path:   relPath,
		})
	}

	return result
}

// keepNonRegressing marks the outputs smaller than the original. When none
// is, the smallest one is kept so every asset has at least one output.
func keepNonRegressing(sizes []int, original int64) []bool {
	keep := make([]bool, len(sizes))
	smallest, kept := -1, false
	for i, n := range sizes {
		if int64(n) < original {
			keep[i] = true
			kept = true
		}
		if smallest < 0 || n < sizes[smallest] {
			smallest = i
		}
	}
	if !kept && smallest >= 0 {
		keep[smallest] = true
	}
	return keep
}

// OutputPath builds the content-addressed relative path
// <key>.<w>.<h>.<hash8>.<ext>, using forward slashes.
func OutputPath(key string, w, h uint32, contentHash, ext string) string {
	if len(contentHash) > 8 {
		contentHash = contentHash[:8]
	}
	return fmt.Sprintf("%s.%d.%d.%s.%s", key, w, h, contentHash, ext)
}
