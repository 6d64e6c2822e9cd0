package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgconv/internal/hasher"
)

// Validate checks m for internal consistency and verifies that every output
// exists under baseDir with the recorded size and content hash. It returns
// one message per problem.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string

	if m.Version != SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	for key, asset := range m.Assets {
		if asset.Original.Width <= 0 || asset.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, asset.Original.Width, asset.Original.Height))
		}
		if !asset.Original.Format.Valid() {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original format", key))
		}
		if len(asset.Outputs) == 0 {
			errs = append(errs, fmt.Sprintf("asset %q: no outputs", key))
		}

		seenPaths := map[string]bool{}
		for i, o := range asset.Outputs {
			if !o.Format.Valid() {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: invalid format", key, i))
			}
			if o.Hash == "" {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: missing hash", key, i))
			}
			if o.Path == "" {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: missing path", key, i))
				continue
			}

			if seenPaths[o.Path] {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: duplicate path %q", key, i, o.Path))
			}
			seenPaths[o.Path] = true

			if msg := checkFile(filepath.Join(baseDir, o.Path), o); msg != "" {
				errs = append(errs, fmt.Sprintf("asset %q output[%d]: %s", key, i, msg))
			}
		}
	}

	assetCount := len(m.Assets)
	outputCount := 0
	for _, a := range m.Assets {
		outputCount += len(a.Outputs)
	}
	if m.Stats.TotalAssets != assetCount {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, assetCount))
	}
	if m.Stats.TotalOutputs != outputCount {
		errs = append(errs, fmt.Sprintf("stats.total_outputs mismatch: %d != %d", m.Stats.TotalOutputs, outputCount))
	}

	return errs
}

func checkFile(path string, o Output) string {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Sprintf("file not found: %s", o.Path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Sprintf("stat %s: %v", o.Path, err)
	}
	if o.Size > 0 && info.Size() != o.Size {
		return fmt.Sprintf("size mismatch: manifest=%d, disk=%d", o.Size, info.Size())
	}
	if o.Hash == "" {
		return ""
	}
	sum, err := hasher.ContentHashReader(f, len(o.Hash))
	if err != nil {
		return fmt.Sprintf("hash %s: %v", o.Path, err)
	}
	if sum != o.Hash {
		return fmt.Sprintf("hash mismatch: manifest=%s, disk=%s", o.Hash, sum)
	}
	return ""
}
