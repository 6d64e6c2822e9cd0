package manifest

import "github.com/AnyUserName/imgconv/internal/convert"

// Manifest is the top-level output of a batch conversion.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BasePath    string           `json:"base_path"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Assets      map[string]Asset `json:"assets"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers int      `json:"workers"`
	Targets []string `json:"targets,omitempty"` // requested formats; empty means profile/alpha defaults
	Quality int      `json:"quality"`
}

// Asset describes a single source image and every output converted from it.
type Asset struct {
	Original OriginalInfo `json:"original"`
	Outputs  []Output     `json:"outputs"`
}

// OriginalInfo holds metadata about the source image.
type OriginalInfo struct {
	Path     string         `json:"path"` // relative to the input directory
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Format   convert.Format `json:"format"`
	Size     int64          `json:"size"`
	HasAlpha bool           `json:"has_alpha"`
}

// Output is one encoded file produced from an asset.
type Output struct {
	Format convert.Format `json:"format"`
	Size   int64          `json:"size"` // bytes on disk
	Hash   string         `json:"hash"` // 16 hex chars of xxhash64
	Path   string         `json:"path"` // relative to base_path
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalAssets      int   `json:"total_assets"`
	TotalOutputs     int   `json:"total_outputs"`
	SkippedRegress   int   `json:"skipped_regress,omitempty"` // outputs skipped (larger than original)
	Failed           int   `json:"failed,omitempty"`          // sources that could not be converted
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside an output directory.
const FileName = "imgconv.manifest.json"
