package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/hasher"
)

func sampleManifest(t *testing.T, dir string) *Manifest {
	t.Helper()
	data := []byte("\x89PNG fake output")
	hash := hasher.ContentHash(data, 16)
	rel := "photos/cat.800.600." + hash[:8] + ".png"
	if err := os.MkdirAll(filepath.Join(dir, "photos"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, rel), data, 0o644); err != nil {
		t.Fatal(err)
	}

	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, Targets: []string{"png"}, Quality: 90}
	m.Assets["photos/cat"] = Asset{
		Original: OriginalInfo{
			Path: "photos/cat.jpg", Width: 800, Height: 600,
			Format: convert.FormatJPEG, Size: 100000,
		},
		Outputs: []Output{
			{Format: convert.FormatPNG, Size: int64(len(data)), Hash: hash, Path: rel},
		},
	}
	m.ComputeStats()
	return m
}

func TestManifestRoundtrip(t *testing.T) {
	dir := t.TempDir()
	m := sampleManifest(t, dir)
	m.Stats.Failed = 2

	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), `"format": "jpeg"`) {
		t.Errorf("formats should serialize as names:\n%s", raw)
	}

	m2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Profile != "test-profile" {
		t.Errorf("profile: got %q", m2.Profile)
	}
	if m2.BuildInfo == nil || m2.BuildInfo.Workers != 4 {
		t.Fatal("build_info not parsed correctly")
	}

	a, ok := m2.Assets["photos/cat"]
	if !ok {
		t.Fatal("asset photos/cat missing")
	}
	if a.Original.Format != convert.FormatJPEG {
		t.Errorf("original format: got %s", a.Original.Format)
	}
	if len(a.Outputs) != 1 || a.Outputs[0].Format != convert.FormatPNG {
		t.Errorf("outputs: got %+v", a.Outputs)
	}

	if m2.Stats.TotalAssets != 1 || m2.Stats.TotalOutputs != 1 {
		t.Errorf("stats: %+v", m2.Stats)
	}
	if m2.Stats.Failed != 2 {
		t.Errorf("failed counter lost: %d", m2.Stats.Failed)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "quality": 90, "new_flag": true },
		"assets": {},
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_assets": 0, "total_outputs": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
}

func TestValidate_OK(t *testing.T) {
	dir := t.TempDir()
	m := sampleManifest(t, dir)
	if errs := Validate(m, dir); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidate_DetectsTampering(t *testing.T) {
	dir := t.TempDir()
	m := sampleManifest(t, dir)
	out := m.Assets["photos/cat"].Outputs[0]

	// Same size, different content.
	tampered := []byte(strings.Repeat("x", int(out.Size)))
	if err := os.WriteFile(filepath.Join(dir, out.Path), tampered, 0o644); err != nil {
		t.Fatal(err)
	}
	errs := Validate(m, dir)
	if len(errs) != 1 || !strings.Contains(errs[0], "hash mismatch") {
		t.Errorf("expected one hash mismatch, got %v", errs)
	}
}

func TestValidate_MissingFileAndStats(t *testing.T) {
	dir := t.TempDir()
	m := sampleManifest(t, dir)
	m.Stats.TotalOutputs = 7

	if err := os.Remove(filepath.Join(dir, m.Assets["photos/cat"].Outputs[0].Path)); err != nil {
		t.Fatal(err)
	}
	errs := Validate(m, dir)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	joined := strings.Join(errs, "\n")
	if !strings.Contains(joined, "file not found") || !strings.Contains(joined, "total_outputs mismatch") {
		t.Errorf("unexpected errors: %v", errs)
	}
}
