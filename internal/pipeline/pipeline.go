// Package pipeline converts every JPEG and PNG under a directory on a
// bounded worker pool. Each file gets its own handles; no handle is shared
// between goroutines.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/manifest"
	"github.com/AnyUserName/imgconv/internal/profile"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	// Targets overrides the profile's formats. When both are empty each
	// image gets JPEG, or PNG if it has transparency.
	Targets       []convert.Format
	Workers       int
	NoRegressSize bool // skip outputs larger than the source file
}

// Pipeline orchestrates batch conversion.
type Pipeline struct {
	cfg   Config
	codec *codec.Codec
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:   cfg,
		codec: codec.New(cfg.Profile),
	}
}

// Run converts all sources and returns the manifest. Individual failures
// are recorded and logged; Run fails only when no source converted.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	log := convert.Logger()
	log.Debug("pipeline start", "encoders", p.codec.Registry().String(), "workers", p.cfg.Workers)

	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}
	log.Info("scanned", "images", len(sources), "dir", p.cfg.InputDir)

	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			log.Debug("processing", "key", s.Key, "format", s.Format)
			results[idx] = processImage(s, p.cfg, p.codec)
			if results[idx].err == nil {
				log.Info("converted", "key", s.Key, "outputs", len(results[idx].asset.Outputs))
			}
		}(i, src)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Profile.Name)

	var failed, totalSkipped int
	for _, r := range results {
		if r.err != nil {
			log.Warn("conversion failed", "key", r.key, "err", r.err)
			failed++
			continue
		}
		m.Assets[r.key] = r.asset
		totalSkipped += r.skippedRegress
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d images failed to convert", failed)
	}

	targets := make([]string, len(p.cfg.Targets))
	for i, f := range p.cfg.Targets {
		targets[i] = f.String()
	}
	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		Targets: targets,
		Quality: p.cfg.Profile.Quality,
	}
	m.Stats.SkippedRegress = totalSkipped
	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}
