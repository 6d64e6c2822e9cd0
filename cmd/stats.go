package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/manifest"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a batch output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.FileName)
	}

	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", m.Profile)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Quality:          %d\n", m.BuildInfo.Quality)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total assets:     %d\n", s.TotalAssets)
	fmt.Printf("  Total outputs:    %d\n", s.TotalOutputs)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	if s.Failed > 0 {
		fmt.Printf("  Failed sources:   %d\n", s.Failed)
	}
	fmt.Println()

	// Per-format breakdown, inputs and outputs.
	type formatStat struct {
		count int
		bytes int64
	}
	inStats := map[convert.Format]formatStat{}
	outStats := map[convert.Format]formatStat{}
	alpha := 0
	for _, a := range m.Assets {
		fs := inStats[a.Original.Format]
		fs.count++
		fs.bytes += a.Original.Size
		inStats[a.Original.Format] = fs
		if a.Original.HasAlpha {
			alpha++
		}
		for _, o := range a.Outputs {
			fs := outStats[o.Format]
			fs.count++
			fs.bytes += o.Size
			outStats[o.Format] = fs
		}
	}

	fmt.Println("  Format breakdown:   in                      out")
	for _, f := range convert.Formats() {
		in, out := inStats[f], outStats[f]
		if in.count == 0 && out.count == 0 {
			continue
		}
		fmt.Printf("    %-6s  %4d files  %-10s  %4d files  %s\n",
			f, in.count, formatBytes(in.bytes), out.count, formatBytes(out.bytes))
	}
	fmt.Printf("  Transparent sources: %d / %d\n", alpha, len(m.Assets))

	var warnings []string
	for key, a := range m.Assets {
		if len(a.Outputs) == 0 {
			warnings = append(warnings, fmt.Sprintf("asset %q has no outputs", key))
		}
	}
	sort.Strings(warnings)
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}
