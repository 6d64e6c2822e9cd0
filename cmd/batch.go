package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/manifest"
	"github.com/AnyUserName/imgconv/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	batchOutDir    string
	batchWorkers   int
	batchTo        []string
	batchNoRegress bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Convert every JPEG/PNG under a directory and write a manifest",
	Long: `Scans input directory for images (jpg, jpeg, png), checks each file's
signature against its extension, converts it to the target formats and
writes a manifest file.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.ext`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./imgconv_out", "output directory")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	batchCmd.Flags().StringSliceVarP(&batchTo, "to", "t", nil, "target formats (overrides profile)")
	batchCmd.Flags().BoolVar(&batchNoRegress, "no-regress-size", false, "skip outputs larger than the original file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	targets, err := parseFormats(batchTo)
	if err != nil {
		return err
	}
	prof := activeProfile()

	log := convert.Logger()
	log.Debug("batch", "input", absInput, "output", absOutput,
		"profile", prof.Name, "quality", prof.Quality, "targets", targets)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Targets:       targets,
		Workers:       batchWorkers,
		NoRegressSize: batchNoRegress,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(m, manifestPath, time.Since(start))
	return nil
}

func printBatchReport(m *manifest.Manifest, manifestPath string, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             imgconv batch complete               ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	fmt.Printf("  Outputs:     %d\n", stats.TotalOutputs)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if stats.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d outputs (larger than original)\n", stats.SkippedRegress)
	}
	if stats.Failed > 0 {
		fmt.Printf("  Failed:      %d sources (run with --verbose for details)\n", stats.Failed)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			var outSum int64
			for _, o := range a.Outputs {
				outSum += o.Size
			}
			items = append(items, assetSize{key, a.Original.Size, outSum})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original → converted):\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s → %8s\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Formats:     %s\n", strings.Join(outputFormats(m), ", "))
	fmt.Printf("  Manifest:    %s\n", manifestPath)
	fmt.Println()
}

func outputFormats(m *manifest.Manifest) []string {
	set := map[convert.Format]bool{}
	for _, a := range m.Assets {
		for _, o := range a.Outputs {
			set[o.Format] = true
		}
	}
	var out []string
	for _, f := range convert.Formats() {
		if set[f] {
			out = append(out, f.String())
		}
	}
	return out
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "…" + s[len(s)-max+1:]
}
