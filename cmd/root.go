package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/profile"
	"github.com/spf13/cobra"
)

var (
	version     = "0.1.0"
	verbose     bool
	profileName string
	quality     int
)

var rootCmd = &cobra.Command{
	Use:   "imgconv",
	Short: "Convert images between JPEG and PNG",
	Long: `imgconv decodes JPEG/PNG images to RGBA pixels and re-encodes them
in the requested formats.

Every input's declared format (from --from or its extension) is checked
against the file signature before decoding; mislabeled files are rejected.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", profile.DefaultName,
		"encode profile ("+strings.Join(profile.Names(), ", ")+")")
	rootCmd.PersistentFlags().IntVarP(&quality, "quality", "q", 0, "JPEG quality 1-100 (0 = profile default)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgconv %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup installs the logger: debug with --verbose, warnings otherwise.
func setup(_ *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	convert.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if quality < 0 || quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	return nil
}

// activeProfile returns the selected profile with --quality applied.
func activeProfile() profile.Profile {
	return profile.Get(profileName).WithQuality(quality)
}

// parseFormats turns --to values into formats, rejecting unknown names.
func parseFormats(names []string) ([]convert.Format, error) {
	var formats []convert.Format
	for _, n := range names {
		f, err := convert.ParseFormat(n)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
