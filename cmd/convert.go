package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/imgconv/internal/checkpoint"
	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/spf13/cobra"
)

var (
	convertFrom    string
	convertTo      []string
	convertOutDir  string
	convertSaveRaw string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert one image to one or more formats",
	Long: `Loads an image, checks its signature against the declared format,
decodes it once and encodes it to every --to format.

Outputs are written as <out>/<name>.<ext>. With --save-raw the decoded
pixels are also written as a checkpoint that "imgconv encode" can resume from.

Without --to the profile formats are used, and translucent images also get
a PNG. An explicit --to is followed exactly.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "declared input format (default: from extension)")
	convertCmd.Flags().StringSliceVarP(&convertTo, "to", "t", nil, "target formats (default: profile, or jpeg/png by transparency)")
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", "./imgconv_out", "output directory")
	convertCmd.Flags().StringVar(&convertSaveRaw, "save-raw", "", "write a raw pixel checkpoint to this path")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, args []string) error {
	input := args[0]

	declared, err := declaredFormat(input, convertFrom)
	if err != nil {
		return err
	}
	targets, err := parseFormats(convertTo)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	prof := activeProfile()
	c := codec.New(prof)

	loaded, err := convert.Load(c, data, declared)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	raw, err := loaded.Decode()
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}
	width, height := raw.Width(), raw.Height()

	if convertSaveRaw != "" {
		raw, err = checkpoint.SaveFile(convertSaveRaw, raw)
		if err != nil {
			return err
		}
		fmt.Printf("  checkpoint  %s\n", convertSaveRaw)
	}

	targets = resolveTargets(c, targets, prof.Formats, raw.Opaque())

	outputs, err := raw.EncodeAll(targets...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", input, err)
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	fmt.Printf("  %s  %s %dx%d  %s\n", input, declared, width, height, formatBytes(int64(len(data))))
	return writeOutputs(convertOutDir, base, outputs, c)
}

// declaredFormat returns --from when set, else the format implied by the
// file extension.
func declaredFormat(path, from string) (convert.Format, error) {
	if from != "" {
		return convert.ParseFormat(from)
	}
	f, err := convert.ParseFormat(filepath.Ext(path))
	if err != nil {
		return convert.FormatUnknown, fmt.Errorf("cannot infer format of %s, pass --from: %w", path, err)
	}
	return f, nil
}

// resolveTargets returns requested as given when it is non-empty. Otherwise
// it falls back to the profile formats, adding PNG for translucent images.
func resolveTargets(c *codec.Codec, requested, profileFormats []convert.Format, opaque bool) []convert.Format {
	if len(requested) > 0 {
		return c.Registry().ResolveFormats(requested, false)
	}
	return c.Registry().ResolveFormats(profileFormats, !opaque)
}

// writeOutputs writes each encoded handle to dir/<base>.<ext>.
func writeOutputs(dir, base string, outputs []*convert.Encoded, c *codec.Codec) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, enc := range outputs {
		path := filepath.Join(dir, base+"."+c.Registry().Get(enc.Format()).Extension())
		if err := os.WriteFile(path, enc.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Printf("  → %-5s %s  %s\n", enc.Format(), path, formatBytes(int64(enc.Len())))
	}
	return nil
}
