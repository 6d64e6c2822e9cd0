package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/imgconv/internal/checkpoint"
	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/spf13/cobra"
)

var (
	encodeTo     []string
	encodeOutDir string
)

var encodeCmd = &cobra.Command{
	Use:   "encode <checkpoint>",
	Short: "Encode a raw pixel checkpoint written by convert --save-raw",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringSliceVarP(&encodeTo, "to", "t", nil, "target formats (default: profile, or jpeg/png by transparency)")
	encodeCmd.Flags().StringVarP(&encodeOutDir, "out", "o", "./imgconv_out", "output directory")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(_ *cobra.Command, args []string) error {
	path := args[0]

	targets, err := parseFormats(encodeTo)
	if err != nil {
		return err
	}

	prof := activeProfile()
	c := codec.New(prof)

	raw, err := checkpoint.LoadFile(path, c)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	targets = resolveTargets(c, targets, prof.Formats, raw.Opaque())

	fmt.Printf("  %s  raw %s %dx%d\n", path, raw.Format(), raw.Width(), raw.Height())
	outputs, err := raw.EncodeAll(targets...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return writeOutputs(encodeOutDir, base, outputs, c)
}
