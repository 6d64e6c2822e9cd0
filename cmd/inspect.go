package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AnyUserName/imgconv/internal/codec"
	"github.com/AnyUserName/imgconv/internal/convert"
	"github.com/AnyUserName/imgconv/internal/hasher"
	"github.com/spf13/cobra"
)

var inspectFrom string

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show an image's detected format and dimensions without decoding it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFrom, "from", "", "declared format to verify (default: from extension)")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	fmt.Println()
	fmt.Printf("  File:      %s (%s)\n", path, formatBytes(int64(len(data))))
	fmt.Printf("  Hash:      %s\n", hasher.ContentHash(data, 16))

	detected, err := codec.Sniff(data)
	if err != nil {
		fmt.Printf("  Detected:  %v\n", err)
		fmt.Println()
		return err
	}
	fmt.Printf("  Detected:  %s\n", detected)

	c := codec.New(activeProfile())
	declared, derr := declaredFormat(path, inspectFrom)
	if derr == nil {
		if _, err := convert.Load(c, data, declared); err != nil {
			var fm *convert.FormatMismatchError
			if errors.As(err, &fm) {
				fmt.Printf("  Declared:  %s ✗ (%v)\n", declared, err)
			} else {
				return err
			}
		} else {
			fmt.Printf("  Declared:  %s ✓\n", declared)
		}
	}

	cfg, err := c.Config(data, detected)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	fmt.Printf("  Size:      %dx%d (%s RGBA)\n", cfg.Width, cfg.Height,
		formatBytes(int64(cfg.Width)*int64(cfg.Height)*4))
	fmt.Println()
	return nil
}
