package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/imgconv/internal/convert"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension). When two files
	// differ only by extension the later one keeps its extension.
	Key string
	// Format is the format declared by the file extension. It is checked
	// against the file's signature when the file is loaded.
	Format convert.Format
	// Size is the file size in bytes.
	Size int64
}

// ScanImages walks the input directory and returns all JPEG and PNG sources
// in lexical order. Hidden directories are skipped.
func ScanImages(inputDir string) ([]Source, error) {
	var sources []Source
	keys := map[string]bool{}

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		format, perr := convert.ParseFormat(ext)
		if perr != nil {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		key := strings.TrimSuffix(relPath, ext)
		if keys[key] {
			key = relPath
		}
		keys[key] = true

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: relPath,
			Key:     key,
			Format:  format,
			Size:    info.Size(),
		})

		return nil
	})

	return sources, err
}
