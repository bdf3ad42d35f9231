// Package export saves converted images to disk.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/observability"
)

// Writer writes converted images into a directory.
type Writer struct {
	dir       string
	overwrite bool
	logger    *observability.Logger
}

// NewWriter creates a writer for dir. An empty dir means the working directory.
func NewWriter(dir string, overwrite bool, logger *observability.Logger) *Writer {
	if dir == "" {
		dir = "."
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Writer{dir: dir, overwrite: overwrite, logger: logger.WithOperation("export")}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteAll saves images in order and returns the written paths.
// Existing files are refused unless the writer was created with overwrite.
func (w *Writer) WriteAll(ctx context.Context, images []domain.ConvertedImage) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, domain.IOError(fmt.Sprintf("create output directory %s", w.dir), err)
	}

	paths := make([]string, 0, len(images))
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path, err := w.write(img)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	w.logger.Info().Int("files", len(paths)).Str("dir", w.dir).Msg("Images written")
	return paths, nil
}

func (w *Writer) write(img domain.ConvertedImage) (string, error) {
	if img.FileName == "" || filepath.Base(img.FileName) != img.FileName {
		return "", domain.ValidationError(fmt.Sprintf("invalid output file name %q", img.FileName), nil)
	}
	if len(img.Data) == 0 {
		return "", domain.ValidationError(fmt.Sprintf("no encoded data for %s", img.FileName), nil)
	}

	path := filepath.Join(w.dir, img.FileName)

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !w.overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", domain.IOError(fmt.Sprintf("%s already exists (use --force to overwrite)", path), err)
		}
		return "", domain.IOError(fmt.Sprintf("open %s", path), err)
	}

	if _, err := f.Write(img.Data); err != nil {
		f.Close()
		return "", domain.IOError(fmt.Sprintf("write %s", path), err)
	}
	if err := f.Close(); err != nil {
		return "", domain.IOError(fmt.Sprintf("close %s", path), err)
	}

	w.logger.Debug().Str("path", path).Int("bytes", len(img.Data)).Msg("Wrote image")
	return path, nil
}
