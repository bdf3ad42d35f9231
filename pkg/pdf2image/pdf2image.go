// Package pdf2image converts PDF documents into raster images.
//
// A document is rendered page by page at a chosen scale, then either encoded
// into one image per page or stacked vertically into a single long image:
//
//	images, err := pdf2image.Convert(ctx, "brochure.pdf",
//		pdf2image.WithMode(pdf2image.ModeLong),
//		pdf2image.WithFormat(pdf2image.FormatJPEG),
//	)
package pdf2image

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spherical/pdf2image/internal/convert"
	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/encode"
	"github.com/spherical/pdf2image/internal/export"
	"github.com/spherical/pdf2image/internal/observability"
	"github.com/spherical/pdf2image/internal/pdf"
)

type (
	// Image is one encoded output image with its file name.
	Image = domain.ConvertedImage
	// Progress is a progress update in percent.
	Progress = domain.Progress
	// Mode selects how pages are laid out in the output.
	Mode = domain.OutputMode
	// Format is an output image encoding.
	Format = domain.ImageFormat
)

const (
	ModeSeparate = domain.ModeSeparate
	ModeLong     = domain.ModeLong

	FormatPNG  = domain.FormatPNG
	FormatJPEG = domain.FormatJPEG
	FormatGIF  = domain.FormatGIF
	FormatTIFF = domain.FormatTIFF
	FormatBMP  = domain.FormatBMP
)

// Convert reads the PDF at path and converts it.
func Convert(ctx context.Context, path string, opts ...Option) ([]Image, error) {
	cfg := buildConfig(opts)

	if err := pdf.NewValidator(cfg.maxSize).ValidatePDFPath(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("read %s", path), err)
	}

	return convertData(ctx, cfg, filepath.Base(path), data)
}

// ConvertBytes converts an in-memory PDF. name is used to derive output file names.
func ConvertBytes(ctx context.Context, name string, data []byte, opts ...Option) ([]Image, error) {
	cfg := buildConfig(opts)

	validator := pdf.NewValidator(cfg.maxSize)
	if err := validator.ValidateSize(int64(len(data))); err != nil {
		return nil, err
	}
	if err := validator.ValidateContent(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return convertData(ctx, cfg, name, data)
}

// WriteFiles saves images into dir and returns their paths.
func WriteFiles(ctx context.Context, dir string, images []Image, overwrite bool) ([]string, error) {
	return export.NewWriter(dir, overwrite, nil).WriteAll(ctx, images)
}

func buildConfig(opts []Option) converterConfig {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = observability.Nop()
	}
	return cfg
}

func convertData(ctx context.Context, cfg converterConfig, name string, data []byte) ([]Image, error) {
	opener := cfg.opener
	if opener == nil {
		o, closer, err := pdf.NewOpener(cfg.backend)
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		opener = o
	}

	orch := convert.New(opener, pdf.NewRenderer(cfg.logger), encode.New(),
		convert.WithLogger(cfg.logger),
		convert.WithProgress(cfg.progress),
	)
	defer orch.Close()

	out := domain.OutputConfig{Mode: cfg.mode, Format: cfg.format, Quality: cfg.quality}
	return orch.StartConversion(ctx, domain.SourceFile{Name: name, Reader: bytes.NewReader(data)}, out, cfg.scale)
}
