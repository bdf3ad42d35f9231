package domain

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"
)

// OutputMode selects between one image per page and a single stacked image
type OutputMode string

const (
	ModeSeparate OutputMode = "separate"
	ModeLong     OutputMode = "long"
)

// ImageFormat is the encoded output format; its string value doubles as the file extension
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatGIF  ImageFormat = "gif"
	FormatTIFF ImageFormat = "tiff"
	FormatBMP  ImageFormat = "bmp"
)

// DefaultQuality is the JPEG quality used when none is configured
const DefaultQuality = 90

// SupportedFormats lists every format the encoder can produce
var SupportedFormats = []ImageFormat{FormatPNG, FormatJPEG, FormatGIF, FormatTIFF, FormatBMP}

// ParseOutputMode normalizes a mode name
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "separate", "pages", "":
		return ModeSeparate, nil
	case "long", "long-image", "long_image":
		return ModeLong, nil
	default:
		return "", ValidationError(fmt.Sprintf("unknown output mode %q (want separate or long)", s), nil)
	}
}

// ParseImageFormat normalizes a format name; "jpg" is accepted as jpeg
func ParseImageFormat(s string) (ImageFormat, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch name {
	case "jpg":
		return FormatJPEG, nil
	case "tif":
		return FormatTIFF, nil
	}
	for _, f := range SupportedFormats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ValidationError(fmt.Sprintf("unsupported image format %q", s), nil)
}

// Lossy reports whether the format takes a quality parameter
func (f ImageFormat) Lossy() bool {
	return f == FormatJPEG
}

// OutputConfig describes what a conversion should produce
type OutputConfig struct {
	Mode    OutputMode
	Format  ImageFormat
	Quality int
}

// Validate checks the configuration before a run
func (c OutputConfig) Validate() error {
	if c.Mode != ModeSeparate && c.Mode != ModeLong {
		return ValidationError(fmt.Sprintf("unknown output mode %q", c.Mode), nil)
	}
	if _, err := ParseImageFormat(string(c.Format)); err != nil {
		return err
	}
	if c.Format.Lossy() && (c.Quality < 1 || c.Quality > 100) {
		return ValidationError(fmt.Sprintf("quality must be between 1 and 100, got %d", c.Quality), nil)
	}
	return nil
}

// ValidateScale enforces scale > 0
func ValidateScale(scale float64) error {
	if !(scale > 0) {
		return ValidationError(fmt.Sprintf("scale must be greater than 0, got %v", scale), nil)
	}
	return nil
}

// SourceFile is the validated input handed to the converter
type SourceFile struct {
	Name   string
	Reader io.Reader
}

// RenderedPage is a raster surface produced from one page
type RenderedPage struct {
	Index   int
	Width   int
	Height  int
	Surface *image.NRGBA
}

// ConvertedImage is one encoded output image
type ConvertedImage struct {
	Data     []byte
	FileName string
	Surface  image.Image
	Width    int
	Height   int
}

// Progress is an observational snapshot of a running conversion
type Progress struct {
	Percent float64
	Message string
	Page    int
}

// ProgressFunc receives progress updates; it may be nil
type ProgressFunc func(Progress)

// Report calls fn if set
func (fn ProgressFunc) Report(percent float64, page int, format string, args ...any) {
	if fn == nil {
		return
	}
	fn(Progress{Percent: percent, Page: page, Message: fmt.Sprintf(format, args...)})
}

// BaseName strips any directory and the last extension from a file name
func BaseName(fileName string) string {
	if fileName == "" {
		return "document"
	}
	fileName = filepath.Base(fileName)
	if i := strings.LastIndex(fileName, "."); i != -1 {
		return fileName[:i]
	}
	return fileName
}

// PageFileName names the image for one page in separate mode
func PageFileName(baseName string, pageIndex int, format ImageFormat) string {
	return fmt.Sprintf("%s_page_%03d.%s", baseName, pageIndex, format)
}

// LongImageFileName names the single image produced in long mode
func LongImageFileName(baseName string, format ImageFormat) string {
	return fmt.Sprintf("%s_long_image.%s", baseName, format)
}
