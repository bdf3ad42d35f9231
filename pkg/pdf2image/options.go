package pdf2image

import (
	"github.com/rs/zerolog"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/observability"
	"github.com/spherical/pdf2image/internal/pdf"
)

// converterConfig holds the settings for one Convert call.
type converterConfig struct {
	mode     domain.OutputMode
	format   domain.ImageFormat
	scale    float64
	quality  int
	backend  string
	maxSize  int64
	logger   *observability.Logger
	progress domain.ProgressFunc

	// opener overrides the backend; used by tests
	opener domain.Opener
}

func defaultConfig() converterConfig {
	return converterConfig{
		mode:    ModeSeparate,
		format:  FormatPNG,
		scale:   2.0,
		quality: domain.DefaultQuality,
		backend: pdf.BackendFitz,
		maxSize: pdf.DefaultMaxFileSize,
	}
}

// Option configures a [Convert] call.
type Option func(*converterConfig)

// WithMode selects separate images per page or one long image.
// Defaults to [ModeSeparate].
func WithMode(mode Mode) Option {
	return func(c *converterConfig) {
		c.mode = mode
	}
}

// WithFormat sets the output image format. Defaults to [FormatPNG].
func WithFormat(format Format) Option {
	return func(c *converterConfig) {
		c.format = format
	}
}

// WithScale sets the render scale, where 1.0 renders at 72 DPI.
// Defaults to 2.0.
func WithScale(scale float64) Option {
	return func(c *converterConfig) {
		c.scale = scale
	}
}

// WithQuality sets the JPEG quality from 1 to 100. Other formats ignore it.
// Defaults to 90.
func WithQuality(quality int) Option {
	return func(c *converterConfig) {
		c.quality = quality
	}
}

// WithBackend selects the rasterizer: "fitz" (MuPDF) or "pdfium" (WebAssembly).
func WithBackend(backend string) Option {
	return func(c *converterConfig) {
		c.backend = backend
	}
}

// WithMaxFileSize sets the input size limit in bytes. Defaults to 50MB.
func WithMaxFileSize(n int64) Option {
	return func(c *converterConfig) {
		c.maxSize = n
	}
}

// WithLogger routes conversion logs to l. By default nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(c *converterConfig) {
		c.logger = observability.FromZerolog(l)
	}
}

// WithProgress registers a callback for progress updates.
func WithProgress(fn func(Progress)) Option {
	return func(c *converterConfig) {
		c.progress = fn
	}
}
