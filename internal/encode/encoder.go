// Package encode serializes raster surfaces into standard image formats.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/spherical/pdf2image/internal/domain"
)

// Encoder implements domain.Encoder on top of imaging
type Encoder struct {
	compression png.CompressionLevel
}

// Option configures an Encoder
type Option func(*Encoder)

// WithPNGCompression sets the zlib level used for PNG output
func WithPNGCompression(level png.CompressionLevel) Option {
	return func(e *Encoder) {
		e.compression = level
	}
}

// New creates an encoder
func New(opts ...Option) *Encoder {
	e := &Encoder{compression: png.DefaultCompression}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode writes img in the given format; quality is ignored unless the format is lossy
func (e *Encoder) Encode(img image.Image, format domain.ImageFormat, quality int) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, domain.EncodeError("cannot encode an empty surface", nil)
	}

	target, err := imaging.FormatFromExtension(string(format))
	if err != nil {
		return nil, domain.EncodeError(fmt.Sprintf("unsupported format %q", format), err)
	}

	var opts []imaging.EncodeOption
	switch {
	case format.Lossy():
		if quality < 1 || quality > 100 {
			quality = domain.DefaultQuality
		}
		opts = append(opts, imaging.JPEGQuality(quality))
	case target == imaging.PNG:
		opts = append(opts, imaging.PNGCompressionLevel(e.compression))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, target, opts...); err != nil {
		return nil, domain.EncodeError(fmt.Sprintf("failed to encode %s image", format), err)
	}
	return buf.Bytes(), nil
}
