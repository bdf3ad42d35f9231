package domain

import (
	"context"
	"image"
)

// Opener decodes raw PDF bytes into a Document
type Opener interface {
	// Open fails with a DocumentLoadError when the bytes are not a readable PDF
	Open(ctx context.Context, data []byte) (Document, error)
}

// Document is an opened PDF with a known, positive page count
type Document interface {
	PageCount() int

	// Page returns the page at a 1-based index
	Page(index int) (Page, error)

	Close() error
}

// Page is a single page of a Document
type Page interface {
	// Size returns the intrinsic page size in PDF points (1/72 inch)
	Size() (width, height float64)

	// Render rasterizes the page at the given scale factor
	Render(ctx context.Context, scale float64) (image.Image, error)
}

// Encoder serializes a raster surface into an encoded image
type Encoder interface {
	// Encode applies quality only for lossy formats
	Encode(img image.Image, format ImageFormat, quality int) ([]byte, error)
}
