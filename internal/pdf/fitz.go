package pdf

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/spherical/pdf2image/internal/domain"
)

// FitzOpener opens documents with MuPDF through go-fitz
type FitzOpener struct{}

// NewFitzOpener creates a MuPDF-backed opener
func NewFitzOpener() *FitzOpener {
	return &FitzOpener{}
}

// Open decodes PDF bytes held in memory
func (o *FitzOpener) Open(ctx context.Context, data []byte) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, domain.DocumentLoadError("Failed to open PDF", err)
	}

	pageCount := doc.NumPage()
	if pageCount <= 0 {
		doc.Close()
		return nil, domain.DocumentLoadError("PDF has no pages", nil)
	}

	return &fitzDocument{doc: doc, pageCount: pageCount}, nil
}

// Close is a no-op; documents are closed individually
func (o *FitzOpener) Close() error {
	return nil
}

type fitzDocument struct {
	doc       *fitz.Document
	pageCount int
}

func (d *fitzDocument) PageCount() int {
	return d.pageCount
}

func (d *fitzDocument) Page(index int) (domain.Page, error) {
	if index < 1 || index > d.pageCount {
		return nil, fmt.Errorf("page %d out of range [1, %d]", index, d.pageCount)
	}

	// go-fitz reports bounds in points, zero-based page numbers
	bounds, err := d.doc.Bound(index - 1)
	if err != nil {
		return nil, err
	}

	return &fitzPage{
		doc:    d.doc,
		number: index - 1,
		width:  float64(bounds.Dx()),
		height: float64(bounds.Dy()),
	}, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

type fitzPage struct {
	doc           *fitz.Document
	number        int
	width, height float64
}

func (p *fitzPage) Size() (float64, float64) {
	return p.width, p.height
}

func (p *fitzPage) Render(ctx context.Context, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.doc.ImageDPI(p.number, PointsPerInch*scale)
}
