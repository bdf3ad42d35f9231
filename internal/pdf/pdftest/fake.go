// Package pdftest provides in-memory documents for tests.
package pdftest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/spherical/pdf2image/internal/domain"
)

// ErrPageBroken is returned by pages marked as failing.
var ErrPageBroken = errors.New("pdftest: page cannot be rasterized")

// PageSpec describes one fake page in points.
type PageSpec struct {
	Width, Height float64
	Fill          color.Color
	Fail          bool
}

// Document is a fake domain.Document whose pages render as solid fills.
type Document struct {
	mu       sync.Mutex
	pages    []PageSpec
	closed   bool
	rendered []int
}

// NewDocument returns a document with the given pages.
func NewDocument(pages ...PageSpec) *Document {
	return &Document{pages: pages}
}

// Uniform returns a document of n identical pages.
func Uniform(n int, width, height float64) *Document {
	pages := make([]PageSpec, n)
	for i := range pages {
		pages[i] = PageSpec{Width: width, Height: height}
	}
	return NewDocument(pages...)
}

func (d *Document) PageCount() int {
	return len(d.pages)
}

func (d *Document) Page(index int) (domain.Page, error) {
	if index < 1 || index > len(d.pages) {
		return nil, fmt.Errorf("pdftest: page %d out of range", index)
	}
	return &page{doc: d, index: index, spec: d.pages[index-1]}, nil
}

func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *Document) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Rendered returns the page indexes rendered so far, in call order.
func (d *Document) Rendered() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.rendered...)
}

type page struct {
	doc   *Document
	index int
	spec  PageSpec
}

func (p *page) Size() (float64, float64) {
	return p.spec.Width, p.spec.Height
}

func (p *page) Render(ctx context.Context, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.spec.Fail {
		return nil, ErrPageBroken
	}

	p.doc.mu.Lock()
	p.doc.rendered = append(p.doc.rendered, p.index)
	p.doc.mu.Unlock()

	fill := p.spec.Fill
	if fill == nil {
		fill = color.Black
	}
	// Truncate like a real rasterizer might; the renderer pads to the viewport
	w := int(math.Max(1, math.Floor(p.spec.Width*scale)))
	h := int(math.Max(1, math.Floor(p.spec.Height*scale)))
	return imaging.New(w, h, fill), nil
}

// Opener opens a fixed Document regardless of the bytes passed.
type Opener struct {
	Doc *Document
	Err error

	mu    sync.Mutex
	calls int
}

func (o *Opener) Open(ctx context.Context, data []byte) (domain.Document, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()

	if o.Err != nil {
		return nil, o.Err
	}
	if o.Doc == nil {
		return nil, domain.DocumentLoadError("pdftest: no document", nil)
	}
	return o.Doc, nil
}

// Calls returns how many times Open was invoked.
func (o *Opener) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// MinimalPDF builds a valid single-page PDF whose MediaBox is width x height points.
func MinimalPDF(width, height int) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Resources << >> /Contents 4 0 R >>", width, height),
		"<< /Length 0 >>\nstream\n\nendstream",
	}

	buf := []byte("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = len(buf)
		buf = append(buf, fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj)...)
	}

	xref := len(buf)
	buf = append(buf, fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)...)
	for _, off := range offsets {
		buf = append(buf, fmt.Sprintf("%010d 00000 n \n", off)...)
	}
	buf = append(buf, fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)...)
	return buf
}
