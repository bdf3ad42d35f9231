package pdf

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/spherical/pdf2image/internal/domain"
)

// PDFiumOpener opens documents with PDFium compiled to WebAssembly (pure Go, no CGo)
type PDFiumOpener struct {
	mu       sync.Mutex
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewPDFiumOpener starts a single-worker PDFium runtime
func NewPDFiumOpener() (*PDFiumOpener, error) {
	// Rendering is sequential, one worker is enough
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &PDFiumOpener{
		pool:     pool,
		instance: instance,
	}, nil
}

// Open decodes PDF bytes held in memory
func (o *PDFiumOpener) Open(ctx context.Context, data []byte) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.instance == nil {
		return nil, domain.DocumentLoadError("PDFium runtime is closed", nil)
	}

	doc, err := o.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, domain.DocumentLoadError("Failed to open PDF", err)
	}

	pageCountResp, err := o.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil || pageCountResp.PageCount <= 0 {
		o.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		if err == nil {
			return nil, domain.DocumentLoadError("PDF has no pages", nil)
		}
		return nil, domain.DocumentLoadError("Unable to get page count", err)
	}

	return &pdfiumDocument{
		opener:    o,
		ref:       doc.Document,
		pageCount: pageCountResp.PageCount,
	}, nil
}

// Close releases the WebAssembly runtime
func (o *PDFiumOpener) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.instance != nil {
		o.instance.Close()
		o.instance = nil
	}
	if o.pool != nil {
		o.pool.Close()
		o.pool = nil
	}
	return nil
}

type pdfiumDocument struct {
	opener    *PDFiumOpener
	ref       references.FPDF_DOCUMENT
	pageCount int
}

func (d *pdfiumDocument) PageCount() int {
	return d.pageCount
}

func (d *pdfiumDocument) pageRequest(index int) requests.Page {
	return requests.Page{
		ByIndex: &requests.PageByIndex{
			Document: d.ref,
			Index:    index - 1,
		},
	}
}

func (d *pdfiumDocument) Page(index int) (domain.Page, error) {
	if index < 1 || index > d.pageCount {
		return nil, fmt.Errorf("page %d out of range [1, %d]", index, d.pageCount)
	}

	d.opener.mu.Lock()
	defer d.opener.mu.Unlock()
	if d.opener.instance == nil {
		return nil, fmt.Errorf("PDFium runtime is closed")
	}

	size, err := d.opener.instance.GetPageSize(&requests.GetPageSize{
		Page: d.pageRequest(index),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to get size of page %d: %w", index, err)
	}

	return &pdfiumPage{doc: d, index: index, width: size.Width, height: size.Height}, nil
}

func (d *pdfiumDocument) Close() error {
	d.opener.mu.Lock()
	defer d.opener.mu.Unlock()
	if d.opener.instance == nil {
		return nil
	}
	_, err := d.opener.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.ref,
	})
	return err
}

type pdfiumPage struct {
	doc           *pdfiumDocument
	index         int
	width, height float64
}

func (p *pdfiumPage) Size() (float64, float64) {
	return p.width, p.height
}

func (p *pdfiumPage) Render(ctx context.Context, scale float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	width, height := Viewport(p.width, p.height, scale)

	p.doc.opener.mu.Lock()
	defer p.doc.opener.mu.Unlock()
	if p.doc.opener.instance == nil {
		return nil, fmt.Errorf("PDFium runtime is closed")
	}

	pageRender, err := p.doc.opener.instance.RenderPageInPixels(&requests.RenderPageInPixels{
		Page:   p.doc.pageRequest(p.index),
		Width:  width,
		Height: height,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", p.index, err)
	}
	// The bitmap lives in WebAssembly memory until Cleanup
	defer pageRender.Cleanup()

	return imaging.Clone(pageRender.Result.Image), nil
}
