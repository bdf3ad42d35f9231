// Package pipeline turns an opened document into encoded output images.
package pipeline

import (
	"context"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/observability"
)

// Progress bands. Loading the document accounts for the first 10%.
const (
	ProgressLoaded = 10.0

	separateRenderSpan = 80.0

	longRenderEnd    = 70.0
	longCompositeEnd = 95.0
	ProgressDone     = 100.0
)

// PageRenderer renders one page of a document onto an exactly sized surface
type PageRenderer interface {
	Render(ctx context.Context, doc domain.Document, pageIndex int, scale float64) (*domain.RenderedPage, error)
}

// Request carries everything a pipeline run needs
type Request struct {
	Document domain.Document
	Scale    float64
	Output   domain.OutputConfig
	BaseName string
	Progress domain.ProgressFunc
}

// Pipeline produces the ordered images for one request; on error it returns no images
type Pipeline interface {
	Run(ctx context.Context, req Request) ([]domain.ConvertedImage, error)
}

// For returns the pipeline that serves the given output mode
func For(mode domain.OutputMode, renderer PageRenderer, encoder domain.Encoder, logger *observability.Logger) (Pipeline, error) {
	switch mode {
	case domain.ModeSeparate:
		return NewSeparate(renderer, encoder, logger), nil
	case domain.ModeLong:
		return NewLong(renderer, encoder, logger), nil
	default:
		return nil, domain.ValidationError("unknown output mode "+string(mode), nil)
	}
}

// band linearly maps step out of total into [from, from+span]
func band(from, span float64, step, total int) float64 {
	if total <= 0 {
		return from + span
	}
	return from + float64(step)/float64(total)*span
}

func validate(req Request) error {
	if req.Document == nil {
		return domain.ValidationError("no document to convert", nil)
	}
	if req.Document.PageCount() <= 0 {
		return domain.DocumentLoadError("PDF has no pages", nil)
	}
	if err := domain.ValidateScale(req.Scale); err != nil {
		return err
	}
	return req.Output.Validate()
}
