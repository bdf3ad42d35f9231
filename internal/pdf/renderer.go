package pdf

import (
	"context"
	"fmt"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/observability"
)

// PointsPerInch is the PDF user-space unit density; scale 1 renders at this DPI.
const PointsPerInch = 72.0

// Viewport converts an intrinsic page size in points to pixel dimensions at scale.
// Each dimension is rounded half up and is never smaller than one pixel.
func Viewport(widthPt, heightPt, scale float64) (width, height int) {
	return roundHalfUp(widthPt * scale), roundHalfUp(heightPt * scale)
}

func roundHalfUp(v float64) int {
	n := int(math.Floor(v + 0.5))
	if n < 1 {
		return 1
	}
	return n
}

// Renderer rasterizes single pages onto surfaces sized exactly to their viewport
type Renderer struct {
	logger *observability.Logger
}

// NewRenderer creates a page renderer
func NewRenderer(logger *observability.Logger) *Renderer {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Renderer{logger: logger.WithOperation("render")}
}

// Render rasterizes the 1-based pageIndex of doc at scale
func (r *Renderer) Render(ctx context.Context, doc domain.Document, pageIndex int, scale float64) (*domain.RenderedPage, error) {
	if err := domain.ValidateScale(scale); err != nil {
		return nil, err
	}
	if total := doc.PageCount(); pageIndex < 1 || pageIndex > total {
		return nil, domain.ValidationError(fmt.Sprintf("page %d out of range [1, %d]", pageIndex, total), nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := doc.Page(pageIndex)
	if err != nil {
		return nil, domain.RenderError(fmt.Sprintf("Failed to load page %d", pageIndex), err)
	}

	widthPt, heightPt := page.Size()
	width, height := Viewport(widthPt, heightPt, scale)

	raster, err := page.Render(ctx, scale)
	if err != nil {
		return nil, domain.RenderError(fmt.Sprintf("Failed to render page %d", pageIndex), err)
	}

	surface := imaging.New(width, height, color.White)
	draw.Draw(surface, surface.Bounds(), raster, raster.Bounds().Min, draw.Over)

	r.logger.WithContext(ctx).Debug().
		Int("page", pageIndex).
		Int("width", width).
		Int("height", height).
		Float64("scale", scale).
		Msg("Rendered page")

	return &domain.RenderedPage{
		Index:   pageIndex,
		Width:   width,
		Height:  height,
		Surface: surface,
	}, nil
}
