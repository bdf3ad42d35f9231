package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/observability"
)

// StackLayout places pages top to bottom with no gaps, each centered horizontally.
// The canvas is as wide as the widest page and as tall as all pages together;
// a page narrower than the canvas sits at x = floor((maxWidth - width) / 2).
func StackLayout(sizes []image.Point) (canvas image.Point, offsets []image.Point) {
	for _, s := range sizes {
		canvas.Y += s.Y
		if s.X > canvas.X {
			canvas.X = s.X
		}
	}

	offsets = make([]image.Point, len(sizes))
	y := 0
	for i, s := range sizes {
		offsets[i] = image.Pt((canvas.X-s.X)/2, y)
		y += s.Y
	}
	return canvas, offsets
}

// Long renders every page and stacks them into a single image
type Long struct {
	renderer PageRenderer
	encoder  domain.Encoder
	logger   *observability.Logger
}

// NewLong creates the long-image pipeline
func NewLong(renderer PageRenderer, encoder domain.Encoder, logger *observability.Logger) *Long {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Long{
		renderer: renderer,
		encoder:  encoder,
		logger:   logger.WithOperation("long"),
	}
}

// Run renders, composites and encodes; the result always has exactly one image
func (l *Long) Run(ctx context.Context, req Request) ([]domain.ConvertedImage, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	logger := l.logger.WithContext(ctx)
	totalPages := req.Document.PageCount()

	pages := make([]*domain.RenderedPage, 0, totalPages)
	sizes := make([]image.Point, 0, totalPages)
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req.Progress.Report(band(ProgressLoaded, longRenderEnd-ProgressLoaded, pageNum, totalPages), pageNum,
			"Rendering page %d of %d", pageNum, totalPages)

		page, err := l.renderer.Render(ctx, req.Document, pageNum, req.Scale)
		if err != nil {
			logger.Error().Err(err).Int("page", pageNum).Msg("Page render failed")
			return nil, err
		}
		pages = append(pages, page)
		sizes = append(sizes, image.Pt(page.Width, page.Height))
	}

	req.Progress.Report(longRenderEnd, 0, "Compositing long image")

	canvasSize, offsets := StackLayout(sizes)
	canvas := imaging.New(canvasSize.X, canvasSize.Y, color.White)
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req.Progress.Report(band(longRenderEnd, longCompositeEnd-longRenderEnd, i, len(pages)), page.Index,
			"Compositing page %d of %d", page.Index, totalPages)

		dst := image.Rectangle{Min: offsets[i], Max: offsets[i].Add(sizes[i])}
		draw.Draw(canvas, dst, page.Surface, page.Surface.Bounds().Min, draw.Src)
		pages[i] = nil
	}

	logger.Debug().
		Int("width", canvasSize.X).
		Int("height", canvasSize.Y).
		Int("pages", totalPages).
		Msg("Composited long image")

	req.Progress.Report(longCompositeEnd, 0, "Encoding long image")

	data, err := l.encoder.Encode(canvas, req.Output.Format, req.Output.Quality)
	if err != nil {
		logger.Error().Err(err).Msg("Long image encode failed")
		if domain.IsType(err, domain.ErrorTypeEncode) {
			return nil, err
		}
		return nil, domain.EncodeError(fmt.Sprintf("Failed to encode %dx%d long image", canvasSize.X, canvasSize.Y), err)
	}

	req.Progress.Report(ProgressDone, totalPages, "Long image complete")
	logger.Info().Int("pages", totalPages).Int("height", canvasSize.Y).Msg("Long image generated")

	return []domain.ConvertedImage{{
		Data:     data,
		FileName: domain.LongImageFileName(req.BaseName, req.Output.Format),
		Surface:  canvas,
		Width:    canvasSize.X,
		Height:   canvasSize.Y,
	}}, nil
}
