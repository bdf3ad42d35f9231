package pipeline

import (
	"context"
	"fmt"

	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/observability"
)

// Separate renders and encodes every page as its own image
type Separate struct {
	renderer PageRenderer
	encoder  domain.Encoder
	logger   *observability.Logger
}

// NewSeparate creates the one-image-per-page pipeline
func NewSeparate(renderer PageRenderer, encoder domain.Encoder, logger *observability.Logger) *Separate {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Separate{
		renderer: renderer,
		encoder:  encoder,
		logger:   logger.WithOperation("separate"),
	}
}

// Run converts pages 1..N in order
func (s *Separate) Run(ctx context.Context, req Request) ([]domain.ConvertedImage, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	logger := s.logger.WithContext(ctx)
	totalPages := req.Document.PageCount()
	images := make([]domain.ConvertedImage, 0, totalPages)

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req.Progress.Report(band(ProgressLoaded, separateRenderSpan, pageNum, totalPages), pageNum,
			"Converting page %d of %d", pageNum, totalPages)

		page, err := s.renderer.Render(ctx, req.Document, pageNum, req.Scale)
		if err != nil {
			logger.Error().Err(err).Int("page", pageNum).Msg("Page render failed")
			return nil, err
		}

		data, err := s.encoder.Encode(page.Surface, req.Output.Format, req.Output.Quality)
		if err != nil {
			logger.Error().Err(err).Int("page", pageNum).Msg("Page encode failed")
			if domain.IsType(err, domain.ErrorTypeEncode) {
				return nil, err
			}
			return nil, domain.EncodeError(fmt.Sprintf("Failed to encode page %d", pageNum), err)
		}

		images = append(images, domain.ConvertedImage{
			Data:     data,
			FileName: domain.PageFileName(req.BaseName, pageNum, req.Output.Format),
			Surface:  page.Surface,
			Width:    page.Width,
			Height:   page.Height,
		})
	}

	req.Progress.Report(ProgressDone, totalPages, "Conversion complete: generated %d images", totalPages)
	logger.Info().Int("pages", totalPages).Str("format", string(req.Output.Format)).Msg("Separate images generated")

	return images, nil
}
