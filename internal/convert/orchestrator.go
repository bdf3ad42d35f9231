// Package convert drives a PDF through loading and one output pipeline.
package convert

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spherical/pdf2image/internal/domain"
	"github.com/spherical/pdf2image/internal/observability"
	"github.com/spherical/pdf2image/internal/pipeline"
)

// State is the lifecycle position of an Orchestrator
type State int

const (
	StateIdle State = iota
	StateLoading
	StateConverting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateConverting:
		return "converting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Orchestrator owns the document and results of one conversion at a time
type Orchestrator struct {
	opener   domain.Opener
	renderer pipeline.PageRenderer
	encoder  domain.Encoder
	logger   *observability.Logger
	onUpdate domain.ProgressFunc

	mu         sync.Mutex
	state      State
	generation uint64
	doc        domain.Document
	images     []domain.ConvertedImage
	progress   domain.Progress
	err        error
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger
func WithLogger(logger *observability.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithProgress registers a listener for every progress update
func WithProgress(fn domain.ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.onUpdate = fn
	}
}

// New creates an idle orchestrator
func New(opener domain.Opener, renderer pipeline.PageRenderer, encoder domain.Encoder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		opener:   opener,
		renderer: renderer,
		encoder:  encoder,
		logger:   observability.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.WithOperation("convert")
	return o
}

// StartConversion loads file and runs the pipeline selected by cfg.Mode.
// It blocks until the run completes and returns the images it produced.
func (o *Orchestrator) StartConversion(ctx context.Context, file domain.SourceFile, cfg domain.OutputConfig, scale float64) ([]domain.ConvertedImage, error) {
	gen, err := o.begin()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	ctx = observability.ContextWithRunID(ctx, runID)
	logger := o.logger.WithContext(ctx)
	startTime := time.Now()

	logger.Info().Str("file", file.Name).Str("mode", string(cfg.Mode)).Float64("scale", scale).Msg("Starting conversion")
	o.report(gen, domain.Progress{Percent: 0, Message: "Loading PDF file"})

	if err := cfg.Validate(); err != nil {
		return nil, o.fail(gen, nil, err)
	}
	if err := domain.ValidateScale(scale); err != nil {
		return nil, o.fail(gen, nil, err)
	}
	if file.Reader == nil {
		return nil, o.fail(gen, nil, domain.ValidationError("no input file", nil))
	}

	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return nil, o.fail(gen, nil, domain.IOError("Failed to read input file", err))
	}

	doc, err := o.opener.Open(ctx, data)
	if err != nil {
		if !domain.IsType(err, domain.ErrorTypeDocumentLoad) {
			err = domain.DocumentLoadError("Failed to open PDF", err)
		}
		return nil, o.fail(gen, nil, err)
	}

	totalPages := doc.PageCount()
	if !o.transition(gen, StateConverting, doc) {
		doc.Close()
		return nil, errStale
	}
	logger.Info().Int("pages", totalPages).Msg("PDF loaded")
	o.report(gen, domain.Progress{
		Percent: pipeline.ProgressLoaded,
		Message: fmt.Sprintf("PDF loaded, %d pages", totalPages),
	})

	p, err := pipeline.For(cfg.Mode, o.renderer, o.encoder, o.logger)
	if err != nil {
		return nil, o.fail(gen, doc, err)
	}

	images, err := p.Run(ctx, pipeline.Request{
		Document: doc,
		Scale:    scale,
		Output:   cfg,
		BaseName: domain.BaseName(file.Name),
		Progress: func(pr domain.Progress) { o.report(gen, pr) },
	})
	if err != nil {
		return nil, o.fail(gen, doc, err)
	}

	if !o.finish(gen, images) {
		doc.Close()
		return nil, errStale
	}

	logger.Info().
		Int("images", len(images)).
		Dur("duration", time.Since(startTime)).
		Msg("Conversion complete")

	return images, nil
}

// Reset clears the document, results, progress and error and returns to Idle.
// A run still in flight is not interrupted; its outcome is discarded.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	doc := o.doc
	running := o.state == StateLoading || o.state == StateConverting
	o.generation++
	o.state = StateIdle
	o.doc = nil
	o.images = nil
	o.progress = domain.Progress{}
	o.err = nil
	o.mu.Unlock()

	// An in-flight run still uses its document and closes it when it notices the reset
	if doc != nil && !running {
		if err := doc.Close(); err != nil {
			o.logger.Warn().Err(err).Msg("Failed to close document on reset")
		}
	}
	o.logger.Debug().Msg("Orchestrator reset")
}

// State returns the current lifecycle state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Images returns a copy of the results of the last successful run
func (o *Orchestrator) Images() []domain.ConvertedImage {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.images) == 0 {
		return nil
	}
	return append([]domain.ConvertedImage(nil), o.images...)
}

// Progress returns the latest progress snapshot
func (o *Orchestrator) Progress() domain.Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// Err returns the error of a failed run
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Document returns the document held by the orchestrator, if any
func (o *Orchestrator) Document() domain.Document {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.doc
}

// Close releases the held document
func (o *Orchestrator) Close() error {
	o.Reset()
	return nil
}

var errStale = domain.NewError(domain.ErrorTypeState, "conversion was reset before it completed", nil)

// begin moves to Loading, discarding any previous run's state
func (o *Orchestrator) begin() (uint64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateLoading || o.state == StateConverting {
		return 0, domain.ErrConversionInProgress
	}

	if o.doc != nil {
		if err := o.doc.Close(); err != nil {
			o.logger.Warn().Err(err).Msg("Failed to close previous document")
		}
	}

	o.generation++
	o.state = StateLoading
	o.doc = nil
	o.images = nil
	o.progress = domain.Progress{}
	o.err = nil
	return o.generation, nil
}

func (o *Orchestrator) transition(gen uint64, state State, doc domain.Document) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != gen {
		return false
	}
	o.state = state
	o.doc = doc
	return true
}

func (o *Orchestrator) finish(gen uint64, images []domain.ConvertedImage) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != gen {
		return false
	}
	o.state = StateDone
	o.images = images
	return true
}

// fail records err for the current run and releases doc; a stale run only releases
func (o *Orchestrator) fail(gen uint64, doc domain.Document, err error) error {
	o.mu.Lock()
	current := o.generation == gen
	if current {
		o.state = StateFailed
		o.doc = nil
		o.images = nil
		o.err = err
	}
	o.mu.Unlock()

	if doc != nil {
		doc.Close()
	}
	o.logger.Error().Err(err).Msg("Conversion failed")
	return err
}

func (o *Orchestrator) report(gen uint64, p domain.Progress) {
	o.mu.Lock()
	if o.generation != gen {
		o.mu.Unlock()
		return
	}
	o.progress = p
	o.mu.Unlock()

	if o.onUpdate != nil {
		o.onUpdate(p)
	}
}
