// Package pipeline coordinates one visualization run: compose the mask,
// attempt segmentation, build the edit instruction, and perform the single
// generative edit call. Validation failures are caught before any network
// traffic, segmentation failures are advisory, and edit failures are
// terminal with a typed kind.
package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/mask"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/providers/openai"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/providers/replicate"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/styles"
)

// State is a stage of one run. Every run advances monotonically and ends in
// StateCompleted or StateFailed.
type State string

const (
	StateReceived   State = "received"
	StateOptimizing State = "optimizing"
	StateSegmenting State = "segmenting"
	StatePrompting  State = "prompting"
	StateEditing    State = "editing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// ErrorKind classifies a terminal failure for callers and persistence.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindEditTransport ErrorKind = "edit_transport_error"
	KindEditService   ErrorKind = "edit_service_error"
	KindEditNoResult  ErrorKind = "edit_no_result"
)

// SegmentationUnavailable is the advisory note kind recorded when the
// segmentation attempt did not produce a usable result. It never fails a run.
const SegmentationUnavailable = "segmentation_unavailable"

// Segmenter produces region hints for the photo. Satisfied by
// *replicate.Client.
type Segmenter interface {
	Segment(ctx context.Context, img *domain.ImageAsset, params replicate.Params) (*replicate.Job, error)
}

// Editor performs the generative edit. Satisfied by *openai.Client.
type Editor interface {
	Edit(ctx context.Context, img *domain.ImageAsset, m *mask.Mask, prompt string) (string, error)
}

// PromptFunc renders style selections into the edit instruction.
type PromptFunc func(styles.Selection) string

// Request carries the inputs of one run. CanvasWidth and CanvasHeight are the
// dimensions the strokes were drawn against; zero means the image dimensions.
type Request struct {
	Image        *domain.ImageAsset
	Strokes      []mask.Stroke
	Styles       styles.Selection
	CanvasWidth  int
	CanvasHeight int
}

// Result is the outcome of one run. SegmentationNote is advisory metadata and
// may be set on both completed and failed runs.
type Result struct {
	Status           State
	ResultImageURL   string
	PredictionID     string
	ErrorKind        ErrorKind
	ErrorMessage     string
	SegmentationNote string
}

// Options configures a Coordinator.
type Options struct {
	Segmenter Segmenter
	Editor    Editor
	Params    replicate.Params
	Prompt    PromptFunc
	Logger    *zerolog.Logger
}

// Coordinator runs the visualization pipeline. Safe for concurrent use; each
// run keeps its state on the stack.
type Coordinator struct {
	segmenter Segmenter
	editor    Editor
	params    replicate.Params
	prompt    PromptFunc
	logger    zerolog.Logger
}

// New constructs a Coordinator. The editor is mandatory; segmentation
// defaults to the fast parameter profile and prompting to the style catalog
// renderer.
func New(opts Options) (*Coordinator, error) {
	if opts.Editor == nil {
		return nil, errors.New("pipeline: editor is required")
	}
	if opts.Segmenter == nil {
		return nil, errors.New("pipeline: segmenter is required")
	}
	prompt := opts.Prompt
	if prompt == nil {
		prompt = styles.BuildEditPrompt
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Coordinator{
		segmenter: opts.Segmenter,
		editor:    opts.Editor,
		params:    opts.Params.WithDefaults(),
		prompt:    prompt,
		logger:    logger,
	}, nil
}

// Run executes one pipeline invocation end to end and always returns a
// terminal Result. Provider errors never escape; they are mapped to kinds
// with display-safe messages and logged at full fidelity.
func (c *Coordinator) Run(ctx context.Context, req Request) Result {
	m, res := c.optimize(req)
	if res != nil {
		return *res
	}

	result := Result{}
	result.PredictionID, result.SegmentationNote = c.segment(ctx, req.Image)

	prompt := c.prompt(req.Styles)

	url, err := c.editor.Edit(ctx, req.Image, m, prompt)
	if err != nil {
		kind, msg := classifyEditError(err)
		c.logger.Error().Err(err).Str("kind", string(kind)).Msg("pipeline: edit failed")
		result.Status = StateFailed
		result.ErrorKind = kind
		result.ErrorMessage = msg
		return result
	}
	if url == "" {
		result.Status = StateFailed
		result.ErrorKind = KindEditNoResult
		result.ErrorMessage = "the edit service returned no image"
		return result
	}

	result.Status = StateCompleted
	result.ResultImageURL = url
	return result
}

// optimize composes and validates the mask. Any problem here is a validation
// failure and guarantees no provider was contacted.
func (c *Coordinator) optimize(req Request) (*mask.Mask, *Result) {
	if req.Image == nil || len(req.Image.Data) == 0 {
		return nil, validationFailure("a source image is required")
	}
	if len(req.Strokes) == 0 {
		return nil, validationFailure("draw the area you want changed before submitting")
	}
	if (req.CanvasWidth != 0 || req.CanvasHeight != 0) &&
		(req.CanvasWidth != req.Image.Width || req.CanvasHeight != req.Image.Height) {
		return nil, validationFailure("the drawing canvas does not match the image dimensions")
	}
	m, err := mask.Compose(req.Strokes, req.Image.Width, req.Image.Height)
	if err != nil {
		return nil, validationFailure("the image dimensions are invalid")
	}
	if m.Empty() {
		return nil, validationFailure("the drawn area does not cover any part of the image")
	}
	return m, nil
}

// segment makes the single advisory segmentation attempt. Whatever happens,
// the run advances; the outcome is condensed into a note and the prediction
// id when one was issued.
func (c *Coordinator) segment(ctx context.Context, img *domain.ImageAsset) (predictionID, note string) {
	job, err := c.segmenter.Segment(ctx, img, c.params)
	if job != nil {
		predictionID = job.ID
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("prediction_id", predictionID).Msg("pipeline: segmentation unavailable")
		return predictionID, SegmentationUnavailable
	}
	if job == nil || job.State != replicate.JobSucceeded {
		c.logger.Warn().Str("prediction_id", predictionID).Msg("pipeline: segmentation did not succeed")
		return predictionID, SegmentationUnavailable
	}
	return predictionID, ""
}

func classifyEditError(err error) (ErrorKind, string) {
	var serviceErr *openai.ServiceError
	if errors.As(err, &serviceErr) {
		return KindEditService, serviceErr.Message
	}
	if errors.Is(err, openai.ErrNoResult) {
		return KindEditNoResult, "the edit service returned no image"
	}
	return KindEditTransport, "could not reach the edit service"
}

func validationFailure(msg string) *Result {
	return &Result{Status: StateFailed, ErrorKind: KindValidation, ErrorMessage: msg}
}
