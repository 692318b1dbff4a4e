// Package replicate is the segmentation boundary: it submits a photo to the
// Replicate-hosted SAM-2 model and polls the prediction to completion within
// a fixed wall-clock budget. Segmentation is advisory; callers must tolerate
// every failure mode this package can report.
package replicate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/imaging"
)

// ErrMissingAPIToken indicates the client was configured without credentials.
var ErrMissingAPIToken = errors.New("replicate: api token is required")

// DefaultVersion pins the SAM-2 automatic mask generator model.
const DefaultVersion = "fe97b453a6455861e3bac769b441ca1f1086110da7466dbb65cf1eecfd60dc83"

// segmentMaxSide bounds the image sent upstream. Downscaling trades
// segmentation recall for latency and cost.
const segmentMaxSide = 512

// Clock abstracts time for the polling loop so tests can drive it without
// real delays.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Options configures the segmentation client.
type Options struct {
	APIToken     string
	BaseURL      string
	Version      string
	HTTPClient   *http.Client
	Logger       *zerolog.Logger
	PollInterval time.Duration
	PollTimeout  time.Duration
	Clock        Clock
}

// Client performs HTTP calls against the Replicate predictions API.
type Client struct {
	apiToken     string
	baseURL      string
	version      string
	httpClient   *http.Client
	logger       zerolog.Logger
	pollInterval time.Duration
	pollTimeout  time.Duration
	clock        Clock
}

// JobState is the lifecycle of one segmentation job as seen by this client.
type JobState string

const (
	JobSubmitted JobState = "submitted"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
	JobTimedOut  JobState = "timed-out"
)

// Terminal reports whether the state ends the polling loop.
func (s JobState) Terminal() bool {
	return s == JobSucceeded || s == JobFailed || s == JobTimedOut
}

// SegmentResult carries the mask references a successful job produced.
type SegmentResult struct {
	MaskURLs        []string
	CombinedMaskURL string
}

// Job is owned by a single Segment call; it is never shared across requests.
type Job struct {
	ID        string
	State     JobState
	CreatedAt time.Time
	Result    *SegmentResult
	Detail    string
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.replicate.com/v1"
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = DefaultVersion
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	timeout := opts.PollTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		apiToken:     strings.TrimSpace(opts.APIToken),
		baseURL:      baseURL,
		version:      version,
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: interval,
		pollTimeout:  timeout,
		clock:        clock,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiToken != ""
}

type predictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

type predictionInput struct {
	Image                string  `json:"image"`
	PointsPerSide        int     `json:"points_per_side"`
	PredIoUThresh        float64 `json:"pred_iou_thresh"`
	StabilityScoreThresh float64 `json:"stability_score_thresh"`
	UseM2M               bool    `json:"use_m2m"`
}

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Segment submits the image and polls until the job reaches a terminal state
// or the wall-clock budget runs out. A timed-out or failed job is reported on
// the Job itself, not as an error; errors are reserved for submission and
// transport problems. The loop never queries faster than the poll interval
// and stops at the budget even if the service keeps answering "running".
func (c *Client) Segment(ctx context.Context, img *domain.ImageAsset, params Params) (*Job, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIToken
	}
	if img == nil || len(img.Data) == 0 {
		return nil, errors.New("replicate: image is required")
	}

	encoded, err := encodeForSegmentation(img)
	if err != nil {
		return nil, err
	}

	deadline := c.clock.Now().Add(c.pollTimeout)
	pred, err := c.createPrediction(ctx, encoded, params.WithDefaults())
	if err != nil {
		return nil, err
	}

	job := &Job{ID: pred.ID, State: stateFor(pred.Status), CreatedAt: c.clock.Now(), Detail: pred.Error}
	for !job.State.Terminal() {
		if !c.clock.Now().Before(deadline) {
			job.State = JobTimedOut
			c.logger.Debug().Str("job_id", job.ID).Msg("replicate: segmentation timed out")
			return job, nil
		}
		select {
		case <-ctx.Done():
			job.State = JobTimedOut
			return job, ctx.Err()
		case <-c.clock.After(c.pollInterval):
		}
		pred, err = c.getPrediction(ctx, job.ID)
		if err != nil {
			job.State = JobFailed
			job.Detail = err.Error()
			return job, err
		}
		job.State = stateFor(pred.Status)
		job.Detail = pred.Error
	}

	if job.State == JobSucceeded {
		job.Result = parseOutput(pred.Output)
	}
	c.logger.Debug().
		Str("job_id", job.ID).
		Str("state", string(job.State)).
		Msg("replicate: segmentation finished")
	return job, nil
}

func (c *Client) createPrediction(ctx context.Context, encodedImage string, params Params) (*prediction, error) {
	payload := predictionRequest{
		Version: c.version,
		Input: predictionInput{
			Image:                encodedImage,
			PointsPerSide:        params.PointsPerSide,
			PredIoUThresh:        params.PredIoUThresh,
			StabilityScoreThresh: params.StabilityScoreThresh,
			UseM2M:               params.UseM2M,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("replicate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("replicate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiToken)
	return c.do(req)
}

func (c *Client) getPrediction(ctx context.Context, id string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("replicate: build status request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiToken)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*prediction, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
			return nil, fmt.Errorf("replicate: %s", detail.Detail)
		}
		return nil, fmt.Errorf("replicate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var pred prediction
	if err := json.Unmarshal(raw, &pred); err != nil {
		return nil, fmt.Errorf("replicate: decode response: %w", err)
	}
	if pred.ID == "" {
		return nil, errors.New("replicate: response missing prediction id")
	}
	return &pred, nil
}

// stateFor maps upstream statuses into the client's vocabulary. Anything
// outside the known set counts as failed.
func stateFor(status string) JobState {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "starting":
		return JobSubmitted
	case "processing":
		return JobRunning
	case "succeeded":
		return JobSucceeded
	default:
		return JobFailed
	}
}

// encodeForSegmentation downscales the working copy to the latency-bounded
// resolution and wraps it as a base64 PNG data URI.
func encodeForSegmentation(img *domain.ImageAsset) (string, error) {
	decoded, err := imaging.Decode(img.Data)
	if err != nil {
		return "", fmt.Errorf("replicate: %w", err)
	}
	data, err := imaging.EncodePNG(imaging.FitWithin(decoded, segmentMaxSide, segmentMaxSide))
	if err != nil {
		return "", fmt.Errorf("replicate: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// maskEntry tolerates both bare URL strings and {"url": ...} objects, which
// different model versions emit interchangeably.
type maskEntry struct {
	URL string
}

func (m *maskEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.URL = s
		return nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	m.URL = obj.URL
	return nil
}

// parseOutput extracts mask references from the prediction output, which may
// be a bare array of URLs or an object with masks and a combined mask.
func parseOutput(raw json.RawMessage) *SegmentResult {
	if len(raw) == 0 {
		return nil
	}
	var urls []string

	var arr []maskEntry
	if err := json.Unmarshal(raw, &arr); err == nil {
		for _, e := range arr {
			if e.URL != "" {
				urls = append(urls, e.URL)
			}
		}
		if len(urls) == 0 {
			return nil
		}
		return &SegmentResult{MaskURLs: urls, CombinedMaskURL: urls[0]}
	}

	var obj struct {
		Masks           []maskEntry `json:"masks"`
		IndividualMasks []maskEntry `json:"individual_masks"`
		CombinedMask    string      `json:"combined_mask"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	for _, e := range append(obj.Masks, obj.IndividualMasks...) {
		if e.URL != "" {
			urls = append(urls, e.URL)
		}
	}
	combined := obj.CombinedMask
	if combined == "" && len(urls) > 0 {
		combined = urls[0]
	}
	if combined == "" && len(urls) == 0 {
		return nil
	}
	return &SegmentResult{MaskURLs: urls, CombinedMaskURL: combined}
}
