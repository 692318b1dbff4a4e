// Package openai is the generative edit boundary: a single-shot call to the
// images/edits endpoint carrying the photo, its binary mask, and the composed
// instruction. Failures are classified so the pipeline can distinguish
// transport problems, service-reported errors, and empty results.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/imaging"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/mask"
)

var (
	// ErrMissingAPIKey indicates the client was configured without credentials.
	ErrMissingAPIKey = errors.New("openai: api key is required")
	// ErrNoResult indicates the service answered without a usable image URL.
	ErrNoResult = errors.New("openai: no edit produced")
)

// editSize is the fixed square resolution the edit endpoint accepts. Inputs
// are fitted inside it without enlarging past their original resolution.
const editSize = 1024

// ServiceError is a failure the edit service reported in its response body.
// It is not retryable and its message is surfaced to the caller verbatim.
type ServiceError struct {
	Message string
	Type    string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("openai: %s (%s)", e.Message, e.Code)
	}
	return "openai: " + e.Message
}

// Options configures the edit client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client performs HTTP calls against the images/edits endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

type editResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Edit submits one edit request and returns the remote result URL. The image
// and mask must share pixel dimensions; a mismatch is rejected before any
// network traffic. Both are re-encoded to PNG within the service's accepted
// resolution, aspect preserved, never enlarged.
func (c *Client) Edit(ctx context.Context, img *domain.ImageAsset, m *mask.Mask, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrMissingAPIKey
	}
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("openai: %w", domain.ErrInvalidImage)
	}
	if m == nil {
		return "", fmt.Errorf("openai: %w", domain.ErrMaskRequired)
	}
	if m.Empty() {
		return "", fmt.Errorf("openai: %w", domain.ErrEmptyMask)
	}
	if m.Width() != img.Width || m.Height() != img.Height {
		return "", fmt.Errorf("openai: %w: mask %dx%d, image %dx%d",
			domain.ErrMaskMismatch, m.Width(), m.Height(), img.Width, img.Height)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("openai: prompt is required")
	}

	imagePNG, maskPNG, err := prepareEditInputs(img, m)
	if err != nil {
		return "", err
	}

	body, contentType, err := encodeEditForm(imagePNG, maskPNG, prompt)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", body)
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}

	var decoded editResponse
	if jsonErr := json.Unmarshal(raw, &decoded); jsonErr != nil {
		if resp.StatusCode >= 300 {
			return "", &ServiceError{Message: fmt.Sprintf("status %d", resp.StatusCode)}
		}
		return "", fmt.Errorf("openai: decode response: %w", jsonErr)
	}
	if decoded.Error != nil {
		return "", &ServiceError{Message: decoded.Error.Message, Type: decoded.Error.Type, Code: decoded.Error.Code}
	}
	if resp.StatusCode >= 300 {
		return "", &ServiceError{Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	if len(decoded.Data) == 0 || strings.TrimSpace(decoded.Data[0].URL) == "" {
		return "", ErrNoResult
	}

	url := decoded.Data[0].URL
	c.logger.Debug().Str("url", url).Msg("openai: edit produced result")
	return url, nil
}

// prepareEditInputs derives the working copies sent upstream: the photo is
// resampled smoothly, the mask nearest-neighbour and re-thresholded so it
// stays strictly binary at the new resolution.
func prepareEditInputs(img *domain.ImageAsset, m *mask.Mask) ([]byte, []byte, error) {
	decoded, err := imaging.Decode(img.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("openai: %w", err)
	}
	imagePNG, err := imaging.EncodePNG(imaging.FitWithin(decoded, editSize, editSize))
	if err != nil {
		return nil, nil, fmt.Errorf("openai: %w", err)
	}
	resized := mask.FromImage(imaging.FitWithinNearest(m.Image(), editSize, editSize))
	maskPNG, err := resized.EncodePNG()
	if err != nil {
		return nil, nil, fmt.Errorf("openai: encode mask: %w", err)
	}
	return imagePNG, maskPNG, nil
}

func encodeEditForm(imagePNG, maskPNG []byte, prompt string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	imagePart, err := w.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, "", fmt.Errorf("openai: encode form: %w", err)
	}
	if _, err := imagePart.Write(imagePNG); err != nil {
		return nil, "", fmt.Errorf("openai: encode form: %w", err)
	}
	maskPart, err := w.CreateFormFile("mask", "mask.png")
	if err != nil {
		return nil, "", fmt.Errorf("openai: encode form: %w", err)
	}
	if _, err := maskPart.Write(maskPNG); err != nil {
		return nil, "", fmt.Errorf("openai: encode form: %w", err)
	}

	fields := map[string]string{
		"prompt":          prompt,
		"n":               "1",
		"size":            fmt.Sprintf("%dx%d", editSize, editSize),
		"response_format": "url",
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("openai: encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("openai: encode form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
