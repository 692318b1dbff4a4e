package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/mask"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/providers/openai"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/providers/replicate"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/styles"
)

type stubSegmenter struct {
	job   *replicate.Job
	err   error
	calls int
	got   replicate.Params
}

func (s *stubSegmenter) Segment(_ context.Context, _ *domain.ImageAsset, params replicate.Params) (*replicate.Job, error) {
	s.calls++
	s.got = params
	return s.job, s.err
}

type stubEditor struct {
	url       string
	err       error
	calls     int
	gotPrompt string
	gotMask   *mask.Mask
}

func (e *stubEditor) Edit(_ context.Context, _ *domain.ImageAsset, m *mask.Mask, prompt string) (string, error) {
	e.calls++
	e.gotPrompt = prompt
	e.gotMask = m
	return e.url, e.err
}

func testAsset(t *testing.T) *domain.ImageAsset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 80, G: 140, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	asset, err := domain.NewImageAsset(buf.Bytes(), "image/png")
	if err != nil {
		t.Fatalf("build test asset: %v", err)
	}
	return asset
}

func paintStrokes() []mask.Stroke {
	return []mask.Stroke{{{X: 16, Y: 12, Radius: 6, Mode: mask.ModePaint}}}
}

func succeededJob() *replicate.Job {
	return &replicate.Job{
		ID:        "pred-123",
		State:     replicate.JobSucceeded,
		CreatedAt: time.Now(),
		Result:    &replicate.SegmentResult{CombinedMaskURL: "https://replicate.delivery/combined.png"},
	}
}

func newCoordinator(t *testing.T, seg *stubSegmenter, ed *stubEditor, opts ...func(*Options)) *Coordinator {
	t.Helper()
	o := Options{Segmenter: seg, Editor: ed}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(o)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return c
}

func TestRunCompletes(t *testing.T) {
	seg := &stubSegmenter{job: succeededJob()}
	ed := &stubEditor{url: "https://cdn.example.com/edited.png"}
	c := newCoordinator(t, seg, ed)

	res := c.Run(context.Background(), Request{
		Image:   testAsset(t),
		Strokes: paintStrokes(),
		Styles: styles.Selection{
			Curbing: styles.CategorySelection{Enabled: true, Type: "stone_curbing"},
		},
	})

	if res.Status != StateCompleted {
		t.Fatalf("status = %s (%s: %s)", res.Status, res.ErrorKind, res.ErrorMessage)
	}
	if res.ResultImageURL != "https://cdn.example.com/edited.png" {
		t.Errorf("result url = %q", res.ResultImageURL)
	}
	if res.PredictionID != "pred-123" {
		t.Errorf("prediction id = %q", res.PredictionID)
	}
	if res.SegmentationNote != "" {
		t.Errorf("unexpected segmentation note %q", res.SegmentationNote)
	}
	if seg.calls != 1 || ed.calls != 1 {
		t.Errorf("calls: segment %d edit %d, want 1 and 1", seg.calls, ed.calls)
	}
	if !strings.Contains(ed.gotPrompt, "natural stone curbing") {
		t.Errorf("prompt %q lacks style phrase", ed.gotPrompt)
	}
	if !strings.Contains(ed.gotPrompt, "Do not modify any other parts of the image.") {
		t.Errorf("prompt %q lacks preservation clause", ed.gotPrompt)
	}
	if ed.gotMask == nil || ed.gotMask.Width() != 32 || ed.gotMask.Height() != 24 {
		t.Errorf("mask not composed at image dimensions")
	}
	if seg.got.PointsPerSide != replicate.FastParams.PointsPerSide {
		t.Errorf("segmentation params = %+v, want fast profile", seg.got)
	}
}

func TestRunValidationSkipsAllProviders(t *testing.T) {
	cases := []struct {
		name string
		req  func(t *testing.T) Request
	}{
		{"missing image", func(t *testing.T) Request {
			return Request{Strokes: paintStrokes()}
		}},
		{"missing strokes", func(t *testing.T) Request {
			return Request{Image: testAsset(t)}
		}},
		{"empty mask", func(t *testing.T) Request {
			return Request{Image: testAsset(t), Strokes: []mask.Stroke{
				{{X: 16, Y: 12, Radius: 6, Mode: mask.ModePaint}},
				{{X: 16, Y: 12, Radius: 10, Mode: mask.ModeErase}},
			}}
		}},
		{"canvas mismatch", func(t *testing.T) Request {
			return Request{Image: testAsset(t), Strokes: paintStrokes(), CanvasWidth: 800, CanvasHeight: 600}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seg := &stubSegmenter{job: succeededJob()}
			ed := &stubEditor{url: "https://cdn.example.com/edited.png"}
			c := newCoordinator(t, seg, ed)

			res := c.Run(context.Background(), tc.req(t))

			if res.Status != StateFailed || res.ErrorKind != KindValidation {
				t.Fatalf("status %s kind %s, want failed/validation", res.Status, res.ErrorKind)
			}
			if res.ErrorMessage == "" {
				t.Error("validation failure has no message")
			}
			if seg.calls != 0 || ed.calls != 0 {
				t.Errorf("providers were called: segment %d edit %d", seg.calls, ed.calls)
			}
		})
	}
}

func TestRunSegmentationFailureIsAdvisory(t *testing.T) {
	cases := []struct {
		name string
		seg  *stubSegmenter
	}{
		{"submit error", &stubSegmenter{err: errors.New("replicate: http request: connection refused")}},
		{"timed out", &stubSegmenter{
			job: &replicate.Job{ID: "pred-slow", State: replicate.JobTimedOut},
			err: errors.New("replicate: prediction timed out"),
		}},
		{"upstream failed", &stubSegmenter{job: &replicate.Job{ID: "pred-bad", State: replicate.JobFailed}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ed := &stubEditor{url: "https://cdn.example.com/edited.png"}
			c := newCoordinator(t, tc.seg, ed)

			res := c.Run(context.Background(), Request{Image: testAsset(t), Strokes: paintStrokes()})

			if res.Status != StateCompleted {
				t.Fatalf("status = %s, segmentation failure must not fail the run", res.Status)
			}
			if res.SegmentationNote != SegmentationUnavailable {
				t.Errorf("note = %q", res.SegmentationNote)
			}
			if ed.calls != 1 {
				t.Errorf("edit calls = %d, want 1", ed.calls)
			}
		})
	}
}

func TestRunEditErrorsMapToKinds(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantKind ErrorKind
		wantMsg  string
	}{
		{
			name:     "transport",
			err:      errors.New("openai: http request: dial tcp: connection refused"),
			wantKind: KindEditTransport,
			wantMsg:  "could not reach the edit service",
		},
		{
			name:     "service",
			err:      &openai.ServiceError{Message: "Billing hard limit has been reached", Type: "insufficient_quota"},
			wantKind: KindEditService,
			wantMsg:  "Billing hard limit has been reached",
		},
		{
			name:     "no result",
			err:      openai.ErrNoResult,
			wantKind: KindEditNoResult,
			wantMsg:  "the edit service returned no image",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seg := &stubSegmenter{job: succeededJob()}
			ed := &stubEditor{err: tc.err}
			c := newCoordinator(t, seg, ed)

			res := c.Run(context.Background(), Request{Image: testAsset(t), Strokes: paintStrokes()})

			if res.Status != StateFailed {
				t.Fatalf("status = %s, want failed", res.Status)
			}
			if res.ErrorKind != tc.wantKind {
				t.Errorf("kind = %s, want %s", res.ErrorKind, tc.wantKind)
			}
			if res.ErrorMessage != tc.wantMsg {
				t.Errorf("message = %q, want %q", res.ErrorMessage, tc.wantMsg)
			}
			if ed.calls != 1 {
				t.Errorf("edit calls = %d, a failed edit must never retry", ed.calls)
			}
		})
	}
}

func TestRunGenericPromptWhenNothingSelected(t *testing.T) {
	seg := &stubSegmenter{job: succeededJob()}
	ed := &stubEditor{url: "https://cdn.example.com/edited.png"}
	c := newCoordinator(t, seg, ed)

	res := c.Run(context.Background(), Request{Image: testAsset(t), Strokes: paintStrokes()})

	if res.Status != StateCompleted {
		t.Fatalf("status = %s", res.Status)
	}
	if !strings.Contains(ed.gotPrompt, "professional landscaping") {
		t.Errorf("prompt %q lacks generic clause", ed.gotPrompt)
	}
}

func TestRunCustomPromptAndParams(t *testing.T) {
	seg := &stubSegmenter{job: succeededJob()}
	ed := &stubEditor{url: "https://cdn.example.com/edited.png"}
	c := newCoordinator(t, seg, ed, func(o *Options) {
		o.Params = replicate.EdgeParams
		o.Prompt = func(styles.Selection) string { return "custom instruction" }
	})

	c.Run(context.Background(), Request{Image: testAsset(t), Strokes: paintStrokes()})

	if ed.gotPrompt != "custom instruction" {
		t.Errorf("prompt = %q", ed.gotPrompt)
	}
	if seg.got.PointsPerSide != 64 {
		t.Errorf("points per side = %d, want 64", seg.got.PointsPerSide)
	}
}

func TestNewRequiresProviders(t *testing.T) {
	if _, err := New(Options{Editor: &stubEditor{}}); err == nil {
		t.Error("missing segmenter accepted")
	}
	if _, err := New(Options{Segmenter: &stubSegmenter{}}); err == nil {
		t.Error("missing editor accepted")
	}
}
