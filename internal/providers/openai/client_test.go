package openai

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/mask"
)

func testAsset(t *testing.T, width, height int) *domain.ImageAsset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: 120, B: uint8(y % 256), A: 255})
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

func testMask(t *testing.T, width, height int) *mask.Mask {
	t.Helper()
	strokes := []mask.Stroke{{
		{X: float64(width) / 2, Y: float64(height) / 2, Radius: float64(width) / 4, Mode: mask.ModePaint},
	}}
	m, err := mask.Compose(strokes, width, height)
	if err != nil {
		t.Fatalf("compose test mask: %v", err)
	}
	return m
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{APIKey: "sk-test", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestEditSendsMultipartFormAndReturnsURL(t *testing.T) {
	var gotPrompt, gotSize, gotN, gotFormat, gotAuth string
	var imageBytes, maskBytes []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/images/edits" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotPrompt = r.FormValue("prompt")
		gotSize = r.FormValue("size")
		gotN = r.FormValue("n")
		gotFormat = r.FormValue("response_format")
		for name, dst := range map[string]*[]byte{"image": &imageBytes, "mask": &maskBytes} {
			f, _, err := r.FormFile(name)
			if err != nil {
				t.Fatalf("form file %s: %v", name, err)
			}
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(f); err != nil {
				t.Fatalf("read %s: %v", name, err)
			}
			f.Close()
			*dst = buf.Bytes()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"url":"https://cdn.example.com/edited.png"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	url, err := c.Edit(context.Background(), testAsset(t, 40, 30), testMask(t, 40, 30), "Add natural stone curbing in this masked area only.")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if url != "https://cdn.example.com/edited.png" {
		t.Fatalf("url = %q", url)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotPrompt != "Add natural stone curbing in this masked area only." {
		t.Errorf("prompt = %q", gotPrompt)
	}
	if gotSize != "1024x1024" || gotN != "1" || gotFormat != "url" {
		t.Errorf("form fields = size %q n %q response_format %q", gotSize, gotN, gotFormat)
	}

	imgCfg, err := png.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		t.Fatalf("decode uploaded image: %v", err)
	}
	maskCfg, err := png.DecodeConfig(bytes.NewReader(maskBytes))
	if err != nil {
		t.Fatalf("decode uploaded mask: %v", err)
	}
	if imgCfg.Width != maskCfg.Width || imgCfg.Height != maskCfg.Height {
		t.Errorf("image %dx%d and mask %dx%d diverge", imgCfg.Width, imgCfg.Height, maskCfg.Width, maskCfg.Height)
	}
	if imgCfg.Width != 40 || imgCfg.Height != 30 {
		t.Errorf("small input was rescaled to %dx%d", imgCfg.Width, imgCfg.Height)
	}
}

func TestEditDownscalesLargeInputs(t *testing.T) {
	var imgCfg image.Config
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		cfg, err := png.DecodeConfig(f)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		imgCfg = cfg
		w.Write([]byte(`{"data":[{"url":"https://cdn.example.com/edited.png"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Edit(context.Background(), testAsset(t, 2048, 1024), testMask(t, 2048, 1024), "Replace the ground cover with brown wood mulch in this region only."); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if imgCfg.Width != 1024 || imgCfg.Height != 512 {
		t.Errorf("uploaded image = %dx%d, want 1024x512", imgCfg.Width, imgCfg.Height)
	}
}

func TestEditRejectsDimensionMismatchBeforeNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Edit(context.Background(), testAsset(t, 40, 30), testMask(t, 20, 20), "prompt")
	if !errors.Is(err, domain.ErrMaskMismatch) {
		t.Fatalf("err = %v, want ErrMaskMismatch", err)
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("server was called %d times", n)
	}
}

func TestEditSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Your request was rejected by the safety system.","type":"invalid_request_error","code":"content_policy_violation"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Edit(context.Background(), testAsset(t, 16, 16), testMask(t, 16, 16), "prompt")
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		t.Fatalf("err = %v, want *ServiceError", err)
	}
	if serviceErr.Message != "Your request was rejected by the safety system." {
		t.Errorf("message = %q", serviceErr.Message)
	}
	if serviceErr.Code != "content_policy_violation" {
		t.Errorf("code = %q", serviceErr.Code)
	}
}

func TestEditEmptyDataIsNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Edit(context.Background(), testAsset(t, 16, 16), testMask(t, 16, 16), "prompt")
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("err = %v, want ErrNoResult", err)
	}
}

func TestEditTransportErrorIsNotServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Edit(context.Background(), testAsset(t, 16, 16), testMask(t, 16, 16), "prompt")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		t.Fatalf("transport failure classified as service error: %v", err)
	}
}

func TestEditRequiresCredentials(t *testing.T) {
	c, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Edit(context.Background(), testAsset(t, 16, 16), testMask(t, 16, 16), "prompt"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}
