package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/mask"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/pipeline"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/styles"
)

type visualizationResponse struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	ResultImageURL   string `json:"result_image_url,omitempty"`
	PredictionID     string `json:"prediction_id,omitempty"`
	ErrorKind        string `json:"error_kind,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
	SegmentationNote string `json:"segmentation_note,omitempty"`
}

func toResponse(v *domain.Visualization) visualizationResponse {
	return visualizationResponse{
		ID:               v.ID,
		Status:           string(v.Status),
		ResultImageURL:   v.ResultImageURL,
		PredictionID:     v.PredictionID,
		ErrorKind:        v.ErrorKind,
		ErrorMessage:     v.ErrorMessage,
		SegmentationNote: v.SegmentationNote,
	}
}

// CreateVisualization receives the photo, the drawn strokes, and the style
// choices, persists the run, executes the pipeline synchronously, and stores
// the outcome before answering.
func (a *App) CreateVisualization(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "could not parse upload form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "an image file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "could not read the uploaded image")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "application/octet-stream" {
		contentType = ""
	}
	asset, err := domain.NewImageAsset(data, contentType)
	if err != nil {
		a.error(w, http.StatusBadRequest, "the uploaded file is not a supported image")
		return
	}

	var strokes []mask.Stroke
	if raw := r.FormValue("strokes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &strokes); err != nil {
			a.error(w, http.StatusBadRequest, "the strokes field is not valid JSON")
			return
		}
	}

	var selection styles.Selection
	if raw := r.FormValue("styles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &selection); err != nil {
			a.error(w, http.StatusBadRequest, "the styles field is not valid JSON")
			return
		}
	}

	canvasW, _ := strconv.Atoi(r.FormValue("canvas_width"))
	canvasH, _ := strconv.Atoi(r.FormValue("canvas_height"))

	id := uuid.NewString()
	key, err := a.Store.Write(r.Context(), originalKey(id, asset.ContentType), asset.Data)
	if err != nil {
		a.Logger.Error().Err(err).Msg("store original image")
		a.error(w, http.StatusInternalServerError, "could not store the uploaded image")
		return
	}

	v := &domain.Visualization{
		ID:                id,
		SourceImageKey:    key,
		SelectedCurbing:   selectedType(selection.Curbing),
		SelectedLandscape: selectedType(selection.Landscape),
		SelectedPatio:     selectedType(selection.Patio),
		Status:            domain.VisualizationProcessing,
	}
	if err := a.Repo.Create(r.Context(), v); err != nil {
		a.Logger.Error().Err(err).Str("id", id).Msg("create visualization record")
		a.error(w, http.StatusInternalServerError, "could not record the visualization")
		return
	}

	res := a.Pipeline.Run(r.Context(), pipeline.Request{
		Image:        asset,
		Strokes:      strokes,
		Styles:       selection,
		CanvasWidth:  canvasW,
		CanvasHeight: canvasH,
	})

	applyResult(v, res)
	if err := a.Repo.UpdateOutcome(r.Context(), v); err != nil {
		a.Logger.Error().Err(err).Str("id", id).Msg("store visualization outcome")
	}

	switch {
	case res.Status == pipeline.StateCompleted:
		a.json(w, http.StatusCreated, toResponse(v))
	case res.ErrorKind == pipeline.KindValidation:
		a.json(w, http.StatusBadRequest, toResponse(v))
	default:
		a.json(w, http.StatusBadGateway, toResponse(v))
	}
}

// GetVisualization answers a status check from the repository.
func (a *App) GetVisualization(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, err := a.Repo.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		a.error(w, http.StatusNotFound, "visualization not found")
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Str("id", id).Msg("load visualization record")
		a.error(w, http.StatusInternalServerError, "could not load the visualization")
		return
	}
	a.json(w, http.StatusOK, toResponse(v))
}

func applyResult(v *domain.Visualization, res pipeline.Result) {
	v.PredictionID = res.PredictionID
	v.ResultImageURL = res.ResultImageURL
	v.ErrorKind = string(res.ErrorKind)
	v.ErrorMessage = res.ErrorMessage
	v.SegmentationNote = res.SegmentationNote
	if res.Status == pipeline.StateCompleted {
		v.Status = domain.VisualizationCompleted
	} else {
		v.Status = domain.VisualizationFailed
	}
}

func selectedType(sel styles.CategorySelection) string {
	if !sel.Enabled {
		return ""
	}
	return sel.Type
}

func originalKey(id, contentType string) string {
	ext := ".png"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	}
	return path.Join("originals", id+ext)
}
