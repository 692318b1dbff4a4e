package domain

import "time"

// VisualizationStatus enumerates the lifecycle of a stored pipeline run.
type VisualizationStatus string

const (
	VisualizationProcessing VisualizationStatus = "processing"
	VisualizationCompleted  VisualizationStatus = "completed"
	VisualizationFailed     VisualizationStatus = "failed"
)

// Visualization records one end-to-end pipeline invocation: the uploaded
// photo, the style choices that drove the edit, and the outcome. The caller
// persists it; the pipeline itself never touches storage.
type Visualization struct {
	ID                string
	SourceImageKey    string
	SelectedCurbing   string
	SelectedLandscape string
	SelectedPatio     string
	Status            VisualizationStatus
	PredictionID      string
	ResultImageURL    string
	ErrorKind         string
	ErrorMessage      string
	SegmentationNote  string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
