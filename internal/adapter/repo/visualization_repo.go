package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/domain"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/infra"
	"github.com/jrlacey28/landscaping-visualization-app-sub001/internal/sqlinline"
)

// VisualizationRepositoryPG implements domain.VisualizationRepository using
// PostgreSQL through the marker-tagged SQL runner.
type VisualizationRepositoryPG struct {
	db infra.SQLExecutor
}

// NewVisualizationRepository constructs a new visualization repository instance.
func NewVisualizationRepository(db infra.SQLExecutor) *VisualizationRepositoryPG {
	return &VisualizationRepositoryPG{db: db}
}

// Create persists a freshly received run in its initial status.
func (r *VisualizationRepositoryPG) Create(ctx context.Context, v *domain.Visualization) error {
	_, err := r.db.Exec(ctx, sqlinline.QInsertVisualization,
		v.ID, v.SourceImageKey, v.SelectedCurbing, v.SelectedLandscape, v.SelectedPatio, string(v.Status))
	return err
}

// GetByID returns the stored run or domain.ErrNotFound.
func (r *VisualizationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Visualization, error) {
	var v domain.Visualization
	var status string
	err := r.db.QueryRow(ctx, sqlinline.QSelectVisualizationByID, id).Scan(
		&v.ID,
		&v.SourceImageKey,
		&v.SelectedCurbing,
		&v.SelectedLandscape,
		&v.SelectedPatio,
		&status,
		&v.PredictionID,
		&v.ResultImageURL,
		&v.ErrorKind,
		&v.ErrorMessage,
		&v.SegmentationNote,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Status = domain.VisualizationStatus(status)
	return &v, nil
}

// UpdateOutcome records the terminal state of a run.
func (r *VisualizationRepositoryPG) UpdateOutcome(ctx context.Context, v *domain.Visualization) error {
	_, err := r.db.Exec(ctx, sqlinline.QUpdateVisualizationOutcome,
		v.ID, string(v.Status), v.PredictionID, v.ResultImageURL, v.ErrorKind, v.ErrorMessage, v.SegmentationNote)
	return err
}

var _ domain.VisualizationRepository = (*VisualizationRepositoryPG)(nil)
