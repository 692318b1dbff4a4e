package domain

import "context"

// VisualizationRepository persists pipeline runs keyed by their ID. The data
// store behind it is external to the pipeline core.
type VisualizationRepository interface {
	Create(ctx context.Context, v *Visualization) error
	GetByID(ctx context.Context, id string) (*Visualization, error)
	UpdateOutcome(ctx context.Context, v *Visualization) error
}
