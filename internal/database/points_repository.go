package database

import (
	"context"

	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

// PointsRepository handles store operations for the points ledger and study statistics
type PointsRepository struct {
	store store.Store
}

// NewPointsRepository creates a new repository instance
func NewPointsRepository(s store.Store) *PointsRepository {
	return &PointsRepository{store: s}
}

// GetPoints returns the user's points record or a NotFound error
func (r *PointsRepository) GetPoints(ctx context.Context, userID string) (*models.UserPoints, error) {
	var p models.UserPoints
	if err := load(ctx, r.store, store.Key(nsPoints, userID), "points", userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePoints inserts or replaces the user's points record
func (r *PointsRepository) SavePoints(ctx context.Context, p *models.UserPoints) error {
	return save(ctx, r.store, store.Key(nsPoints, p.UserID), "points", p)
}

// GetAllPoints returns every points record
func (r *PointsRepository) GetAllPoints(ctx context.Context) ([]models.UserPoints, error) {
	return list[models.UserPoints](ctx, r.store, nsPoints+":", "points")
}

// GetStats returns the user's study statistics or a NotFound error
func (r *PointsRepository) GetStats(ctx context.Context, userID string) (*models.StudyStats, error) {
	var s models.StudyStats
	if err := load(ctx, r.store, store.Key(nsStats, userID), "stats", userID, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveStats inserts or replaces the user's study statistics
func (r *PointsRepository) SaveStats(ctx context.Context, s *models.StudyStats) error {
	return save(ctx, r.store, store.Key(nsStats, s.UserID), "stats", s)
}
