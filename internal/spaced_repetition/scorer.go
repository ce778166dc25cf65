// Package spaced_repetition schedules review items with SM-2 and persists the results.
package spaced_repetition

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/pkg/models"
)

// ReviewStore is the persistence the scorer needs
type ReviewStore interface {
	Save(ctx context.Context, item *models.ReviewItem) error
	GetByID(ctx context.Context, userID, itemID string) (*models.ReviewItem, error)
	GetAllByUserID(ctx context.Context, userID string) ([]models.ReviewItem, error)
	GetDueByUser(ctx context.Context, userID string, day time.Time) ([]models.ReviewItem, error)
}

// Scorer records reviews and creates first schedules for newly studied units
type Scorer struct {
	sm2     *SM2
	reviews ReviewStore
	now     func() time.Time
}

// NewScorer creates a scorer using the default SM-2 settings
func NewScorer(reviews ReviewStore, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{sm2: NewSM2(), reviews: reviews, now: now}
}

func checkQuality(quality int) error {
	if quality < 0 || quality > 5 {
		return apperr.Validation("invalid quality", fmt.Sprintf("%d is outside 0..5", quality))
	}
	return nil
}

// RecordReview advances one item's schedule and stores it
func (s *Scorer) RecordReview(ctx context.Context, userID, itemID string, quality int) (*models.ReviewItem, error) {
	if err := checkQuality(quality); err != nil {
		return nil, err
	}
	item, err := s.reviews.GetByID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	s.sm2.Process(item, QualityResponse(quality), s.now())

	if err := s.reviews.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateInitialReviewSchedule creates the first review item for a freshly studied unit
func (s *Scorer) CreateInitialReviewSchedule(ctx context.Context, unit int, plan *models.StudyPlan, quality int) (*models.ReviewItem, error) {
	if err := checkQuality(quality); err != nil {
		return nil, err
	}
	now := s.now()
	item := &models.ReviewItem{
		ID:         uuid.NewString(),
		UserID:     plan.UserID,
		PlanID:     plan.ID,
		Unit:       unit,
		EaseFactor: DefaultEaseFactor,
		CreatedAt:  now,
	}
	s.sm2.Process(item, QualityResponse(quality), now)

	if err := s.reviews.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DueQueue returns the user's items due by today in the order they should be
// reviewed. A limit of zero returns all of them.
func (s *Scorer) DueQueue(ctx context.Context, userID string, limit int) ([]models.ReviewItem, error) {
	due, err := s.reviews.GetDueByUser(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return s.sm2.Prioritize(due, limit), nil
}
