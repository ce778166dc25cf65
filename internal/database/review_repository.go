package database

import (
	"context"
	"sort"
	"time"

	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

// ReviewRepository handles store operations for review items.
// Items are never deleted.
type ReviewRepository struct {
	store store.Store
}

// NewReviewRepository creates a new repository instance
func NewReviewRepository(s store.Store) *ReviewRepository {
	return &ReviewRepository{store: s}
}

func reviewKey(userID, itemID string) string {
	return store.Key(nsReview, userID, itemID)
}

// Save inserts or replaces a review item
func (r *ReviewRepository) Save(ctx context.Context, item *models.ReviewItem) error {
	return save(ctx, r.store, reviewKey(item.UserID, item.ID), "review item", item)
}

// GetByID returns a review item or a NotFound error
func (r *ReviewRepository) GetByID(ctx context.Context, userID, itemID string) (*models.ReviewItem, error) {
	var item models.ReviewItem
	if err := load(ctx, r.store, reviewKey(userID, itemID), "review item", itemID, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetAllByUserID returns every review item of the user ordered by next review date
func (r *ReviewRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.ReviewItem, error) {
	items, err := list[models.ReviewItem](ctx, r.store, store.Prefix(nsReview, userID), "review items")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].NextReviewDate.Before(items[j].NextReviewDate)
	})
	return items, nil
}

// GetByPlan returns the plan's review items ordered by unit
func (r *ReviewRepository) GetByPlan(ctx context.Context, userID, planID string) ([]models.ReviewItem, error) {
	all, err := r.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []models.ReviewItem
	for _, it := range all {
		if it.PlanID == planID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out, nil
}

// GetDueByUser returns the items due at or before day
func (r *ReviewRepository) GetDueByUser(ctx context.Context, userID string, day time.Time) ([]models.ReviewItem, error) {
	all, err := r.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var due []models.ReviewItem
	for _, it := range all {
		if it.DueOnOrBefore(day) {
			due = append(due, it)
		}
	}
	return due, nil
}
