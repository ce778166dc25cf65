package database

import (
	"context"
	"sort"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

// PlanRepository handles store operations for study plans
type PlanRepository struct {
	store store.Store
}

// NewPlanRepository creates a new repository instance
func NewPlanRepository(s store.Store) *PlanRepository {
	return &PlanRepository{store: s}
}

func planKey(userID, planID string) string {
	return store.Key(nsPlan, userID, planID)
}

// Save inserts or replaces a plan
func (r *PlanRepository) Save(ctx context.Context, plan *models.StudyPlan) error {
	return save(ctx, r.store, planKey(plan.UserID, plan.ID), "plan", plan)
}

// GetByID returns a plan of the user or a NotFound error
func (r *PlanRepository) GetByID(ctx context.Context, userID, planID string) (*models.StudyPlan, error) {
	var plan models.StudyPlan
	if err := load(ctx, r.store, planKey(userID, planID), "plan", planID, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetAllByUserID returns the user's plans ordered by creation time
func (r *PlanRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.StudyPlan, error) {
	plans, err := list[models.StudyPlan](ctx, r.store, store.Prefix(nsPlan, userID), "plans")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.Before(plans[j].CreatedAt)
	})
	return plans, nil
}

// UserIDs returns every user owning at least one plan
func (r *PlanRepository) UserIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.ListKeys(ctx, nsPlan+":")
	if err != nil {
		return nil, apperr.Store("failed to list plans", err)
	}
	seen := make(map[string]bool)
	var users []string
	for _, k := range keys {
		parts := splitKey(k)
		if len(parts) != 3 || seen[parts[1]] {
			continue
		}
		seen[parts[1]] = true
		users = append(users, parts[1])
	}
	return users, nil
}

// Delete removes a plan. Sessions and review items are left in place.
func (r *PlanRepository) Delete(ctx context.Context, userID, planID string) error {
	if _, err := r.GetByID(ctx, userID, planID); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, planKey(userID, planID)); err != nil {
		return apperr.Store("failed to delete plan", err)
	}
	return nil
}
