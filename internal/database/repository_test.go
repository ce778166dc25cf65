package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

func TestPlanRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlanRepository(store.NewMemoryStore())
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.GetByID(ctx, "u1", "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, repo.Save(ctx, &models.StudyPlan{ID: "b", UserID: "u1", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Save(ctx, &models.StudyPlan{ID: "a", UserID: "u1", CreatedAt: base}))
	require.NoError(t, repo.Save(ctx, &models.StudyPlan{ID: "c", UserID: "u2", CreatedAt: base}))

	plans, err := repo.GetAllByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "a", plans[0].ID)

	users, err := repo.UserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, users)

	require.NoError(t, repo.Delete(ctx, "u1", "a"))
	assert.True(t, apperr.IsKind(repo.Delete(ctx, "u1", "a"), apperr.KindNotFound))
}

func TestSessionRepository_OrderAndPlanFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(store.NewMemoryStore())
	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	require.NoError(t, repo.Save(ctx, &models.StudySession{ID: "s3", UserID: "u1", PlanID: "p1", Date: d2}))
	require.NoError(t, repo.Save(ctx, &models.StudySession{ID: "s1", UserID: "u1", PlanID: "p1", Date: d1, CreatedAt: d1.Add(time.Minute)}))
	require.NoError(t, repo.Save(ctx, &models.StudySession{ID: "s2", UserID: "u1", PlanID: "p2", Date: d1, CreatedAt: d1}))

	all, err := repo.GetAllByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1", "s3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	p1, err := repo.GetByPlan(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Len(t, p1, 2)
}

func TestReviewRepository_Due(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository(store.NewMemoryStore())
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, &models.ReviewItem{ID: "r1", UserID: "u1", PlanID: "p1", Unit: 2, NextReviewDate: today.AddDate(0, 0, -2)}))
	require.NoError(t, repo.Save(ctx, &models.ReviewItem{ID: "r2", UserID: "u1", PlanID: "p1", Unit: 1, NextReviewDate: today.Add(5 * time.Hour)}))
	require.NoError(t, repo.Save(ctx, &models.ReviewItem{ID: "r3", UserID: "u1", PlanID: "p2", Unit: 1, NextReviewDate: today.AddDate(0, 0, 1)}))

	due, err := repo.GetDueByUser(ctx, "u1", today)
	require.NoError(t, err)
	assert.Len(t, due, 2)

	byPlan, err := repo.GetByPlan(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, byPlan[0].Unit)
}

func TestSocialRepository_GoalIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewSocialRepository(store.NewMemoryStore())

	require.NoError(t, repo.SaveGoal(ctx, &models.CooperationGoal{ID: "g1", Title: "read"}))
	require.NoError(t, repo.AddGoalMember(ctx, "u1", "g1"))
	require.NoError(t, repo.AddGoalMember(ctx, "u1", "gone"))

	goals, err := repo.GetGoalsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "read", goals[0].Title)

	_, err = repo.GetProfile(ctx, "nobody")
	assert.True(t, IsNotFound(err))
}
