package spaced_repetition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

func newTestScorer() (*Scorer, *database.ReviewRepository) {
	repo := database.NewReviewRepository(store.NewMemoryStore())
	return NewScorer(repo, func() time.Time { return testNow }), repo
}

func TestCreateInitialReviewSchedule(t *testing.T) {
	ctx := context.Background()
	scorer, repo := newTestScorer()
	plan := &models.StudyPlan{ID: "p1", UserID: "u1"}

	item, err := scorer.CreateInitialReviewSchedule(ctx, 7, plan, 4)
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, 7, item.Unit)
	assert.Equal(t, "p1", item.PlanID)
	assert.Equal(t, testNow.AddDate(0, 0, 1), item.NextReviewDate)

	stored, err := repo.GetByID(ctx, "u1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.NextReviewDate.Unix(), stored.NextReviewDate.Unix())
}

func TestRecordReview(t *testing.T) {
	ctx := context.Background()
	scorer, repo := newTestScorer()
	require.NoError(t, repo.Save(ctx, &models.ReviewItem{ID: "r1", UserID: "u1", EaseFactor: 2.5, Repetitions: 1, IntervalDays: 1}))

	item, err := scorer.RecordReview(ctx, "u1", "r1", 4)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Repetitions)
	assert.Equal(t, 2, item.IntervalDays)

	_, err = scorer.RecordReview(ctx, "u1", "missing", 4)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = scorer.RecordReview(ctx, "u1", "r1", 6)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	scorer, repo := newTestScorer()
	created := testNow.AddDate(0, 0, -10)

	require.NoError(t, repo.Save(ctx, &models.ReviewItem{ID: "a", UserID: "u1", CreatedAt: created, LastReviewDate: testNow, NextReviewDate: testNow.AddDate(0, 0, 3)}))
	require.NoError(t, repo.Save(ctx, &models.ReviewItem{ID: "b", UserID: "u1", CreatedAt: created, LastReviewDate: testNow.AddDate(0, 0, -1), NextReviewDate: testNow}))
	require.NoError(t, repo.Save(ctx, &models.ReviewItem{ID: "c", UserID: "u1", CreatedAt: testNow, LastReviewDate: testNow, NextReviewDate: testNow.AddDate(0, 0, 1)}))

	stats, err := scorer.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 1, stats.ReviewedToday)
	assert.Equal(t, 1, stats.NewItems)
	assert.Equal(t, 2, stats.StreakDays)
}

func TestDueQueue(t *testing.T) {
	ctx := context.Background()
	scorer, repo := newTestScorer()
	items := []models.ReviewItem{
		{ID: "reviewed", UserID: "u1", NextReviewDate: testNow.AddDate(0, 0, -1), EaseFactor: 2.2, Repetitions: 3},
		{ID: "tonight", UserID: "u1", NextReviewDate: testNow.Add(8 * time.Hour), EaseFactor: 2.5, Repetitions: 0},
		{ID: "tomorrow", UserID: "u1", NextReviewDate: testNow.AddDate(0, 0, 1), EaseFactor: 1.3, Repetitions: 0},
		{ID: "other", UserID: "u2", NextReviewDate: testNow, EaseFactor: 2.5},
	}
	for i := range items {
		require.NoError(t, repo.Save(ctx, &items[i]))
	}

	queue, err := scorer.DueQueue(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "tonight", queue[0].ID)
	assert.Equal(t, "reviewed", queue[1].ID)

	queue, err = scorer.DueQueue(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, queue, 1)
}
