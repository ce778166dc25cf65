package plans

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

var testNow = time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)

func newTestService() (*Service, *database.SessionRepository) {
	s := store.NewMemoryStore()
	sessions := database.NewSessionRepository(s)
	return NewService(database.NewPlanRepository(s), sessions, logger.Nop(), func() time.Time { return testNow }), sessions
}

func validRequest() CreateRequest {
	return CreateRequest{
		UserID:     "u1",
		Title:      "Vocabulary",
		TotalUnits: 30,
		Deadline:   testNow.AddDate(0, 1, 0),
		StudyDays:  []int{5, 1, 3},
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	plan, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, 1, plan.StartUnit)
	assert.Equal(t, 30, plan.EndUnit)
	assert.Equal(t, models.DifficultyNormal, plan.Difficulty)
	assert.Equal(t, 1, plan.TargetRounds)
	assert.Equal(t, 1, plan.CurrentRound)
	assert.Equal(t, []int{1, 3, 5}, plan.StudyDays)
	assert.Equal(t, models.PlanActive, plan.Status)

	stored, err := svc.Get(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Title, stored.Title)
}

func TestCreate_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	cases := map[string]func(r *CreateRequest){
		"no title":        func(r *CreateRequest) { r.Title = "" },
		"no units":        func(r *CreateRequest) { r.TotalUnits = 0 },
		"bad weekday":     func(r *CreateRequest) { r.StudyDays = []int{8} },
		"bad difficulty":  func(r *CreateRequest) { r.Difficulty = "extreme" },
		"past deadline":   func(r *CreateRequest) { r.Deadline = testNow.AddDate(0, 0, -1) },
		"range mismatch":  func(r *CreateRequest) { r.StartUnit, r.EndUnit = 10, 20 },
		"colon in userID": func(r *CreateRequest) { r.UserID = "a:b" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	plan, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Resume(ctx, "u1", plan.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	p, err := svc.Pause(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPaused, p.Status)

	p, err = svc.Resume(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanActive, p.Status)

	p, err = svc.Complete(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanCompleted, p.Status)

	_, err = svc.Pause(ctx, "u1", "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func session(id, planID string, round, start, end int, intent models.SessionIntent) *models.StudySession {
	s := &models.StudySession{ID: id, UserID: "u1", PlanID: planID, Date: testNow, Round: round, Intent: intent}
	s.SetRange(start, end)
	return s
}

func TestAdvanceRoundIfCovered(t *testing.T) {
	ctx := context.Background()
	svc, sessions := newTestService()
	req := validRequest()
	req.TargetRounds = 2
	plan, err := svc.Create(ctx, req)
	require.NoError(t, err)

	require.NoError(t, sessions.Save(ctx, session("s1", plan.ID, 1, 1, 20, models.IntentLearning)))
	require.NoError(t, sessions.Save(ctx, session("s2", plan.ID, 1, 21, 30, models.IntentReview)))

	advanced, err := svc.AdvanceRoundIfCovered(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.False(t, advanced)

	require.NoError(t, sessions.Save(ctx, session("s3", plan.ID, 1, 15, 30, models.IntentLearning)))
	advanced, err = svc.AdvanceRoundIfCovered(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.True(t, advanced)

	p, err := svc.Get(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.CurrentRound)

	require.NoError(t, sessions.Save(ctx, session("s4", plan.ID, 2, 1, 30, models.IntentLearning)))
	advanced, err = svc.AdvanceRoundIfCovered(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.False(t, advanced)

	p, err = svc.Get(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanCompleted, p.Status)
}
