package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/studyplan/pkg/models"
)

// 2026-04-06 is a Monday
var monday = time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newPlan() *models.StudyPlan {
	return &models.StudyPlan{
		ID:           "p1",
		UserID:       "u1",
		TotalUnits:   100,
		StartUnit:    1,
		EndUnit:      100,
		Deadline:     monday.AddDate(0, 0, 9), // Wednesday next week
		Difficulty:   models.DifficultyNormal,
		TargetRounds: 1,
		CurrentRound: 1,
		StudyDays:    []int{1, 2, 3, 4, 5},
		Status:       models.PlanActive,
		CreatedAt:    monday,
	}
}

func learned(date time.Time, units int) models.StudySession {
	return models.StudySession{PlanID: "p1", Date: date, UnitsCompleted: units, Round: 1, Intent: models.IntentLearning, DurationMinutes: 30}
}

func TestStudyDaysBetween(t *testing.T) {
	plan := newPlan()
	// Mon..Wed next week, weekdays only: 5 + 3
	assert.Equal(t, 8, StudyDaysBetween(plan, monday, plan.Deadline))
	assert.Equal(t, 0, StudyDaysBetween(plan, plan.Deadline.AddDate(0, 0, 1), plan.Deadline))

	plan.StudyDays = nil
	assert.Equal(t, 10, StudyDaysBetween(plan, monday, plan.Deadline))
}

func TestCalculateProgress(t *testing.T) {
	plan := newPlan()
	e := NewEvaluator(fixedClock(monday.AddDate(0, 0, 2)))
	sessions := []models.StudySession{
		learned(monday, 10),
		learned(monday.AddDate(0, 0, 1), 20),
		{PlanID: "p1", Date: monday, UnitsCompleted: 5, Intent: models.IntentReview, DurationMinutes: 10},
		{PlanID: "other", Date: monday, UnitsCompleted: 50},
	}

	p := e.CalculateProgress(plan, sessions)
	assert.Equal(t, 30, p.CompletedUnits)
	assert.Equal(t, 70, p.RemainingUnits)
	assert.InDelta(t, 30.0, p.Percent, 1e-9)
	assert.InDelta(t, 30.0, p.RoundPercent, 1e-9)
	assert.Equal(t, 6, p.RemainingDays)
	assert.InDelta(t, 70.0/6, p.RequiredPerDay, 1e-9)
	assert.InDelta(t, 15.0, p.AveragePerDay, 1e-9)
	assert.Equal(t, 70, p.StudiedMinutes)
}

func TestEvaluateAchievability(t *testing.T) {
	plan := newPlan()

	t.Run("achieved", func(t *testing.T) {
		e := NewEvaluator(fixedClock(monday))
		assert.Equal(t, models.Achieved, e.EvaluateAchievability(plan, []models.StudySession{learned(monday, 100)}))
	})
	t.Run("overdue", func(t *testing.T) {
		e := NewEvaluator(fixedClock(plan.Deadline.AddDate(0, 0, 1)))
		assert.Equal(t, models.Overdue, e.EvaluateAchievability(plan, nil))
	})
	t.Run("on track with no history", func(t *testing.T) {
		e := NewEvaluator(fixedClock(monday))
		assert.Equal(t, models.OnTrack, e.EvaluateAchievability(plan, nil))
	})
	t.Run("comfortable when ahead", func(t *testing.T) {
		e := NewEvaluator(fixedClock(monday.AddDate(0, 0, 1)))
		// 60 done on one day, 40 left over 7 days: 5.7/day vs pace 60
		assert.Equal(t, models.Comfortable, e.EvaluateAchievability(plan, []models.StudySession{learned(monday, 60)}))
	})
	t.Run("impossible when far behind", func(t *testing.T) {
		e := NewEvaluator(fixedClock(plan.Deadline))
		// 1 day left, 98 units to go at 1 unit/day
		s := []models.StudySession{learned(monday, 1), learned(monday.AddDate(0, 0, 1), 1)}
		assert.Equal(t, models.Impossible, e.EvaluateAchievability(plan, s))
	})
}
