// Package progress computes plan progress, deadline achievability and the
// daily unit ranges a plan schedules.
package progress

import (
	"math"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// Evaluator computes progress summaries against its clock
type Evaluator struct {
	now func() time.Time
}

// NewEvaluator creates an evaluator; a nil clock means time.Now
func NewEvaluator(now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{now: now}
}

// learningSessions keeps the sessions that advanced the plan itself
func learningSessions(plan *models.StudyPlan, sessions []models.StudySession) []models.StudySession {
	var out []models.StudySession
	for _, s := range sessions {
		if s.PlanID == plan.ID && !s.IsReview() {
			out = append(out, s)
		}
	}
	return out
}

func targetUnits(plan *models.StudyPlan) int {
	rounds := plan.TargetRounds
	if rounds < 1 {
		rounds = 1
	}
	return plan.RangeSize() * rounds
}

// CalculateProgress summarises the plan. Units are counted from UnitsCompleted,
// so sessions recorded without an explicit range still count here.
func (e *Evaluator) CalculateProgress(plan *models.StudyPlan, sessions []models.StudySession) models.Progress {
	today := models.Day(e.now())
	learned := learningSessions(plan, sessions)

	var completed, roundDone int
	days := make(map[string]bool)
	for _, s := range learned {
		completed += s.UnitsCompleted
		if s.Round == plan.CurrentRound {
			roundDone += s.UnitsCompleted
		}
		days[s.Date.In(today.Location()).Format("2006-01-02")] = true
	}

	minutes := 0
	for _, s := range sessions {
		if s.PlanID == plan.ID {
			minutes += s.DurationMinutes
		}
	}

	target := targetUnits(plan)
	if completed > target {
		completed = target
	}
	if size := plan.RangeSize(); roundDone > size {
		roundDone = size
	}

	p := models.Progress{
		CompletedUnits: completed,
		TotalUnits:     target,
		RemainingUnits: target - completed,
		RemainingDays:  StudyDaysBetween(plan, today, plan.Deadline),
		StudiedMinutes: minutes,
	}
	if target > 0 {
		p.Percent = float64(completed) / float64(target) * 100
	}
	if size := plan.RangeSize(); size > 0 {
		p.RoundPercent = float64(roundDone) / float64(size) * 100
	}
	if p.RemainingDays > 0 {
		p.RequiredPerDay = float64(p.RemainingUnits) / float64(p.RemainingDays)
	}
	if len(days) > 0 {
		p.AveragePerDay = float64(completed) / float64(len(days))
	}
	return p
}

// EvaluateAchievability classifies whether the deadline can still be met
func (e *Evaluator) EvaluateAchievability(plan *models.StudyPlan, sessions []models.StudySession) models.Achievability {
	p := e.CalculateProgress(plan, sessions)
	today := models.Day(e.now())

	switch {
	case p.RemainingUnits <= 0:
		return models.Achieved
	case today.After(models.Day(plan.Deadline.In(today.Location()))):
		return models.Overdue
	case p.RemainingDays == 0:
		return models.Impossible
	}

	pace := p.AveragePerDay
	if pace <= 0 {
		// No history yet: compare with the even pace the plan was created with
		start := plan.CreatedAt
		if start.IsZero() || start.After(today) {
			start = today
		}
		planned := StudyDaysBetween(plan, start, plan.Deadline)
		if planned == 0 {
			return models.Impossible
		}
		pace = float64(p.TotalUnits) / float64(planned)
	}

	ratio := p.RequiredPerDay / pace
	switch {
	case ratio <= 0.7:
		return models.Comfortable
	case ratio <= 1.0:
		return models.OnTrack
	case ratio <= 1.3:
		return models.Challenging
	case ratio <= 2.0:
		return models.AtRisk
	default:
		return models.Impossible
	}
}

// StudyDaysBetween counts the plan's allowed study days in [from, to], by calendar day
func StudyDaysBetween(plan *models.StudyPlan, from, to time.Time) int {
	day := models.Day(from)
	last := models.Day(to.In(from.Location()))
	n := 0
	for !day.After(last) {
		if plan.IsStudyDay(day) {
			n++
		}
		day = day.AddDate(0, 0, 1)
	}
	return n
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
