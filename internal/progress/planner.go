package progress

import (
	"time"

	"github.com/example/studyplan/pkg/models"
)

// MinutesPerUnit is the time estimate of one unit per difficulty tier
var MinutesPerUnit = map[models.Difficulty]int{
	models.DifficultyEasy:   2,
	models.DifficultyNormal: 3,
	models.DifficultyHard:   5,
}

// ReviewMinutesPerUnit is the time estimate of reviewing one unit
const ReviewMinutesPerUnit = 1

// EstimateMinutes returns the expected study time for units of the plan
func EstimateMinutes(plan *models.StudyPlan, units int) int {
	per, ok := MinutesPerUnit[plan.Difficulty]
	if !ok {
		per = MinutesPerUnit[models.DifficultyNormal]
	}
	return units * per
}

// Planner splits the rest of the current round evenly over the remaining study days
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// DailyTask returns the unit range the plan schedules for day. ok is false
// when the plan is not active, day is not a study day or the round is covered.
// Progress is counted from sessions dated before day, so a task stays stable
// while the user works through it.
func (p *Planner) DailyTask(plan *models.StudyPlan, sessions []models.StudySession, day time.Time) (task models.DailyTask, ok bool) {
	if plan.Status != models.PlanActive || !plan.IsStudyDay(day) {
		return task, false
	}
	day = models.Day(day)

	doneBefore := 0
	for _, s := range learningSessions(plan, sessions) {
		if s.Round == plan.CurrentRound && models.Day(s.Date.In(day.Location())).Before(day) {
			doneBefore += s.UnitsCompleted
		}
	}

	remaining := plan.RangeSize() - doneBefore
	if remaining <= 0 {
		return task, false
	}

	daysLeft := StudyDaysBetween(plan, day, plan.Deadline)
	if daysLeft < 1 {
		// past the deadline everything left lands on today
		daysLeft = 1
	}

	perDay := ceilDiv(remaining, daysLeft)
	start := plan.StartUnit + doneBefore
	end := start + perDay - 1
	if end > plan.EndUnit {
		end = plan.EndUnit
	}

	units := end - start + 1
	return models.DailyTask{
		PlanID:           plan.ID,
		Date:             day,
		StartUnit:        start,
		EndUnit:          end,
		Units:            units,
		EstimatedMinutes: EstimateMinutes(plan, units),
		Round:            plan.CurrentRound,
	}, true
}
