package models

import "time"

// PlanStatus is the lifecycle state of a study plan
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
)

// Difficulty is the difficulty tier chosen for a plan
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// StudyPlan represents a long-running plan over a numbered range of units
type StudyPlan struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	Title        string     `json:"title" db:"title"`
	UnitLabel    string     `json:"unit_label,omitempty" db:"unit_label"` // e.g. "page", "word"
	TotalUnits   int        `json:"total_units" db:"total_units"`
	StartUnit    int        `json:"start_unit" db:"start_unit"`
	EndUnit      int        `json:"end_unit" db:"end_unit"`
	Deadline     time.Time  `json:"deadline" db:"deadline"`
	Difficulty   Difficulty `json:"difficulty" db:"difficulty"`
	TargetRounds int        `json:"target_rounds" db:"target_rounds"`
	CurrentRound int        `json:"current_round" db:"current_round"`
	StudyDays    []int      `json:"study_days" db:"study_days"` // ISO weekdays, 1 = Monday
	Status       PlanStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// RangeSize returns the number of units in one round of the plan
func (p *StudyPlan) RangeSize() int {
	if p.EndUnit < p.StartUnit {
		return 0
	}
	return p.EndUnit - p.StartUnit + 1
}

// IsStudyDay reports whether the plan allows studying on the given date.
// A plan without study days allows every day.
func (p *StudyPlan) IsStudyDay(t time.Time) bool {
	if len(p.StudyDays) == 0 {
		return true
	}
	wd := ISOWeekday(t)
	for _, d := range p.StudyDays {
		if d == wd {
			return true
		}
	}
	return false
}
