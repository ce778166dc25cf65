package models

import "time"

// UnitMode describes how a session's units were entered
type UnitMode string

const (
	// ModeQuantity sessions carry a count; the range is derived from prior progress
	ModeQuantity UnitMode = "quantity"
	// ModeRange sessions carry an explicit start and end unit
	ModeRange UnitMode = "range"
)

// SessionIntent tells whether a session studied new material or reviewed old units
type SessionIntent string

const (
	IntentLearning SessionIntent = "learning"
	IntentReview   SessionIntent = "review"
)

// StudySession is one recorded block of study against a plan
type StudySession struct {
	ID               string        `json:"id" db:"id"`
	UserID           string        `json:"user_id" db:"user_id"`
	PlanID           string        `json:"plan_id" db:"plan_id"`
	Date             time.Time     `json:"date" db:"date"`
	UnitsCompleted   int           `json:"units_completed" db:"units_completed"`
	StartUnit        *int          `json:"start_unit,omitempty" db:"start_unit"`
	EndUnit          *int          `json:"end_unit,omitempty" db:"end_unit"`
	DurationMinutes  int           `json:"duration_minutes" db:"duration_minutes"`
	Concentration    float64       `json:"concentration" db:"concentration"`         // 0..1
	DifficultyRating int           `json:"difficulty_rating" db:"difficulty_rating"` // 1..5
	Round            int           `json:"round" db:"round"`
	Mode             UnitMode      `json:"mode" db:"mode"`
	Intent           SessionIntent `json:"intent" db:"intent"`
	ReviewItemIDs    []string      `json:"review_item_ids,omitempty" db:"review_item_ids"`
	ExplicitItems    bool          `json:"explicit_items,omitempty" db:"explicit_items"` // ReviewItemIDs came from the caller
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

// HasRange reports whether the session carries an explicit unit range
func (s *StudySession) HasRange() bool {
	return s.StartUnit != nil && s.EndUnit != nil
}

// IsReview reports whether the session completed review work
func (s *StudySession) IsReview() bool {
	return s.Intent == IntentReview
}

// SetRange stores an explicit range and keeps UnitsCompleted consistent with it
func (s *StudySession) SetRange(start, end int) {
	s.StartUnit = &start
	s.EndUnit = &end
	s.UnitsCompleted = end - start + 1
}
