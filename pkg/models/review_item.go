package models

import "time"

// ReviewItem tracks the spaced-repetition schedule of a single studied unit
type ReviewItem struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	PlanID         string    `json:"plan_id" db:"plan_id"`
	Unit           int       `json:"unit" db:"unit"`
	LastReviewDate time.Time `json:"last_review_date" db:"last_review_date"`
	NextReviewDate time.Time `json:"next_review_date" db:"next_review_date"`
	EaseFactor     float64   `json:"ease_factor" db:"ease_factor"`
	Repetitions    int       `json:"repetitions" db:"repetitions"`
	IntervalDays   int       `json:"interval_days" db:"interval_days"`
	LastQuality    int       `json:"last_quality" db:"last_quality"` // 0-5 rating of last recall
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DueOnOrBefore reports whether the item is due at or before the given day
func (r *ReviewItem) DueOnOrBefore(day time.Time) bool {
	return !Day(r.NextReviewDate.In(day.Location())).After(Day(day))
}

// DueOn reports whether the item's next review falls on exactly the given day
func (r *ReviewItem) DueOn(day time.Time) bool {
	return SameDay(day, r.NextReviewDate)
}
