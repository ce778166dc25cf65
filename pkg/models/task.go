package models

import "time"

// TaskKind discriminates planned study from review work
type TaskKind string

const (
	TaskDaily  TaskKind = "daily"
	TaskReview TaskKind = "review"
)

// DailyTask is a derived unit range to work through on one day. It is never persisted.
type DailyTask struct {
	PlanID           string    `json:"plan_id"`
	Date             time.Time `json:"date"`
	StartUnit        int       `json:"start_unit"`
	EndUnit          int       `json:"end_unit"`
	Units            int       `json:"units"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Round            int       `json:"round"`
}

// ReviewTask is a synthetic task built from a contiguous run of due review items.
// ItemIDs must travel with the task so a later completion targets the same items.
type ReviewTask struct {
	Task    DailyTask `json:"task"`
	DueDate time.Time `json:"due_date"`
	ItemIDs []string  `json:"item_ids"`
}

// Achievability classifies whether a plan's deadline is still reachable
type Achievability string

const (
	Achieved    Achievability = "achieved"
	Comfortable Achievability = "comfortable"
	OnTrack     Achievability = "on-track"
	Challenging Achievability = "challenging"
	AtRisk      Achievability = "at-risk"
	Overdue     Achievability = "overdue"
	Impossible  Achievability = "impossible"
)

// Progress summarises how far a plan has come
type Progress struct {
	CompletedUnits int     `json:"completed_units"`
	TotalUnits     int     `json:"total_units"`
	Percent        float64 `json:"percent"` // 0..100 across all target rounds
	RoundPercent   float64 `json:"round_percent"`
	RemainingUnits int     `json:"remaining_units"`
	RemainingDays  int     `json:"remaining_days"` // allowed study days left before the deadline
	RequiredPerDay float64 `json:"required_per_day"`
	AveragePerDay  float64 `json:"average_per_day"`
	StudiedMinutes int     `json:"studied_minutes"`
}

// ActiveTask is an open task as returned to callers
type ActiveTask struct {
	Kind          TaskKind      `json:"kind"`
	Task          DailyTask     `json:"task"`
	Plan          *StudyPlan    `json:"plan"`
	Completion    float64       `json:"completion"`
	Achievability Achievability `json:"achievability"`
	Progress      Progress      `json:"progress"`
	ReviewItemIDs []string      `json:"review_item_ids,omitempty"`
}
