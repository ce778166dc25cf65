package models

import "time"

// PointsPerLevel is the number of points between two levels
const PointsPerLevel = 100

// UserPoints is the gamification ledger record of a user
type UserPoints struct {
	UserID       string    `json:"user_id" db:"user_id"`
	Points       int       `json:"points" db:"points"`
	WeeklyPoints int       `json:"weekly_points" db:"weekly_points"`
	Level        int       `json:"level" db:"level"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}

// LevelFor returns the level reached with the given total points
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// StudyStats accumulates study time for a user
type StudyStats struct {
	UserID       string    `json:"user_id" db:"user_id"`
	TotalMinutes int       `json:"total_minutes" db:"total_minutes"`
	SessionCount int       `json:"session_count" db:"session_count"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TotalHours returns the accumulated study time in hours
func (s *StudyStats) TotalHours() float64 {
	return float64(s.TotalMinutes) / 60
}

// RankingEntry is one row of a weekly leaderboard
type RankingEntry struct {
	UserID       string `json:"user_id"`
	DisplayName  string `json:"display_name"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	Points       int    `json:"points"`
	WeeklyPoints int    `json:"weekly_points"`
	Level        int    `json:"level"`
	Rank         int    `json:"rank"`
}
