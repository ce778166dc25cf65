package models

import "time"

// UserProfile holds display and notification details of a user
type UserProfile struct {
	UserID         string    `json:"user_id" db:"user_id"`
	DisplayName    string    `json:"display_name" db:"display_name"`
	AvatarURL      string    `json:"avatar_url,omitempty" db:"avatar_url"`
	TelegramChatID int64     `json:"telegram_chat_id,omitempty" db:"telegram_chat_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Friend is one edge of a user's social graph
type Friend struct {
	UserID      string    `json:"user_id" db:"user_id"`
	FriendID    string    `json:"friend_id" db:"friend_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// GoalStatus is the state of a cooperation goal
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// CooperationGoal is a goal shared by several users. There is exactly one
// record per goal; participants find it through their own index entries.
type CooperationGoal struct {
	ID             string     `json:"id" db:"id"`
	CreatorID      string     `json:"creator_id" db:"creator_id"`
	Title          string     `json:"title" db:"title"`
	ParticipantIDs []string   `json:"participant_ids" db:"participant_ids"`
	TargetProgress int        `json:"target_progress" db:"target_progress"`
	Progress       int        `json:"progress" db:"progress"`
	Status         GoalStatus `json:"status" db:"status"`
	Deadline       *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// HasParticipant reports whether userID takes part in the goal
func (g *CooperationGoal) HasParticipant(userID string) bool {
	for _, id := range g.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
