package gamification

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/validation"
	"github.com/example/studyplan/pkg/models"
)

// AddFriend adds friendID to the user's friend list, copying the friend's
// profile details when there is a profile.
func (l *Ledger) AddFriend(ctx context.Context, userID, friendID string) (*models.Friend, error) {
	if userID == "" || friendID == "" || userID == friendID {
		return nil, apperr.Validation("invalid friend", "user and friend must be two different ids")
	}

	f := &models.Friend{UserID: userID, FriendID: friendID, DisplayName: friendID, CreatedAt: l.now()}
	profile, err := l.social.GetProfile(ctx, friendID)
	switch {
	case err == nil:
		if profile.DisplayName != "" {
			f.DisplayName = profile.DisplayName
		}
		f.AvatarURL = profile.AvatarURL
	case !apperr.IsKind(err, apperr.KindNotFound):
		return nil, err
	}

	if err := l.social.SaveFriend(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (l *Ledger) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return l.social.DeleteFriend(ctx, userID, friendID)
}

func (l *Ledger) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	return l.social.GetFriends(ctx, userID)
}

// CreateGoalRequest describes a new cooperation goal
type CreateGoalRequest struct {
	CreatorID      string     `json:"creator_id" validate:"required,excludes=:"`
	Title          string     `json:"title" validate:"required,max=200"`
	ParticipantIDs []string   `json:"participant_ids" validate:"dive,required,excludes=:"`
	TargetProgress int        `json:"target_progress" validate:"gt=0"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

// CreateCooperationGoal stores one goal record and an index entry for every
// participant. The creator always participates.
func (l *Ledger) CreateCooperationGoal(ctx context.Context, req CreateGoalRequest) (*models.CooperationGoal, error) {
	if err := validation.Check("goal", req); err != nil {
		return nil, err
	}

	participants := []string{req.CreatorID}
	seen := map[string]bool{req.CreatorID: true}
	for _, id := range req.ParticipantIDs {
		if !seen[id] {
			seen[id] = true
			participants = append(participants, id)
		}
	}

	now := l.now()
	goal := &models.CooperationGoal{
		ID:             uuid.NewString(),
		CreatorID:      req.CreatorID,
		Title:          req.Title,
		ParticipantIDs: participants,
		TargetProgress: req.TargetProgress,
		Status:         models.GoalActive,
		Deadline:       req.Deadline,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.social.SaveGoal(ctx, goal); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, userID := range participants {
		g.Go(func() error {
			return l.social.AddGoalMember(gctx, userID, goal.ID)
		})
	}
	if err := g.Wait(); err != nil {
		l.log.Error("failed to index goal", "goal_id", goal.ID, "error", err)
		return nil, err
	}
	return goal, nil
}

// UpdateGoalProgress sets the progress of a goal and completes it once the
// target is reached.
func (l *Ledger) UpdateGoalProgress(ctx context.Context, goalID string, progress int) (*models.CooperationGoal, error) {
	goal, err := l.social.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}

	goal.Progress = progress
	if goal.Progress >= goal.TargetProgress {
		goal.Status = models.GoalCompleted
	}
	goal.UpdatedAt = l.now()
	if err := l.social.SaveGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (l *Ledger) ListGoals(ctx context.Context, userID string) ([]models.CooperationGoal, error) {
	return l.social.GetGoalsByUser(ctx, userID)
}

// GetRanking orders users by weekly points. Display details come from the
// first user's friend list and that user's own profile; anyone else falls
// back to their id. Ties keep the input order.
func (l *Ledger) GetRanking(ctx context.Context, userIDs []string) ([]models.RankingEntry, error) {
	if len(userIDs) == 0 {
		return []models.RankingEntry{}, nil
	}

	names := make(map[string]models.Friend)
	friends, err := l.social.GetFriends(ctx, userIDs[0])
	if err != nil {
		l.log.Warn("failed to load friends for ranking", "user_id", userIDs[0], "error", err)
	}
	for _, f := range friends {
		names[f.FriendID] = f
	}
	if p, err := l.social.GetProfile(ctx, userIDs[0]); err == nil {
		names[p.UserID] = models.Friend{FriendID: p.UserID, DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
	}

	entries := make([]models.RankingEntry, 0, len(userIDs))
	for _, id := range userIDs {
		e := models.RankingEntry{UserID: id, DisplayName: id, Level: models.LevelFor(0)}
		p, err := l.points.GetPoints(ctx, id)
		switch {
		case err == nil:
			e.Points, e.WeeklyPoints, e.Level = p.Points, p.WeeklyPoints, p.Level
		case !apperr.IsKind(err, apperr.KindNotFound):
			return nil, err
		}
		if f, ok := names[id]; ok && f.DisplayName != "" {
			e.DisplayName = f.DisplayName
			e.AvatarURL = f.AvatarURL
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WeeklyPoints > entries[j].WeeklyPoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
