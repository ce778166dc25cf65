package database

import (
	"context"
	"errors"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

// SocialRepository handles profiles, friends and cooperation goals
type SocialRepository struct {
	store store.Store
}

// NewSocialRepository creates a new repository instance
func NewSocialRepository(s store.Store) *SocialRepository {
	return &SocialRepository{store: s}
}

// GetProfile returns a user profile or a NotFound error
func (r *SocialRepository) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := load(ctx, r.store, store.Key(nsProfile, userID), "profile", userID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile inserts or replaces a user profile
func (r *SocialRepository) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	return save(ctx, r.store, store.Key(nsProfile, p.UserID), "profile", p)
}

// GetAllProfiles returns every stored profile
func (r *SocialRepository) GetAllProfiles(ctx context.Context) ([]models.UserProfile, error) {
	return list[models.UserProfile](ctx, r.store, nsProfile+":", "profiles")
}

// SaveFriend inserts or replaces a friend edge
func (r *SocialRepository) SaveFriend(ctx context.Context, f *models.Friend) error {
	return save(ctx, r.store, store.Key(nsFriend, f.UserID, f.FriendID), "friend", f)
}

// DeleteFriend removes a friend edge
func (r *SocialRepository) DeleteFriend(ctx context.Context, userID, friendID string) error {
	if err := r.store.Delete(ctx, store.Key(nsFriend, userID, friendID)); err != nil {
		return apperr.Store("failed to delete friend", err)
	}
	return nil
}

// GetFriends returns the user's friend list ordered by friend id
func (r *SocialRepository) GetFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	return list[models.Friend](ctx, r.store, store.Prefix(nsFriend, userID), "friends")
}

// SaveGoal inserts or replaces the single record of a goal
func (r *SocialRepository) SaveGoal(ctx context.Context, g *models.CooperationGoal) error {
	return save(ctx, r.store, store.Key(nsGoal, g.ID), "goal", g)
}

// GetGoal returns a goal or a NotFound error
func (r *SocialRepository) GetGoal(ctx context.Context, goalID string) (*models.CooperationGoal, error) {
	var g models.CooperationGoal
	if err := load(ctx, r.store, store.Key(nsGoal, goalID), "goal", goalID, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// AddGoalMember writes the per-user index entry that points at a goal
func (r *SocialRepository) AddGoalMember(ctx context.Context, userID, goalID string) error {
	if err := r.store.Set(ctx, store.Key(nsGoalMember, userID, goalID), []byte(`{}`)); err != nil {
		return apperr.Store("failed to save goal member", err)
	}
	return nil
}

// GetGoalsByUser resolves the user's goal index. Index entries whose goal
// record is gone are skipped.
func (r *SocialRepository) GetGoalsByUser(ctx context.Context, userID string) ([]models.CooperationGoal, error) {
	prefix := store.Prefix(nsGoalMember, userID)
	keys, err := r.store.ListKeys(ctx, prefix)
	if err != nil {
		return nil, apperr.Store("failed to list goals", err)
	}

	goals := make([]models.CooperationGoal, 0, len(keys))
	for _, k := range keys {
		goalID := k[len(prefix):]
		g, err := r.GetGoal(ctx, goalID)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, nil
}

// IsNotFound reports whether err is a NotFound error from this package or a raw store miss
func IsNotFound(err error) bool {
	return apperr.IsKind(err, apperr.KindNotFound) || errors.Is(err, store.ErrNotFound)
}
