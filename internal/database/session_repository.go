package database

import (
	"context"
	"sort"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

// SessionRepository handles store operations for study sessions
type SessionRepository struct {
	store store.Store
}

// NewSessionRepository creates a new repository instance
func NewSessionRepository(s store.Store) *SessionRepository {
	return &SessionRepository{store: s}
}

func sessionKey(userID, sessionID string) string {
	return store.Key(nsSession, userID, sessionID)
}

// Save inserts or replaces a session
func (r *SessionRepository) Save(ctx context.Context, session *models.StudySession) error {
	return save(ctx, r.store, sessionKey(session.UserID, session.ID), "session", session)
}

// GetByID returns a session of the user or a NotFound error
func (r *SessionRepository) GetByID(ctx context.Context, userID, sessionID string) (*models.StudySession, error) {
	var s models.StudySession
	if err := load(ctx, r.store, sessionKey(userID, sessionID), "session", sessionID, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAllByUserID returns the user's sessions ordered by date, then creation time
func (r *SessionRepository) GetAllByUserID(ctx context.Context, userID string) ([]models.StudySession, error) {
	sessions, err := list[models.StudySession](ctx, r.store, store.Prefix(nsSession, userID), "sessions")
	if err != nil {
		return nil, err
	}
	sortSessions(sessions)
	return sessions, nil
}

// GetByPlan returns the sessions recorded against one plan, oldest first
func (r *SessionRepository) GetByPlan(ctx context.Context, userID, planID string) ([]models.StudySession, error) {
	all, err := r.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, s := range all {
		if s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, userID, sessionID string) error {
	if _, err := r.GetByID(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, sessionKey(userID, sessionID)); err != nil {
		return apperr.Store("failed to delete session", err)
	}
	return nil
}

func sortSessions(sessions []models.StudySession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.Before(sessions[j].Date)
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
}
