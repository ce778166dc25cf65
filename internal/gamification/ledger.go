// Package gamification keeps the points ledger, study statistics, friends and
// cooperation goals of users.
package gamification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/pkg/models"
)

const fanOutLimit = 8

type PointsStore interface {
	GetPoints(ctx context.Context, userID string) (*models.UserPoints, error)
	SavePoints(ctx context.Context, p *models.UserPoints) error
	GetAllPoints(ctx context.Context) ([]models.UserPoints, error)
	GetStats(ctx context.Context, userID string) (*models.StudyStats, error)
	SaveStats(ctx context.Context, s *models.StudyStats) error
}

type SocialStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveFriend(ctx context.Context, f *models.Friend) error
	DeleteFriend(ctx context.Context, userID, friendID string) error
	GetFriends(ctx context.Context, userID string) ([]models.Friend, error)
	SaveGoal(ctx context.Context, g *models.CooperationGoal) error
	GetGoal(ctx context.Context, goalID string) (*models.CooperationGoal, error)
	AddGoalMember(ctx context.Context, userID, goalID string) error
	GetGoalsByUser(ctx context.Context, userID string) ([]models.CooperationGoal, error)
}

type Ledger struct {
	points PointsStore
	social SocialStore
	log    *logger.Logger
	now    func() time.Time

	// serialises read-modify-write of points and stats records
	mu sync.Mutex
}

func NewLedger(points PointsStore, social SocialStore, log *logger.Logger, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Ledger{points: points, social: social, log: log, now: now}
}

// GetOrCreate returns the user's points record, storing a zero record first
// when the user has none.
func (l *Ledger) GetOrCreate(ctx context.Context, userID string) (*models.UserPoints, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.getOrCreate(ctx, userID)
}

func (l *Ledger) getOrCreate(ctx context.Context, userID string) (*models.UserPoints, error) {
	p, err := l.points.GetPoints(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	p = &models.UserPoints{UserID: userID, Level: models.LevelFor(0), LastUpdated: l.now()}
	if err := l.points.SavePoints(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddPoints adds delta to both the total and the weekly points and returns the
// record before and after the change.
func (l *Ledger) AddPoints(ctx context.Context, userID string, delta int) (before, after *models.UserPoints, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.getOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	prev := *p

	p.Points += delta
	p.WeeklyPoints += delta
	p.Level = models.LevelFor(p.Points)
	p.LastUpdated = l.now()
	if err := l.points.SavePoints(ctx, p); err != nil {
		return nil, nil, err
	}
	return &prev, p, nil
}

// ResetWeeklyPoints zeroes the weekly points of a user. The user must have a record.
func (l *Ledger) ResetWeeklyPoints(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.points.GetPoints(ctx, userID)
	if err != nil {
		return err
	}
	p.WeeklyPoints = 0
	p.LastUpdated = l.now()
	return l.points.SavePoints(ctx, p)
}

// ResetAllWeeklyPoints zeroes the weekly points of every user and returns how
// many records changed.
func (l *Ledger) ResetAllWeeklyPoints(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.points.GetAllPoints(ctx)
	if err != nil {
		return 0, err
	}

	reset := 0
	now := l.now()
	for i := range all {
		p := &all[i]
		if p.WeeklyPoints == 0 {
			continue
		}
		p.WeeklyPoints = 0
		p.LastUpdated = now
		if err := l.points.SavePoints(ctx, p); err != nil {
			return reset, fmt.Errorf("failed to reset weekly points for %s: %w", p.UserID, err)
		}
		reset++
	}
	l.log.Info("weekly points reset", "users", reset)
	return reset, nil
}

// AddStudyTime adds minutes and a session count to the user's statistics.
// Negative values undo earlier additions; totals never drop below zero.
func (l *Ledger) AddStudyTime(ctx context.Context, userID string, minutes, sessions int) (*models.StudyStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.points.GetStats(ctx, userID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		s = &models.StudyStats{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	s.TotalMinutes = max(s.TotalMinutes+minutes, 0)
	s.SessionCount = max(s.SessionCount+sessions, 0)
	s.UpdatedAt = l.now()
	if err := l.points.SaveStats(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetStats returns the user's statistics, zero valued when nothing was recorded
func (l *Ledger) GetStats(ctx context.Context, userID string) (*models.StudyStats, error) {
	s, err := l.points.GetStats(ctx, userID)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return &models.StudyStats{UserID: userID}, nil
	}
	return s, err
}
