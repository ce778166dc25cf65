package spaced_repetition

import (
	"context"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// ReviewStats summarises a user's review ledger
type ReviewStats struct {
	TotalItems    int `json:"total_items"`
	DueToday      int `json:"due_today"`
	ReviewedToday int `json:"reviewed_today"`
	NewItems      int `json:"new_items"`
	MasteredItems int `json:"mastered_items"`
	StreakDays    int `json:"streak_days"`
}

// Stats computes review statistics for the user as of the scorer's clock
func (s *Scorer) Stats(ctx context.Context, userID string) (*ReviewStats, error) {
	items, err := s.reviews.GetAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return computeStats(s.sm2, items, s.now()), nil
}

func computeStats(sm *SM2, items []models.ReviewItem, now time.Time) *ReviewStats {
	today := models.Day(now)
	stats := &ReviewStats{TotalItems: len(items)}
	reviewDays := make(map[string]bool)

	for i := range items {
		it := &items[i]
		// an item is scheduled on creation; anything later is a real review
		reviewed := it.LastReviewDate.After(it.CreatedAt)
		if it.DueOnOrBefore(today) {
			stats.DueToday++
		}
		if reviewed && models.SameDay(today, it.LastReviewDate) {
			stats.ReviewedToday++
		}
		if !reviewed {
			stats.NewItems++
		}
		if sm.IsMastered(it) {
			stats.MasteredItems++
		}
		if reviewed {
			reviewDays[it.LastReviewDate.In(now.Location()).Format("2006-01-02")] = true
		}
	}

	stats.StreakDays = calculateStreak(reviewDays, today)
	return stats
}

// calculateStreak counts consecutive review days ending today or yesterday
func calculateStreak(reviewDays map[string]bool, today time.Time) int {
	day := today
	if !reviewDays[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
		if !reviewDays[day.Format("2006-01-02")] {
			return 0
		}
	}

	streak := 0
	for reviewDays[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
