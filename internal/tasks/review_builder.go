package tasks

import (
	"sort"
	"time"

	"github.com/example/studyplan/internal/progress"
	"github.com/example/studyplan/internal/ranges"
	"github.com/example/studyplan/pkg/models"
)

// DuePolicy decides whether a review item belongs to a given day
type DuePolicy int

const (
	// DueOnOrBefore folds any overdue backlog into the day
	DueOnOrBefore DuePolicy = iota
	// DueOn keeps only items scheduled for exactly the day
	DueOn
)

func (p DuePolicy) matches(item *models.ReviewItem, day time.Time) bool {
	if p == DueOn {
		return item.DueOn(day)
	}
	return item.DueOnOrBefore(day)
}

// BuildReviewTasks groups the items due on day by plan and by the day they
// fell due, collapses each group's units into contiguous ranges and emits one
// review task per range that is not yet covered by a review session of the
// same day. Overdue items never merge with items due on a later day. Items of
// plans missing from plans are skipped. Output is ordered by plan id, due day,
// then start unit.
func BuildReviewTasks(items []models.ReviewItem, sessions []models.StudySession, plans map[string]*models.StudyPlan, day time.Time, policy DuePolicy) []models.ReviewTask {
	day = models.Day(day)

	type groupKey struct {
		planID string
		due    time.Time
	}
	type group struct {
		units []int
		ids   map[int][]string
	}
	groups := make(map[groupKey]*group)
	for i := range items {
		item := &items[i]
		if !policy.matches(item, day) {
			continue
		}
		if _, ok := plans[item.PlanID]; !ok {
			continue
		}
		key := groupKey{planID: item.PlanID, due: models.Day(item.NextReviewDate.In(day.Location()))}
		g, ok := groups[key]
		if !ok {
			g = &group{ids: make(map[int][]string)}
			groups[key] = g
		}
		g.units = append(g.units, item.Unit)
		g.ids[item.Unit] = append(g.ids[item.Unit], item.ID)
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].planID != keys[j].planID {
			return keys[i].planID < keys[j].planID
		}
		return keys[i].due.Before(keys[j].due)
	})

	var out []models.ReviewTask
	for _, key := range keys {
		g := groups[key]
		plan := plans[key.planID]
		done := reviewSessionsOn(sessions, key.planID, day)

		for _, r := range ranges.MergeUnitsToRanges(g.units) {
			if ranges.TaskCompletion(done, r.Start, r.End) >= 1 {
				continue
			}
			var ids []string
			for u := r.Start; u <= r.End; u++ {
				ids = append(ids, g.ids[u]...)
			}
			out = append(out, models.ReviewTask{
				Task: models.DailyTask{
					PlanID:           key.planID,
					Date:             day,
					StartUnit:        r.Start,
					EndUnit:          r.End,
					Units:            r.Count,
					EstimatedMinutes: r.Count * progress.ReviewMinutesPerUnit,
					Round:            plan.CurrentRound,
				},
				DueDate: key.due,
				ItemIDs: ids,
			})
		}
	}
	return out
}

func reviewSessionsOn(sessions []models.StudySession, planID string, day time.Time) []models.StudySession {
	var out []models.StudySession
	for _, s := range sessions {
		if s.PlanID == planID && s.IsReview() && models.SameDay(day, s.Date) {
			out = append(out, s)
		}
	}
	return out
}
