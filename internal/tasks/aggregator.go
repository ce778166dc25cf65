// Package tasks derives the open study and review tasks of a user from plans,
// session history and due review items.
package tasks

import (
	"context"
	"sort"
	"time"

	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/ranges"
	"github.com/example/studyplan/pkg/models"
)

type PlanReader interface {
	GetAllByUserID(ctx context.Context, userID string) ([]models.StudyPlan, error)
}

type SessionReader interface {
	GetAllByUserID(ctx context.Context, userID string) ([]models.StudySession, error)
}

type ReviewReader interface {
	GetAllByUserID(ctx context.Context, userID string) ([]models.ReviewItem, error)
}

// Evaluator attaches progress and achievability to a task
type Evaluator interface {
	CalculateProgress(plan *models.StudyPlan, sessions []models.StudySession) models.Progress
	EvaluateAchievability(plan *models.StudyPlan, sessions []models.StudySession) models.Achievability
}

// Planner schedules the unit range a plan expects on a day
type Planner interface {
	DailyTask(plan *models.StudyPlan, sessions []models.StudySession, day time.Time) (models.DailyTask, bool)
}

// Aggregator answers "what is still open" for a user
type Aggregator struct {
	plans     PlanReader
	sessions  SessionReader
	reviews   ReviewReader
	evaluator Evaluator
	planner   Planner
	log       *logger.Logger
	now       func() time.Time
}

func NewAggregator(plans PlanReader, sessions SessionReader, reviews ReviewReader, evaluator Evaluator, planner Planner, log *logger.Logger, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Aggregator{
		plans:     plans,
		sessions:  sessions,
		reviews:   reviews,
		evaluator: evaluator,
		planner:   planner,
		log:       log,
		now:       now,
	}
}

// snapshot is the state every query mode works from
type snapshot struct {
	plans    []models.StudyPlan
	byID     map[string]*models.StudyPlan
	sessions []models.StudySession
	items    []models.ReviewItem
}

func (a *Aggregator) load(ctx context.Context, userID string) *snapshot {
	snap := &snapshot{byID: make(map[string]*models.StudyPlan)}

	plans, err := a.plans.GetAllByUserID(ctx, userID)
	if err != nil {
		a.log.Warn("failed to load plans", "user_id", userID, "error", err)
	}
	sessions, err := a.sessions.GetAllByUserID(ctx, userID)
	if err != nil {
		a.log.Warn("failed to load sessions", "user_id", userID, "error", err)
	}
	items, err := a.reviews.GetAllByUserID(ctx, userID)
	if err != nil {
		a.log.Warn("failed to load review items", "user_id", userID, "error", err)
	}

	snap.plans = plans
	snap.sessions = sessions
	snap.items = items
	for i := range snap.plans {
		snap.byID[snap.plans[i].ID] = &snap.plans[i]
	}
	return snap
}

// Today returns today's open daily tasks and the review tasks due today,
// including any overdue backlog.
func (a *Aggregator) Today(ctx context.Context, userID string) []models.ActiveTask {
	today := a.now()
	snap := a.load(ctx, userID)
	out := a.dailyTasks(snap, today, true)
	return append(out, a.reviewTasks(snap, today, DueOnOrBefore)...)
}

// ForDate returns the open tasks of one calendar day. Review tasks are limited
// to items scheduled for exactly that day.
func (a *Aggregator) ForDate(ctx context.Context, userID string, date time.Time) []models.ActiveTask {
	snap := a.load(ctx, userID)
	out := a.dailyTasks(snap, date, true)
	return append(out, a.reviewTasks(snap, date, DueOn)...)
}

// All returns today's tasks with completion measured against the whole session
// history instead of today's sessions only.
func (a *Aggregator) All(ctx context.Context, userID string) []models.ActiveTask {
	today := a.now()
	snap := a.load(ctx, userID)
	out := a.dailyTasks(snap, today, false)
	return append(out, a.reviewTasks(snap, today, DueOnOrBefore)...)
}

func (a *Aggregator) dailyTasks(snap *snapshot, day time.Time, sameDay bool) []models.ActiveTask {
	plans := make([]*models.StudyPlan, 0, len(snap.plans))
	for i := range snap.plans {
		plans = append(plans, &snap.plans[i])
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Title < plans[j].Title
	})

	var out []models.ActiveTask
	for _, plan := range plans {
		planSessions := sessionsOf(snap.sessions, plan.ID)
		task, ok := a.planner.DailyTask(plan, planSessions, day)
		if !ok {
			continue
		}

		var scoped []models.StudySession
		for _, s := range planSessions {
			if s.IsReview() {
				continue
			}
			if sameDay && !models.SameDay(task.Date, s.Date) {
				continue
			}
			scoped = append(scoped, s)
		}

		completion := ranges.TaskCompletion(scoped, task.StartUnit, task.EndUnit)
		if completion >= 1 {
			continue
		}
		out = append(out, models.ActiveTask{
			Kind:          models.TaskDaily,
			Task:          task,
			Plan:          plan,
			Completion:    completion,
			Achievability: a.evaluator.EvaluateAchievability(plan, planSessions),
			Progress:      a.evaluator.CalculateProgress(plan, planSessions),
		})
	}
	return out
}

func (a *Aggregator) reviewTasks(snap *snapshot, day time.Time, policy DuePolicy) []models.ActiveTask {
	built := BuildReviewTasks(snap.items, snap.sessions, snap.byID, day, policy)

	out := make([]models.ActiveTask, 0, len(built))
	for _, rt := range built {
		plan := snap.byID[rt.Task.PlanID]
		planSessions := sessionsOf(snap.sessions, plan.ID)
		done := reviewSessionsOn(planSessions, plan.ID, rt.Task.Date)
		out = append(out, models.ActiveTask{
			Kind:          models.TaskReview,
			Task:          rt.Task,
			Plan:          plan,
			Completion:    ranges.TaskCompletion(done, rt.Task.StartUnit, rt.Task.EndUnit),
			Achievability: a.evaluator.EvaluateAchievability(plan, planSessions),
			Progress:      a.evaluator.CalculateProgress(plan, planSessions),
			ReviewItemIDs: rt.ItemIDs,
		})
	}
	return out
}

func sessionsOf(sessions []models.StudySession, planID string) []models.StudySession {
	var out []models.StudySession
	for _, s := range sessions {
		if s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out
}
