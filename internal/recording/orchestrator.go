// Package recording is the write path of the engine: it stores study sessions
// and applies their effects on review schedules and the points ledger.
package recording

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/spaced_repetition"
	"github.com/example/studyplan/internal/validation"
	"github.com/example/studyplan/pkg/models"
)

const (
	pointsPerMinute      = 0.017
	continuityMinutes    = 60
	continuityMultiplier = 1.2
	fanOutLimit          = 8
)

type PlanStore interface {
	GetByID(ctx context.Context, userID, planID string) (*models.StudyPlan, error)
}

type SessionStore interface {
	Save(ctx context.Context, session *models.StudySession) error
	GetByID(ctx context.Context, userID, sessionID string) (*models.StudySession, error)
	GetByPlan(ctx context.Context, userID, planID string) ([]models.StudySession, error)
	Delete(ctx context.Context, userID, sessionID string) error
}

type ReviewItemStore interface {
	GetByPlan(ctx context.Context, userID, planID string) ([]models.ReviewItem, error)
}

// Reviewer is the spaced-repetition collaborator
type Reviewer interface {
	RecordReview(ctx context.Context, userID, itemID string, quality int) (*models.ReviewItem, error)
	CreateInitialReviewSchedule(ctx context.Context, unit int, plan *models.StudyPlan, quality int) (*models.ReviewItem, error)
}

// Ledger receives the points and study time a session earns
type Ledger interface {
	AddPoints(ctx context.Context, userID string, delta int) (before, after *models.UserPoints, err error)
	AddStudyTime(ctx context.Context, userID string, minutes, sessions int) (*models.StudyStats, error)
}

// RoundAdvancer moves a plan to its next round once the current one is covered
type RoundAdvancer interface {
	AdvanceRoundIfCovered(ctx context.Context, userID, planID string) (bool, error)
}

// LevelUpNotifier is told when a session lifts a user to a new level
type LevelUpNotifier interface {
	NotifyLevelUp(ctx context.Context, userID string, level int) error
}

// RecordRequest describes a new session. Mode quantity uses Units; mode range
// uses StartUnit and EndUnit.
type RecordRequest struct {
	UserID           string          `json:"user_id" validate:"required,excludes=:"`
	PlanID           string          `json:"plan_id" validate:"required,excludes=:"`
	Date             time.Time       `json:"date" validate:"required"`
	Intent           SessionIntent   `json:"-"`
	Mode             models.UnitMode `json:"mode" validate:"required,oneof=quantity range"`
	Units            int             `json:"units" validate:"gte=0"`
	StartUnit        int             `json:"start_unit" validate:"gte=0"`
	EndUnit          int             `json:"end_unit" validate:"gte=0"`
	DurationMinutes  int             `json:"duration_minutes" validate:"gt=0"`
	Concentration    float64         `json:"concentration" validate:"gte=0,lte=1"`
	DifficultyRating int             `json:"difficulty_rating" validate:"gte=1,lte=5"`
}

// EditRequest replaces the editable fields of a stored session. The stored
// mode and intent are kept.
type EditRequest struct {
	Date             time.Time `json:"date" validate:"required"`
	Units            int       `json:"units" validate:"gte=0"`
	StartUnit        int       `json:"start_unit" validate:"gte=0"`
	EndUnit          int       `json:"end_unit" validate:"gte=0"`
	DurationMinutes  int       `json:"duration_minutes" validate:"gt=0"`
	Concentration    float64   `json:"concentration" validate:"gte=0,lte=1"`
	DifficultyRating int       `json:"difficulty_rating" validate:"gte=1,lte=5"`
}

type Orchestrator struct {
	plans    PlanStore
	sessions SessionStore
	items    ReviewItemStore
	reviewer Reviewer
	ledger   Ledger
	rounds   RoundAdvancer
	notifier LevelUpNotifier
	log      *logger.Logger
	now      func() time.Time
}

// Option configures optional collaborators of an Orchestrator
type Option func(*Orchestrator)

func WithRoundAdvancer(r RoundAdvancer) Option {
	return func(o *Orchestrator) { o.rounds = r }
}

func WithLevelUpNotifier(n LevelUpNotifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func NewOrchestrator(plans PlanStore, sessions SessionStore, items ReviewItemStore, reviewer Reviewer, ledger Ledger, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		plans:    plans,
		sessions: sessions,
		items:    items,
		reviewer: reviewer,
		ledger:   ledger,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	return o
}

// Points returns the points a session of the given duration earns
func Points(durationMinutes int) int {
	m := 1.0
	if durationMinutes >= continuityMinutes {
		m = continuityMultiplier
	}
	return int(math.Round(float64(durationMinutes) * pointsPerMinute * m))
}

func quality(difficultyRating int) int {
	return int(spaced_repetition.QualityFromDifficulty(difficultyRating))
}

// checkRange keeps an explicit range inside the plan's fixed unit range
func checkRange(plan *models.StudyPlan, start, end int) error {
	if start < 1 || start > end {
		return apperr.Validation("invalid unit range", fmt.Sprintf("start %d, end %d", start, end))
	}
	if start < plan.StartUnit || end > plan.EndUnit {
		return apperr.Validation("invalid unit range",
			fmt.Sprintf("%d-%d is outside the plan's units %d-%d", start, end, plan.StartUnit, plan.EndUnit))
	}
	return nil
}

// Record validates and stores a new session, then applies its effects.
// Errors mean nothing usable was stored; effects that fail afterwards are
// reported in the outcome instead.
func (o *Orchestrator) Record(ctx context.Context, req RecordRequest) (*Outcome, error) {
	if err := validation.Check("session", req); err != nil {
		return nil, err
	}
	intent := intentKind(req.Intent)
	if req.Mode == models.ModeQuantity {
		if intent == models.IntentReview {
			return nil, apperr.Validation("invalid session", "review sessions need an explicit range")
		}
		if req.Units <= 0 {
			return nil, apperr.Validation("invalid session", "units must be positive")
		}
	}

	plan, err := o.plans.GetByID(ctx, req.UserID, req.PlanID)
	if err != nil {
		return nil, err
	}
	if req.Mode == models.ModeRange {
		if err := checkRange(plan, req.StartUnit, req.EndUnit); err != nil {
			return nil, err
		}
	}

	now := o.now()
	session := &models.StudySession{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		PlanID:           plan.ID,
		Date:             req.Date,
		DurationMinutes:  req.DurationMinutes,
		Concentration:    req.Concentration,
		DifficultyRating: req.DifficultyRating,
		Round:            plan.CurrentRound,
		Mode:             req.Mode,
		Intent:           intent,
		ReviewItemIDs:    reviewItemIDs(req.Intent),
		ExplicitItems:    len(reviewItemIDs(req.Intent)) > 0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if req.Mode == models.ModeRange {
		session.SetRange(req.StartUnit, req.EndUnit)
	} else {
		start, end, err := o.deriveRange(ctx, plan, req.Units, "")
		if err != nil {
			return nil, err
		}
		session.SetRange(start, end)
	}

	outcome := &Outcome{Session: session}
	if intent == models.IntentReview && !session.ExplicitItems {
		session.ReviewItemIDs = o.resolveTargets(ctx, plan, session, nil, outcome)
	}

	if err := o.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if intent == models.IntentReview {
		o.advanceReviews(ctx, session, session.ReviewItemIDs, outcome)
	} else {
		o.mintReviews(ctx, plan, session, outcome)
		o.advanceRound(ctx, plan, outcome)
	}
	o.award(ctx, session, outcome)

	o.logFailures("session recorded", session, outcome)
	return outcome, nil
}

// Edit updates a stored session. Review sessions re-apply scoring to their
// items, re-resolved when the range moved unless the caller chose them;
// learning sessions never mint new items. No points are awarded.
func (o *Orchestrator) Edit(ctx context.Context, userID, sessionID string, req EditRequest) (*Outcome, error) {
	if err := validation.Check("session", req); err != nil {
		return nil, err
	}
	session, err := o.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Mode != models.ModeRange && req.Units <= 0 {
		return nil, apperr.Validation("invalid session", "units must be positive")
	}

	plan, err := o.plans.GetByID(ctx, userID, session.PlanID)
	if err != nil {
		return nil, err
	}
	if session.Mode == models.ModeRange {
		if err := checkRange(plan, req.StartUnit, req.EndUnit); err != nil {
			return nil, err
		}
	}

	previousStart, previousEnd := 0, 0
	if session.HasRange() {
		previousStart, previousEnd = *session.StartUnit, *session.EndUnit
	}
	previousMinutes := session.DurationMinutes
	session.Date = req.Date
	session.DurationMinutes = req.DurationMinutes
	session.Concentration = req.Concentration
	session.DifficultyRating = req.DifficultyRating
	session.UpdatedAt = o.now()

	switch {
	case session.Mode == models.ModeRange:
		session.SetRange(req.StartUnit, req.EndUnit)
	case session.HasRange():
		end := *session.StartUnit + req.Units - 1
		if end > plan.EndUnit {
			end = plan.EndUnit
		}
		session.SetRange(*session.StartUnit, end)
	default:
		start, end, err := o.deriveRange(ctx, plan, req.Units, session.ID)
		if err != nil {
			return nil, err
		}
		session.SetRange(start, end)
	}

	outcome := &Outcome{Session: session}
	rangeChanged := *session.StartUnit != previousStart || *session.EndUnit != previousEnd
	if session.IsReview() && !session.ExplicitItems && (len(session.ReviewItemIDs) == 0 || rangeChanged) {
		session.ReviewItemIDs = o.resolveTargets(ctx, plan, session, session.ReviewItemIDs, outcome)
	}

	if err := o.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if session.IsReview() {
		o.advanceReviews(ctx, session, session.ReviewItemIDs, outcome)
	}
	if delta := session.DurationMinutes - previousMinutes; delta != 0 {
		if _, err := o.ledger.AddStudyTime(ctx, userID, delta, 0); err != nil {
			outcome.fail(EffectStats, userID, err)
		}
	}

	o.logFailures("session edited", session, outcome)
	return outcome, nil
}

// Delete removes a session. Review items and points stay as they are.
func (o *Orchestrator) Delete(ctx context.Context, userID, sessionID string) error {
	session, err := o.sessions.GetByID(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := o.sessions.Delete(ctx, userID, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if _, err := o.ledger.AddStudyTime(ctx, userID, -session.DurationMinutes, -1); err != nil {
		o.log.Warn("failed to update study time", "user_id", userID, "session_id", sessionID, "error", err)
	}
	return nil
}

// deriveRange places a quantity session right after the units already
// learned in the plan's current round. exclude skips the session being edited.
func (o *Orchestrator) deriveRange(ctx context.Context, plan *models.StudyPlan, units int, exclude string) (int, int, error) {
	prior, err := o.sessions.GetByPlan(ctx, plan.UserID, plan.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load plan sessions: %w", err)
	}

	done := 0
	for _, s := range prior {
		if s.ID == exclude || s.IsReview() || s.Round != plan.CurrentRound {
			continue
		}
		done += s.UnitsCompleted
	}

	start := plan.StartUnit + done
	if start > plan.EndUnit {
		return 0, 0, apperr.Validation("invalid session", fmt.Sprintf("round %d of the plan is already covered", plan.CurrentRound))
	}
	end := start + units - 1
	if end > plan.EndUnit {
		end = plan.EndUnit
	}
	return start, end, nil
}

// resolveTargets picks the plan's items inside the session range that are due
// by today. Items listed in keep stay targeted while their unit is in range.
func (o *Orchestrator) resolveTargets(ctx context.Context, plan *models.StudyPlan, session *models.StudySession, keep []string, outcome *Outcome) []string {
	items, err := o.items.GetByPlan(ctx, plan.UserID, plan.ID)
	if err != nil {
		outcome.fail(EffectReviewAdvance, plan.ID, err)
		return keep
	}

	kept := make(map[string]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}

	today := o.now()
	var ids []string
	for i := range items {
		item := &items[i]
		if item.Unit < *session.StartUnit || item.Unit > *session.EndUnit {
			continue
		}
		if kept[item.ID] || item.DueOnOrBefore(today) {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (o *Orchestrator) advanceReviews(ctx context.Context, session *models.StudySession, ids []string, outcome *Outcome) {
	q := quality(session.DifficultyRating)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, id := range ids {
		g.Go(func() error {
			_, err := o.reviewer.RecordReview(gctx, session.UserID, id, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.fail(EffectReviewAdvance, id, err)
				return nil
			}
			outcome.ReviewsAdvanced++
			return nil
		})
	}
	_ = g.Wait()
}

// mintReviews creates first schedules for the units of a learning session.
// Units that already own a review item in the plan keep their schedule.
func (o *Orchestrator) mintReviews(ctx context.Context, plan *models.StudyPlan, session *models.StudySession, outcome *Outcome) {
	existing := make(map[int]bool)
	items, err := o.items.GetByPlan(ctx, plan.UserID, plan.ID)
	if err != nil {
		outcome.fail(EffectReviewCreate, plan.ID, err)
		return
	}
	for _, item := range items {
		existing[item.Unit] = true
	}

	q := quality(session.DifficultyRating)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for unit := *session.StartUnit; unit <= *session.EndUnit; unit++ {
		if existing[unit] {
			continue
		}
		g.Go(func() error {
			_, err := o.reviewer.CreateInitialReviewSchedule(gctx, unit, plan, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.fail(EffectReviewCreate, fmt.Sprintf("unit %d", unit), err)
				return nil
			}
			outcome.ReviewsCreated++
			return nil
		})
	}
	_ = g.Wait()
}

func (o *Orchestrator) advanceRound(ctx context.Context, plan *models.StudyPlan, outcome *Outcome) {
	if o.rounds == nil {
		return
	}
	advanced, err := o.rounds.AdvanceRoundIfCovered(ctx, plan.UserID, plan.ID)
	if err != nil {
		outcome.fail(EffectRoundAdvance, plan.ID, err)
		return
	}
	outcome.RoundAdvanced = advanced
}

func (o *Orchestrator) award(ctx context.Context, session *models.StudySession, outcome *Outcome) {
	points := Points(session.DurationMinutes)
	before, after, err := o.ledger.AddPoints(ctx, session.UserID, points)
	if err != nil {
		outcome.fail(EffectPoints, session.UserID, err)
	} else {
		outcome.PointsAwarded = points
		outcome.Level = after.Level
		outcome.LeveledUp = models.LevelFor(after.Points) > models.LevelFor(before.Points)
	}

	if _, err := o.ledger.AddStudyTime(ctx, session.UserID, session.DurationMinutes, 1); err != nil {
		outcome.fail(EffectStats, session.UserID, err)
	}

	if outcome.LeveledUp && o.notifier != nil {
		if err := o.notifier.NotifyLevelUp(ctx, session.UserID, outcome.Level); err != nil {
			outcome.fail(EffectLevelUp, session.UserID, err)
		}
	}
}

func (o *Orchestrator) logFailures(msg string, session *models.StudySession, outcome *Outcome) {
	if outcome.OK() {
		o.log.Info(msg, "user_id", session.UserID, "session_id", session.ID, "plan_id", session.PlanID,
			"start_unit", *session.StartUnit, "end_unit", *session.EndUnit)
		return
	}
	for _, f := range outcome.SecondaryFailures {
		o.log.Warn("session effect failed", "user_id", session.UserID, "session_id", session.ID,
			"effect", f.Effect, "target", f.Target, "error", f.Err)
	}
}
