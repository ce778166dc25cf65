// Package plans manages the lifecycle of study plans.
package plans

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/example/studyplan/internal/apperr"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/ranges"
	"github.com/example/studyplan/internal/validation"
	"github.com/example/studyplan/pkg/models"
)

type PlanStore interface {
	Save(ctx context.Context, plan *models.StudyPlan) error
	GetByID(ctx context.Context, userID, planID string) (*models.StudyPlan, error)
	GetAllByUserID(ctx context.Context, userID string) ([]models.StudyPlan, error)
	Delete(ctx context.Context, userID, planID string) error
}

type SessionStore interface {
	GetByPlan(ctx context.Context, userID, planID string) ([]models.StudySession, error)
}

// CreateRequest describes a new plan. A zero StartUnit means 1 and a zero
// EndUnit means StartUnit+TotalUnits-1.
type CreateRequest struct {
	UserID       string            `json:"user_id" validate:"required,excludes=:"`
	Title        string            `json:"title" validate:"required,max=200"`
	UnitLabel    string            `json:"unit_label" validate:"max=50"`
	TotalUnits   int               `json:"total_units" validate:"gt=0"`
	StartUnit    int               `json:"start_unit" validate:"gte=0"`
	EndUnit      int               `json:"end_unit" validate:"gte=0"`
	Deadline     time.Time         `json:"deadline" validate:"required"`
	Difficulty   models.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy normal hard"`
	TargetRounds int               `json:"target_rounds" validate:"gte=0,lte=20"`
	StudyDays    []int             `json:"study_days" validate:"dive,min=1,max=7"`
}

type Service struct {
	plans    PlanStore
	sessions SessionStore
	log      *logger.Logger
	now      func() time.Time
}

func NewService(plans PlanStore, sessions SessionStore, log *logger.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{plans: plans, sessions: sessions, log: log, now: now}
}

// Create validates and stores a new active plan in its first round
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.StudyPlan, error) {
	if err := validation.Check("plan", req); err != nil {
		return nil, err
	}

	start := req.StartUnit
	if start == 0 {
		start = 1
	}
	end := req.EndUnit
	if end == 0 {
		end = start + req.TotalUnits - 1
	}
	if end < start {
		return nil, apperr.Validation("invalid plan", fmt.Sprintf("unit range %d-%d is inverted", start, end))
	}
	if end-start+1 != req.TotalUnits {
		return nil, apperr.Validation("invalid plan", fmt.Sprintf("unit range %d-%d does not hold %d units", start, end, req.TotalUnits))
	}

	now := s.now()
	if models.Day(req.Deadline.In(now.Location())).Before(models.Day(now)) {
		return nil, apperr.Validation("invalid plan", "deadline is in the past")
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyNormal
	}
	rounds := req.TargetRounds
	if rounds == 0 {
		rounds = 1
	}

	days := append([]int(nil), req.StudyDays...)
	sort.Ints(days)

	plan := &models.StudyPlan{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		Title:        req.Title,
		UnitLabel:    req.UnitLabel,
		TotalUnits:   req.TotalUnits,
		StartUnit:    start,
		EndUnit:      end,
		Deadline:     req.Deadline,
		Difficulty:   difficulty,
		TargetRounds: rounds,
		CurrentRound: 1,
		StudyDays:    days,
		Status:       models.PlanActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	s.log.Info("plan created", "user_id", plan.UserID, "plan_id", plan.ID, "units", plan.TotalUnits)
	return plan, nil
}

func (s *Service) Get(ctx context.Context, userID, planID string) (*models.StudyPlan, error) {
	return s.plans.GetByID(ctx, userID, planID)
}

func (s *Service) List(ctx context.Context, userID string) ([]models.StudyPlan, error) {
	return s.plans.GetAllByUserID(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, planID string) error {
	return s.plans.Delete(ctx, userID, planID)
}

// Pause stops an active plan from scheduling daily tasks
func (s *Service) Pause(ctx context.Context, userID, planID string) (*models.StudyPlan, error) {
	return s.transition(ctx, userID, planID, models.PlanPaused, models.PlanActive)
}

// Resume reactivates a paused plan
func (s *Service) Resume(ctx context.Context, userID, planID string) (*models.StudyPlan, error) {
	return s.transition(ctx, userID, planID, models.PlanActive, models.PlanPaused)
}

// Complete closes a plan whether or not its rounds are covered
func (s *Service) Complete(ctx context.Context, userID, planID string) (*models.StudyPlan, error) {
	return s.transition(ctx, userID, planID, models.PlanCompleted, models.PlanActive, models.PlanPaused)
}

func (s *Service) transition(ctx context.Context, userID, planID string, to models.PlanStatus, from ...models.PlanStatus) (*models.StudyPlan, error) {
	plan, err := s.plans.GetByID(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, st := range from {
		if plan.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.Validation("invalid plan status change", fmt.Sprintf("%s -> %s", plan.Status, to))
	}

	plan.Status = to
	plan.UpdatedAt = s.now()
	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	s.log.Info("plan status changed", "user_id", userID, "plan_id", planID, "status", to)
	return plan, nil
}

// AdvanceRoundIfCovered moves the plan to its next round once the learning
// sessions of the current round cover the whole unit range. Covering the last
// round completes the plan. It reports whether a new round started.
func (s *Service) AdvanceRoundIfCovered(ctx context.Context, userID, planID string) (bool, error) {
	plan, err := s.plans.GetByID(ctx, userID, planID)
	if err != nil {
		return false, err
	}
	if plan.Status != models.PlanActive {
		return false, nil
	}

	sessions, err := s.sessions.GetByPlan(ctx, userID, planID)
	if err != nil {
		return false, fmt.Errorf("failed to load plan sessions: %w", err)
	}
	var round []models.StudySession
	for _, sess := range sessions {
		if !sess.IsReview() && sess.Round == plan.CurrentRound {
			round = append(round, sess)
		}
	}
	if ranges.TaskCompletion(round, plan.StartUnit, plan.EndUnit) < 1 {
		return false, nil
	}

	advanced := plan.CurrentRound < plan.TargetRounds
	if advanced {
		plan.CurrentRound++
	} else {
		plan.Status = models.PlanCompleted
	}
	plan.UpdatedAt = s.now()
	if err := s.plans.Save(ctx, plan); err != nil {
		return false, fmt.Errorf("failed to update plan: %w", err)
	}
	s.log.Info("plan round covered", "user_id", userID, "plan_id", planID, "round", plan.CurrentRound, "status", plan.Status)
	return advanced, nil
}
