// Package scheduler runs the periodic jobs of the engine: the weekly points
// reset and the daily study reminders.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/pkg/models"
)

const jobTimeout = 5 * time.Minute

// Notifier delivers reminders to a chat
type Notifier interface {
	SendReminder(ctx context.Context, chatID int64, name string, studyTasks, reviewTasks int) error
}

type ProfileSource interface {
	GetAllProfiles(ctx context.Context) ([]models.UserProfile, error)
}

// TaskSource lists the open tasks of a user for today
type TaskSource interface {
	Today(ctx context.Context, userID string) []models.ActiveTask
}

type WeeklyResetter interface {
	ResetAllWeeklyPoints(ctx context.Context) (int, error)
}

// Scheduler manages scheduled jobs for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	profiles  ProfileSource
	tasks     TaskSource
	ledger    WeeklyResetter
	hour      int
	log       *logger.Logger
}

// New creates a scheduler running in loc. Reminders go out daily at
// notificationHour; a nil notifier disables them.
func New(loc *time.Location, notificationHour int, notifier Notifier, profiles ProfileSource, tasks TaskSource, ledger WeeklyResetter, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		notifier:  notifier,
		profiles:  profiles,
		tasks:     tasks,
		ledger:    ledger,
		hour:      notificationHour,
		log:       log,
	}
}

// Start registers the jobs and runs them in the background
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Monday().At("00:00").Do(s.weeklyResetJob); err != nil {
		return fmt.Errorf("failed to schedule weekly reset: %w", err)
	}
	if s.notifier != nil {
		at := fmt.Sprintf("%02d:00", s.hour)
		if _, err := s.scheduler.Every(1).Day().At(at).Do(s.reminderJob); err != nil {
			return fmt.Errorf("failed to schedule reminders: %w", err)
		}
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "jobs", len(s.scheduler.Jobs()), "notification_hour", s.hour)
	return nil
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) weeklyResetJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.RunWeeklyReset(ctx); err != nil {
		s.log.Error("weekly reset failed", "error", err)
	}
}

func (s *Scheduler) reminderJob() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.RunReminders(ctx); err != nil {
		s.log.Error("reminders failed", "error", err)
	}
}

// RunWeeklyReset zeroes every user's weekly points
func (s *Scheduler) RunWeeklyReset(ctx context.Context) (int, error) {
	return s.ledger.ResetAllWeeklyPoints(ctx)
}

// RunReminders notifies every user with a linked chat who still has open
// tasks today and returns how many reminders went out. A failed delivery is
// logged and does not stop the others.
func (s *Scheduler) RunReminders(ctx context.Context) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}
	profiles, err := s.profiles.GetAllProfiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load profiles: %w", err)
	}

	sent := 0
	for _, p := range profiles {
		if p.TelegramChatID == 0 {
			continue
		}

		var study, review int
		for _, t := range s.tasks.Today(ctx, p.UserID) {
			if t.Kind == models.TaskReview {
				review++
			} else {
				study++
			}
		}
		if study+review == 0 {
			continue
		}

		if err := s.notifier.SendReminder(ctx, p.TelegramChatID, p.DisplayName, study, review); err != nil {
			s.log.Warn("failed to send reminder", "user_id", p.UserID, "error", err)
			continue
		}
		sent++
	}
	s.log.Info("reminders sent", "count", sent)
	return sent, nil
}
