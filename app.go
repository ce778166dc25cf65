package main

import (
	"context"
	"time"

	"github.com/example/studyplan/internal/bot"
	"github.com/example/studyplan/internal/config"
	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/gamification"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/plans"
	"github.com/example/studyplan/internal/progress"
	"github.com/example/studyplan/internal/recording"
	"github.com/example/studyplan/internal/scheduler"
	"github.com/example/studyplan/internal/spaced_repetition"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/internal/tasks"
)

// app holds the wired services of one process
type app struct {
	cfg *config.Config
	log *logger.Logger
	kv  store.Store
	now func() time.Time

	plansRepo    *database.PlanRepository
	sessionsRepo *database.SessionRepository
	socialRepo   *database.SocialRepository

	plans        *plans.Service
	ledger       *gamification.Ledger
	scorer       *spaced_repetition.Scorer
	aggregator   *tasks.Aggregator
	evaluator    *progress.Evaluator
	orchestrator *recording.Orchestrator
	notifier     *bot.Notifier
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, withBot bool) (*app, error) {
	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("store opened", "backend", cfg.Store.Backend)

	a := &app{
		cfg: cfg,
		log: log,
		kv:  kv,
		now: func() time.Time { return time.Now().In(cfg.Location) },
	}

	a.plansRepo = database.NewPlanRepository(kv)
	a.sessionsRepo = database.NewSessionRepository(kv)
	a.socialRepo = database.NewSocialRepository(kv)
	reviewRepo := database.NewReviewRepository(kv)

	a.ledger = gamification.NewLedger(database.NewPointsRepository(kv), a.socialRepo, log.With("component", "ledger"), a.now)
	a.plans = plans.NewService(a.plansRepo, a.sessionsRepo, log.With("component", "plans"), a.now)
	a.scorer = spaced_repetition.NewScorer(reviewRepo, a.now)
	a.evaluator = progress.NewEvaluator(a.now)
	a.aggregator = tasks.NewAggregator(a.plansRepo, a.sessionsRepo, reviewRepo,
		a.evaluator, progress.NewPlanner(), log.With("component", "tasks"), a.now)

	opts := []recording.Option{recording.WithClock(a.now), recording.WithRoundAdvancer(a.plans)}
	if withBot && cfg.Bot.Token != "" {
		a.notifier, err = bot.New(cfg.Bot.Token, a.socialRepo, log.With("component", "bot"))
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		opts = append(opts, recording.WithLevelUpNotifier(a.notifier))
	}
	a.orchestrator = recording.NewOrchestrator(a.plansRepo, a.sessionsRepo, reviewRepo, a.scorer, a.ledger,
		log.With("component", "recording"), opts...)
	return a, nil
}

// newScheduler builds the periodic jobs. Reminders need the bot.
func (a *app) newScheduler() *scheduler.Scheduler {
	var notifier scheduler.Notifier
	if a.notifier != nil {
		notifier = a.notifier
	}
	return scheduler.New(a.cfg.Location, a.cfg.Scheduler.NotificationHour, notifier, a.socialRepo, a.aggregator, a.ledger,
		a.log.With("component", "scheduler"))
}

func (a *app) Close() error {
	return a.kv.Close()
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	case config.BackendPostgres:
		db, err := database.ConnectPostgres(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return database.NewSQLStore(db), nil
	default:
		db, err := database.ConnectSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return database.NewSQLStore(db), nil
	}
}
