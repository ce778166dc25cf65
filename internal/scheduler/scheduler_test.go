package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/gamification"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

type reminder struct {
	chatID        int64
	study, review int
}

type fakeNotifier struct {
	sent   []reminder
	failOn int64
}

func (f *fakeNotifier) SendReminder(_ context.Context, chatID int64, _ string, study, review int) error {
	if chatID == f.failOn {
		return errors.New("blocked")
	}
	f.sent = append(f.sent, reminder{chatID, study, review})
	return nil
}

type fakeTasks map[string][]models.ActiveTask

func (f fakeTasks) Today(_ context.Context, userID string) []models.ActiveTask {
	return f[userID]
}

func TestRunReminders(t *testing.T) {
	ctx := context.Background()
	social := database.NewSocialRepository(store.NewMemoryStore())
	for _, p := range []models.UserProfile{
		{UserID: "busy", TelegramChatID: 1},
		{UserID: "idle", TelegramChatID: 2},
		{UserID: "nochat"},
		{UserID: "blocked", TelegramChatID: 4},
	} {
		require.NoError(t, social.SaveProfile(ctx, &p))
	}

	tasks := fakeTasks{
		"busy":    {{Kind: models.TaskDaily}, {Kind: models.TaskReview}, {Kind: models.TaskReview}},
		"nochat":  {{Kind: models.TaskDaily}},
		"blocked": {{Kind: models.TaskDaily}},
	}
	notifier := &fakeNotifier{failOn: 4}
	s := New(time.UTC, 8, notifier, social, tasks, nil, logger.Nop())

	n, err := s.RunReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []reminder{{chatID: 1, study: 1, review: 2}}, notifier.sent)
}

func TestRunWeeklyReset(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	ledger := gamification.NewLedger(database.NewPointsRepository(s), database.NewSocialRepository(s), logger.Nop(), nil)
	_, _, err := ledger.AddPoints(ctx, "u1", 12)
	require.NoError(t, err)

	sched := New(time.UTC, 8, nil, nil, nil, ledger, logger.Nop())
	n, err := sched.RunWeeklyReset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := ledger.GetOrCreate(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.WeeklyPoints)
	assert.Equal(t, 12, p.Points)
}

func TestStartRegistersJobs(t *testing.T) {
	s := New(time.UTC, 9, &fakeNotifier{}, nil, fakeTasks{}, nil, logger.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Len(t, s.scheduler.Jobs(), 2)

	quiet := New(time.UTC, 9, nil, nil, nil, nil, logger.Nop())
	require.NoError(t, quiet.Start())
	defer quiet.Stop()
	assert.Len(t, quiet.scheduler.Jobs(), 1)
}
