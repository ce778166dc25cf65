package bot

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestSendReminder(t *testing.T) {
	api := &fakeSender{}
	n := NewWithSender(api, nil, logger.Nop())

	require.NoError(t, n.SendReminder(context.Background(), 42, "Ann", 1, 3))
	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(42), api.sent[0].ChatID)
	assert.Contains(t, api.sent[0].Text, "Hi, Ann!")
	assert.Contains(t, api.sent[0].Text, "*1* study task planned")
	assert.Contains(t, api.sent[0].Text, "*3* review tasks due")

	api.err = errors.New("network down")
	assert.Error(t, n.SendReminder(context.Background(), 42, "", 1, 0))
}

func TestNotifyLevelUp(t *testing.T) {
	ctx := context.Background()
	profiles := database.NewSocialRepository(store.NewMemoryStore())
	require.NoError(t, profiles.SaveProfile(ctx, &models.UserProfile{UserID: "linked", DisplayName: "Lee", TelegramChatID: 7}))
	require.NoError(t, profiles.SaveProfile(ctx, &models.UserProfile{UserID: "unlinked"}))

	api := &fakeSender{}
	n := NewWithSender(api, profiles, logger.Nop())

	require.NoError(t, n.NotifyLevelUp(ctx, "linked", 3))
	require.NoError(t, n.NotifyLevelUp(ctx, "unlinked", 3))
	require.NoError(t, n.NotifyLevelUp(ctx, "unknown", 3))

	require.Len(t, api.sent, 1)
	assert.Equal(t, int64(7), api.sent[0].ChatID)
	assert.Contains(t, api.sent[0].Text, "level 3")
}
