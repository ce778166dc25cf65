// Package bot delivers study notifications through Telegram.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/pkg/models"
)

// sender is the part of tgbotapi.BotAPI the notifier uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

// Notifier sends reminders and level-up messages to users' Telegram chats
type Notifier struct {
	api      sender
	profiles ProfileReader
	log      *logger.Logger
}

// New authorizes against the Telegram API with token
func New(token string, profiles ProfileReader, log *logger.Logger) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is not set")
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Info("authorized on telegram", "account", api.Self.UserName)
	return NewWithSender(api, profiles, log), nil
}

func NewWithSender(api sender, profiles ProfileReader, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{api: api, profiles: profiles, log: log}
}

// SendReminder tells a chat how much work is open today
func (n *Notifier) SendReminder(_ context.Context, chatID int64, name string, studyTasks, reviewTasks int) error {
	msg := tgbotapi.NewMessage(chatID, reminderText(name, studyTasks, reviewTasks))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", chatID, err)
	}
	n.log.Debug("reminder sent", "chat_id", chatID, "study_tasks", studyTasks, "review_tasks", reviewTasks)
	return nil
}

// NotifyLevelUp congratulates a user on a new level. Users without a linked
// chat are skipped.
func (n *Notifier) NotifyLevelUp(ctx context.Context, userID string, level int) error {
	profile, err := n.profiles.GetProfile(ctx, userID)
	if database.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if profile.TelegramChatID == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(profile.TelegramChatID, levelUpText(profile.DisplayName, level))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send level up to user %s: %w", userID, err)
	}
	return nil
}
