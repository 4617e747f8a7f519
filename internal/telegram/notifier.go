// Package telegram дублирует уведомления о сессиях в Telegram тем пользователям, у которых привязан чат.
package telegram

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MessageSender - часть *bot.Bot, нужная для отправки
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Notifier реализует service.Pusher поверх Telegram
type Notifier struct {
	sender MessageSender
	users  UserLookup
	logger *zap.Logger
}

func NewNotifier(sender MessageSender, users UserLookup, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, users: users, logger: logger}
}

// Push отправляет уведомление в чат пользователя. Без привязанного чата - no-op.
func (n *Notifier) Push(ctx context.Context, userID int64, note *model.Notification) error {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.TelegramChatID == nil {
		return nil
	}

	_, err = n.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    *user.TelegramChatID,
		Text:      formatNotification(note),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Debug("Telegram notification sent",
		zap.Int64("user_id", userID),
		zap.Int64("notification_id", note.ID))
	return nil
}

func formatNotification(note *model.Notification) string {
	text := "🔔 <b>" + html.EscapeString(note.Title) + "</b>"
	if note.Description != "" {
		text += "\n\n" + html.EscapeString(note.Description)
	}
	return text
}
