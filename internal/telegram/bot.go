package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TokenVerifier проверяет токен доступа, которым пользователь подтверждает привязку чата
type TokenVerifier interface {
	Parse(token string) (auth.Identity, error)
}

// ChatLinker сохраняет чат Telegram за пользователем
type ChatLinker interface {
	SetTelegramChatID(ctx context.Context, userID, chatID int64) (bool, error)
}

// Bot - Telegram-бот для уведомлений. Команда /start <token> привязывает чат к аккаунту.
type Bot struct {
	bot      *bot.Bot
	verifier TokenVerifier
	linker   ChatLinker
	logger   *zap.Logger
}

func NewBot(token string, verifier TokenVerifier, linker ChatLinker, logger *zap.Logger) (*Bot, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	tb := &Bot{bot: b, verifier: verifier, linker: linker, logger: logger}
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, tb.handleStart)
	return tb, nil
}

// Sender отдаёт клиента для Notifier
func (b *Bot) Sender() MessageSender {
	return b.bot
}

// Start блокируется до отмены ctx
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("Telegram bot started")
	b.bot.Start(ctx)
	b.logger.Info("Telegram bot stopped")
}

func (b *Bot) handleStart(ctx context.Context, tg *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      b.startReply(ctx, chatID, update.Message.Text),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		b.logger.Warn("Failed to answer /start", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// startReply обрабатывает текст команды и возвращает ответ пользователю
func (b *Bot) startReply(ctx context.Context, chatID int64, text string) string {
	token := startToken(text)
	if token == "" {
		return startText(chatID)
	}

	identity, err := b.verifier.Parse(token)
	if err != nil {
		b.logger.Info("Telegram link refused", zap.Int64("chat_id", chatID), zap.Error(err))
		return "⚠️ El enlace no es válido o ha expirado. Genera uno nuevo desde la aplicación."
	}

	ok, err := b.linker.SetTelegramChatID(ctx, identity.UserID, chatID)
	if err != nil {
		b.logger.Error("Failed to link telegram chat",
			zap.Int64("user_id", identity.UserID),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return "❌ No se pudo vincular el chat. Inténtalo más tarde."
	}
	if !ok {
		return "⚠️ El usuario del enlace no existe."
	}

	b.logger.Info("Telegram chat linked",
		zap.Int64("user_id", identity.UserID),
		zap.Int64("chat_id", chatID))
	return "✅ Chat vinculado. Aquí recibirás los avisos de tus tutorías."
}

// startToken достаёт аргумент из "/start <token>" (или "/start@bot <token>")
func startToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func startText(chatID int64) string {
	return fmt.Sprintf("👋 Aquí recibirás los avisos de tus tutorías.\n\nID de este chat: <code>%d</code>\n\nPara vincularlo usa el enlace de la aplicación.", chatID)
}
