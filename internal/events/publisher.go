// Package events публикует уведомления о сессиях в NATS для внешних потребителей.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// SubjectPrefix - уведомление пользователя N уходит в "notifications.N"
const SubjectPrefix = "notifications"

// Conn - часть *nats.Conn, нужная для публикации
type Conn interface {
	Publish(subj string, data []byte) error
}

// envelope - формат сообщения: id запроса и полезная нагрузка
type envelope struct {
	ID   string              `json:"id"`
	Data *model.Notification `json:"data"`
}

// Publisher реализует service.Pusher поверх NATS
type Publisher struct {
	conn   Conn
	logger *zap.Logger
}

func NewPublisher(conn Conn, logger *zap.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

func Subject(userID int64) string {
	return fmt.Sprintf("%s.%d", SubjectPrefix, userID)
}

func (p *Publisher) Push(_ context.Context, userID int64, n *model.Notification) error {
	payload, err := json.Marshal(envelope{ID: uuid.NewString(), Data: n})
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	if err := p.conn.Publish(Subject(userID), payload); err != nil {
		return fmt.Errorf("publish notification event: %w", err)
	}

	p.logger.Debug("Notification event published",
		zap.String("subject", Subject(userID)),
		zap.Int64("notification_id", n.ID))
	return nil
}

// Connect подключается к NATS с бесконечным переподключением
func Connect(url string, logger *zap.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("tutor_scheduler"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}
