// Package realtime хранит живые соединения пользователей и рассылает им push-сообщения.
package realtime

import (
	"context"
	"sync"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn - открытый канал до клиента
type Conn interface {
	WriteJSON(v any) error
	Ping() error
	Close() error
}

// Client - одно соединение пользователя. Запись в conn сериализуется собственным мьютексом.
type Client struct {
	ID     uuid.UUID
	UserID int64

	conn      Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (c *Client) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *Client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.Ping()
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

// Hub - реестр соединений: user ID -> набор клиентов.
// Мьютекс защищает только карту; отправка идёт по снимку вне блокировки.
type Hub struct {
	mu      sync.Mutex
	clients map[int64]map[uuid.UUID]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[uuid.UUID]*Client),
		logger:  logger,
	}
}

// Register добавляет соединение пользователя
func (h *Hub) Register(userID int64, conn Conn) *Client {
	c := &Client{ID: uuid.New(), UserID: userID, conn: conn}

	h.mu.Lock()
	set, ok := h.clients[userID]
	if !ok {
		set = make(map[uuid.UUID]*Client)
		h.clients[userID] = set
	}
	set[c.ID] = c
	total := len(set)
	h.mu.Unlock()

	h.logger.Debug("Live channel registered",
		zap.Int64("user_id", userID),
		zap.String("client_id", c.ID.String()),
		zap.Int("connections", total))

	return c
}

// Unregister убирает соединение и закрывает его. Повторный вызов безопасен.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c.ID)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()

	c.close()

	h.logger.Debug("Live channel unregistered",
		zap.Int64("user_id", c.UserID),
		zap.String("client_id", c.ID.String()))
}

// SendToUser отправляет сообщение во все соединения пользователя и возвращает число успешных отправок.
// Соединение, на котором отправка упала, считается отключившимся.
func (h *Hub) SendToUser(userID int64, msg any) int {
	delivered := 0
	for _, c := range h.snapshot(userID) {
		if err := c.send(msg); err != nil {
			h.logger.Debug("Live channel send failed, dropping",
				zap.Int64("user_id", userID),
				zap.String("client_id", c.ID.String()),
				zap.Error(err))
			h.Unregister(c)
			continue
		}
		delivered++
	}
	return delivered
}

// SendToUsers - SendToUser для нескольких пользователей
func (h *Hub) SendToUsers(userIDs []int64, msg any) int {
	delivered := 0
	for _, id := range userIDs {
		delivered += h.SendToUser(id, msg)
	}
	return delivered
}

// Push реализует service.Pusher
func (h *Hub) Push(_ context.Context, userID int64, n *model.Notification) error {
	h.SendToUser(userID, NewNotificationMessage(n))
	return nil
}

// PingAll пингует все соединения и убирает мёртвые. Возвращает число убранных.
func (h *Hub) PingAll() int {
	h.mu.Lock()
	all := make([]*Client, 0, len(h.clients))
	for _, set := range h.clients {
		for _, c := range set {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range all {
		if err := c.ping(); err != nil {
			h.Unregister(c)
			dropped++
		}
	}
	return dropped
}

// Connections - число открытых соединений пользователя
func (h *Hub) Connections(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// Users - число пользователей хотя бы с одним соединением
func (h *Hub) Users() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll закрывает все соединения (при остановке сервера)
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := h.clients
	h.clients = make(map[int64]map[uuid.UUID]*Client)
	h.mu.Unlock()

	for _, set := range all {
		for _, c := range set {
			c.close()
		}
	}
}

func (h *Hub) snapshot(userID int64) []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[userID]
	out := make([]*Client, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}
