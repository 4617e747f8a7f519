package realtime

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// CloseUnauthorized - код закрытия для неверного или просроченного токена
const CloseUnauthorized = 4401

const defaultWriteTimeout = 10 * time.Second

// WSConn адаптирует *websocket.Conn к Conn
type WSConn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration
}

func NewWSConn(ws *websocket.Conn, writeTimeout time.Duration) *WSConn {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &WSConn{ws: ws, writeTimeout: writeTimeout}
}

func (c *WSConn) WriteJSON(v any) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

func (c *WSConn) Ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *WSConn) Close() error {
	return c.ws.Close()
}

// Serve регистрирует соединение и читает входящие сообщения (keep-alive), отбрасывая их.
// Возвращается, когда клиент отключился; соединение к этому моменту уже убрано из реестра.
func (h *Hub) Serve(userID int64, ws *websocket.Conn, writeTimeout time.Duration) {
	client := h.Register(userID, NewWSConn(ws, writeTimeout))
	defer h.Unregister(client)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("Live channel read failed",
					zap.Int64("user_id", userID),
					zap.Error(err))
			}
			return
		}
	}
}

// Reject закрывает ещё не зарегистрированное соединение с кодом code
func Reject(ws *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = ws.Close()
}
