package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_scheduler/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ctxKeyIdentity  = "identity"
	ctxKeyRequestID = "request_id"

	requestIDMaxLen = 64
)

// requestID берёт X-Request-ID клиента или генерирует новый
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

// accessLog пишет строку лога на запрос; уровень зависит от статуса
func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxKeyRequestID)),
		}
		if id, ok := identityFrom(c); ok {
			fields = append(fields, zap.Int64("user_id", id.UserID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Client error", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// recovery отвечает 500 в формате API вместо обрыва соединения
func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path))
		abort(c, http.StatusInternalServerError, "Error interno del servidor")
	})
}

// requireAuth проверяет Bearer-токен и кладёт Identity в контекст
func requireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		id, err := v.Parse(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		c.Set(ctxKeyIdentity, id)
		c.Next()
	}
}

// identityFrom возвращает пользователя, установленного requireAuth
func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(ctxKeyIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}
