package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	authHeader     = "x-auth-token"
	ctxCustomerKey = "customerID"
)

// requestLogger 每個請求結束後寫一筆 log
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	}
}

// authRequired 驗證 x-auth-token，成功後把客戶 ID 放進 gin.Context
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(authHeader)
		if token == "" {
			respondMsg(c, http.StatusUnauthorized, msgNoToken)
			return
		}
		customerID, err := h.auth.Verify(token)
		if err != nil {
			respondMsg(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}
		c.Set(ctxCustomerKey, customerID)
		c.Next()
	}
}

func customerID(c *gin.Context) string {
	return c.GetString(ctxCustomerKey)
}
