package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HealthChecker readiness 檢查 (usecase.Store 即可滿足)
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterConfig 路由設定
type RouterConfig struct {
	BasePath       string
	AllowedOrigins []string
	Health         HealthChecker
}

// NewRouter 建立 gin.Engine 並註冊所有路由
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", authHeader},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/healthz", healthz(cfg.Health, h.logger))

	api := r.Group(cfg.BasePath)

	api.POST("/customers", h.register)
	api.POST("/auth", h.login)

	private := api.Group("", h.authRequired())
	private.GET("/customers", h.profile)
	private.DELETE("/customers", h.deleteCustomer)

	account := private.Group("/account")
	account.POST("", h.createAccount)
	account.GET("/me", h.myAccounts)
	account.GET("/transactions/:accountNumber", h.history)
	account.GET("/:accountNumber", h.getAccount)
	account.PUT("/deposit/:accountNumber", h.deposit)
	account.PUT("/withdraw/:accountNumber", h.withdraw)
	account.PUT("/transfer/:accountNumber", h.transfer)

	return r
}

func healthz(health HealthChecker, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if health != nil {
			if err := health.Ping(ctx); err != nil {
				logger.ErrorContext(ctx, "health probe failed", slog.Any("error", err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
