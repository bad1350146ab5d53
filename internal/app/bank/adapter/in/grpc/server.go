package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpcpkg "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
)

// ServiceName health check 使用的服務名稱
const ServiceName = "bank.Ledger"

// Pinger 儲存層可用性檢查 (usecase.Store 即可滿足)
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewServer 建立 gRPC server，註冊 health 與 reflection
// 回傳的 health.Server 交給 HealthReporter 更新狀態
func NewServer(logger *slog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(grpcpkg.UnaryServerLogger(logger)))
	s := grpc.NewServer(opts...)

	hs := health.NewServer()
	// 儲存層確認前先回報 NOT_SERVING
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s) // 方便 grpcurl 測試

	return s, hs
}

// HealthReporter 定期 Ping 儲存層並更新 health 狀態
type HealthReporter struct {
	store    Pinger
	health   *health.Server
	interval time.Duration
	logger   *slog.Logger
	last     healthpb.HealthCheckResponse_ServingStatus
}

func NewHealthReporter(store Pinger, hs *health.Server, interval time.Duration, logger *slog.Logger) *HealthReporter {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &HealthReporter{
		store:    store,
		health:   hs,
		interval: interval,
		logger:   logger,
		last:     healthpb.HealthCheckResponse_UNKNOWN,
	}
}

// Run 直到 ctx 結束，結束時把所有服務設為 NOT_SERVING
func (r *HealthReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.report(ctx)
	for {
		select {
		case <-ctx.Done():
			r.health.Shutdown()
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// report 執行一次檢查，狀態改變時寫 log
func (r *HealthReporter) report(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	next := healthpb.HealthCheckResponse_SERVING
	err := r.store.Ping(pingCtx)
	if err != nil {
		next = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.health.SetServingStatus("", next)
	r.health.SetServingStatus(ServiceName, next)

	if next != r.last {
		if err != nil {
			r.logger.WarnContext(ctx, "storage health changed", slog.String("status", next.String()), slog.Any("error", err))
		} else {
			r.logger.InfoContext(ctx, "storage health changed", slog.String("status", next.String()))
		}
		r.last = next
	}
}
