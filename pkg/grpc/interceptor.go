package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// UnaryClientLogger 記錄每一次 client 呼叫的方法、耗時與狀態碼
func UnaryClientLogger(logger *slog.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		logger.DebugContext(ctx, "grpc call",
			slog.String("target", cc.Target()),
			slog.String("method", method),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)))
		return err
	}
}

// UnaryServerLogger 記錄每一次 server 處理的方法、耗時與狀態碼
func UnaryServerLogger(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.DebugContext(ctx, "grpc request",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("duration", time.Since(start)))
		return resp, err
	}
}
