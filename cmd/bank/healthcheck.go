package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcpkg "github.com/JoeShih716/go-bank-ledger/pkg/grpc"
)

func newHealthcheckCommand() *cobra.Command {
	var target, service string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe the gRPC health endpoint, exit 1 unless SERVING",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			pool := grpcpkg.NewPool(grpcpkg.WithInterceptor(grpcpkg.UnaryClientLogger(logger)))
			defer pool.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			status, err := probe(ctx, pool, target, service)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), status)
			if status != healthpb.HealthCheckResponse_SERVING {
				return fmt.Errorf("%s is %s", target, status)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "localhost:50051", "gRPC address")
	cmd.Flags().StringVar(&service, "service", "", "service name (empty: overall server)")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Second, "probe timeout")
	return cmd
}

func probe(ctx context.Context, pool *grpcpkg.Pool, target, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := pool.GetConnection(target)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check %s: %w", target, err)
	}
	return resp.GetStatus(), nil
}
