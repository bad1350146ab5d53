package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	grpc_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/in/grpc"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/in/rest"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/auth"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and the gRPC health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// 1. 儲存層
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("close store", slog.Any("error", err))
		}
	}()

	// 2. UseCase
	rates, err := cfg.Currency.RateTable()
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	ledger := usecase.NewLedgerUseCase(store, rates, logger)
	directory := usecase.NewDirectoryUseCase(store, logger)
	customers := usecase.NewCustomerUseCase(store, auth.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, logger)

	// 3. REST Adapter
	handler := rest.NewHandler(ledger, directory, customers, tokens, rates, logger)
	router := rest.NewRouter(handler, rest.RouterConfig{
		BasePath:       cfg.HTTP.BasePath,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Health:         store,
	})
	httpServer := rest.NewServer(router, rest.ServerConfig{
		Addr:         cfg.HTTP.Addr,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, logger)

	// 4. gRPC health
	grpcServer, hs := grpc_adapter.NewServer(logger)
	reporter := grpc_adapter.NewHealthReporter(store, hs, cfg.GRPC.HealthInterval, logger)

	httpLis, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	grpcLis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("listen grpc: %w", err)
	}

	reporterCtx, stopReporter := context.WithCancel(ctx)
	defer stopReporter()
	go reporter.Run(reporterCtx)

	errCh := make(chan error, 2)
	go func() { errCh <- httpServer.Serve(httpLis) }()
	go func() {
		logger.Info("starting grpc server", slog.String("addr", grpcLis.Addr().String()))
		errCh <- grpcServer.Serve(grpcLis)
	}()

	// Graceful Shutdown
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server stopped unexpectedly", slog.Any("error", serveErr))
	}

	stopReporter()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, err)
	}
	grpcServer.GracefulStop()
	logger.Info("server exited")
	return serveErr
}
