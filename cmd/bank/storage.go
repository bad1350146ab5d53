package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/mysql"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/internal/config"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

// openStore 依 storage.driver 建立儲存層，回傳的 close 負責釋放資源
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (usecase.Store, func() error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		var w *wal.WAL
		if cfg.Storage.WALPath != "" {
			var err error
			w, err = wal.Open(cfg.Storage.WALPath)
			if err != nil {
				return nil, nil, err
			}
		}
		store, err := memory.NewMutexStore(w)
		if err != nil {
			if w != nil {
				_ = w.Close()
			}
			return nil, nil, fmt.Errorf("recover memory store: %w", err)
		}
		logger.Info("using memory store", slog.String("wal", cfg.Storage.WALPath))
		return store, store.Close, nil

	case config.DriverMySQL:
		store, client, err := openMySQL(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Storage.AutoMigrate {
			if err := store.AutoMigrate(ctx); err != nil {
				_ = client.Close()
				return nil, nil, fmt.Errorf("auto migrate: %w", err)
			}
		}
		return store, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

func openMySQL(ctx context.Context, cfg config.Config, logger *slog.Logger) (*mysql_adapter.MySQLStore, *mysql.Client, error) {
	client, err := mysql.NewClient(ctx, cfg.MySQL, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("connected to mysql", slog.String("host", cfg.MySQL.Host), slog.String("db", cfg.MySQL.DBName))
	return mysql_adapter.NewMySQLStore(client), client, nil
}
