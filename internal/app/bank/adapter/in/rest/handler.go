package rest

import (
	"log/slog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

// Handler 是 REST API 的 Driving Adapter
type Handler struct {
	ledger    *usecase.LedgerUseCase
	directory *usecase.DirectoryUseCase
	customers *usecase.CustomerUseCase
	auth      usecase.Authenticator
	rates     *domain.RateTable
	logger    *slog.Logger
}

func NewHandler(
	ledger *usecase.LedgerUseCase,
	directory *usecase.DirectoryUseCase,
	customers *usecase.CustomerUseCase,
	auth usecase.Authenticator,
	rates *domain.RateTable,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	setupValidator()
	return &Handler{
		ledger:    ledger,
		directory: directory,
		customers: customers,
		auth:      auth,
		rates:     rates,
		logger:    logger,
	}
}
