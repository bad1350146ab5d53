package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/google/uuid"
)

// MaxIdentifierAttempts 產生短代碼時的最大嘗試次數
const MaxIdentifierAttempts = 5

// NumberGenerator 產生對外顯示用的短代碼
type NumberGenerator func() string

// RandomDigits 回傳產生 n 位數 (補零) 隨機代碼的產生器
func RandomDigits(n int) NumberGenerator {
	limit := 1
	for i := 0; i < n; i++ {
		limit *= 10
	}
	format := fmt.Sprintf("%%0%dd", n)
	return func() string {
		return fmt.Sprintf(format, rand.Intn(limit))
	}
}

// DirectoryUseCase 帳戶目錄：開戶與查詢
type DirectoryUseCase struct {
	store    Store
	generate NumberGenerator
	logger   *slog.Logger
	now      func() time.Time
}

// DirectoryOption 設定 DirectoryUseCase
type DirectoryOption func(*DirectoryUseCase)

// WithNumberGenerator 替換帳號產生器
func WithNumberGenerator(gen NumberGenerator) DirectoryOption {
	return func(d *DirectoryUseCase) {
		d.generate = gen
	}
}

func NewDirectoryUseCase(store Store, logger *slog.Logger, opts ...DirectoryOption) *DirectoryUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	d := &DirectoryUseCase{
		store:    store,
		generate: RandomDigits(4),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateAccount 為客戶開立新帳戶，餘額為 0
// 帳號唯一性由儲存層的唯一索引保證，重複時重新產生，最多 MaxIdentifierAttempts 次
// 客戶已刪除 (token 仍在有效期內) 時回傳 domain.ErrCustomerNotFound
func (d *DirectoryUseCase) CreateAccount(ctx context.Context, ownerID string) (*domain.Account, error) {
	if _, err := d.store.Customers().FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	for attempt := 1; attempt <= MaxIdentifierAttempts; attempt++ {
		acc := domain.NewAccount(uuid.NewString(), ownerID, d.generate(), d.now())
		err := d.store.Accounts().Create(ctx, acc)
		if err == nil {
			d.logger.InfoContext(ctx, "account created",
				slog.String("customer_id", ownerID),
				slog.String("account", acc.Number))
			return acc, nil
		}
		if !errors.Is(err, domain.ErrDuplicateAccountNumber) {
			return nil, err
		}
		d.logger.WarnContext(ctx, "account number collision",
			slog.String("account", acc.Number),
			slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("account number: %w", domain.ErrIdentifierExhausted)
}

// FindByOwner 取得客戶所有帳戶，沒有帳戶時回傳空 slice
func (d *DirectoryUseCase) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	accounts, err := d.store.Accounts().FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}
	return accounts, nil
}

// FindByAccountNumber 依帳號查詢
func (d *DirectoryUseCase) FindByAccountNumber(ctx context.Context, number string) (*domain.Account, error) {
	return d.store.Accounts().FindByNumber(ctx, number)
}

// DeleteByOwner 刪除客戶所有帳戶，回傳刪除筆數
func (d *DirectoryUseCase) DeleteByOwner(ctx context.Context, ownerID string) (int, error) {
	var deleted int
	err := d.store.WithinTx(ctx, func(tx Tx) error {
		n, err := tx.DeleteAccountsByOwner(ctx, ownerID)
		deleted = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// History 取得帳戶的交易紀錄 (轉出或轉入)，由新到舊
func (d *DirectoryUseCase) History(ctx context.Context, number string) ([]*domain.Transaction, error) {
	if _, err := d.store.Accounts().FindByNumber(ctx, number); err != nil {
		return nil, err
	}
	trans, err := d.store.Transactions().ListByAccount(ctx, number)
	if err != nil {
		return nil, err
	}
	if trans == nil {
		trans = []*domain.Transaction{}
	}
	return trans, nil
}
