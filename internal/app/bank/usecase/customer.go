package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/google/uuid"
)

// CustomerUseCase 客戶註冊、登入與刪除
type CustomerUseCase struct {
	store    Store
	hasher   PasswordHasher
	tokens   TokenIssuer
	generate NumberGenerator
	logger   *slog.Logger
	now      func() time.Time
}

// CustomerOption 設定 CustomerUseCase
type CustomerOption func(*CustomerUseCase)

// WithCodeGenerator 替換客戶代碼產生器
func WithCodeGenerator(gen NumberGenerator) CustomerOption {
	return func(c *CustomerUseCase) {
		c.generate = gen
	}
}

func NewCustomerUseCase(store Store, hasher PasswordHasher, tokens TokenIssuer, logger *slog.Logger, opts ...CustomerOption) *CustomerUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CustomerUseCase{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		generate: RandomDigits(3),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register 註冊新客戶並回傳登入 token
//
// 參數:
//
//	ctx: Context
//	name: 姓名
//	email: 電子郵件 (唯一)
//	password: 明文密碼，只保存 bcrypt 雜湊
//
// 回傳:
//
//	string: token
//	error: domain.ErrCustomerAlreadyExists 或其他錯誤
func (c *CustomerUseCase) Register(ctx context.Context, name, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	_, err := c.store.Customers().FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", domain.ErrCustomerAlreadyExists
	case !errors.Is(err, domain.ErrCustomerNotFound):
		return "", err
	}

	hash, err := c.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	customer := &domain.Customer{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    c.now(),
	}

	created := false
	for attempt := 1; attempt <= MaxIdentifierAttempts; attempt++ {
		customer.Code = c.generate()
		err := c.store.Customers().Create(ctx, customer)
		if err == nil {
			created = true
			break
		}
		if !errors.Is(err, domain.ErrDuplicateCustomerCode) {
			return "", err
		}
		c.logger.WarnContext(ctx, "customer code collision",
			slog.String("code", customer.Code),
			slog.Int("attempt", attempt))
	}
	if !created {
		return "", fmt.Errorf("customer code: %w", domain.ErrIdentifierExhausted)
	}

	c.logger.InfoContext(ctx, "customer registered", slog.String("customer_id", customer.ID))
	return c.tokens.Issue(customer.ID)
}

// Login 驗證帳密並回傳 token
// email 不存在與密碼錯誤一律回傳 domain.ErrInvalidCredentials
func (c *CustomerUseCase) Login(ctx context.Context, email, password string) (string, error) {
	customer, err := c.store.Customers().FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if err := c.hasher.Compare(customer.PasswordHash, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return c.tokens.Issue(customer.ID)
}

// Profile 取得客戶資料
func (c *CustomerUseCase) Profile(ctx context.Context, id string) (*domain.Customer, error) {
	return c.store.Customers().FindByID(ctx, id)
}

// Delete 刪除客戶及其所有帳戶 (同一個工作單元)
// 交易紀錄保留，帳號之後可能被重新分配
func (c *CustomerUseCase) Delete(ctx context.Context, id string) error {
	var removed int
	err := c.store.WithinTx(ctx, func(tx Tx) error {
		n, err := tx.DeleteAccountsByOwner(ctx, id)
		if err != nil {
			return err
		}
		found, err := tx.DeleteCustomer(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCustomerNotFound
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "customer deleted",
		slog.String("customer_id", id),
		slog.Int("accounts", removed))
	return nil
}
