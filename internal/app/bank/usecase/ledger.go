package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/shopspring/decimal"
)

// TransferResult 轉帳後的兩個帳戶
type TransferResult struct {
	Debit  *domain.Account
	Credit *domain.Account
}

// LedgerUseCase 是帳務核心業務邏輯層 (存款 / 提款 / 轉帳)
type LedgerUseCase struct {
	store  Store
	rates  *domain.RateTable
	logger *slog.Logger
	now    func() time.Time
}

func NewLedgerUseCase(store Store, rates *domain.RateTable, logger *slog.Logger) *LedgerUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerUseCase{
		store:  store,
		rates:  rates,
		logger: logger,
		now:    time.Now,
	}
}

// normalize 換算幣別並檢查金額
func (l *LedgerUseCase) normalize(amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrAmountMustBePositive
	}
	// 必須在 rescale 之前檢查，否則超大指數會在 Round 時展開
	if !domain.WithinPrecision(amount) {
		return decimal.Zero, domain.ErrAmountOutOfRange
	}
	converted, err := l.rates.Normalize(amount, currency)
	if err != nil {
		return decimal.Zero, err
	}
	if !domain.WithinPrecision(converted) {
		return decimal.Zero, domain.ErrAmountOutOfRange
	}
	// 極小金額換算後可能被四捨五入為 0
	if !converted.IsPositive() {
		return decimal.Zero, domain.ErrAmountMustBePositive
	}
	return converted, nil
}

// Deposit 存款
//
// 參數:
//
//	ctx: Context
//	number: 入帳帳號
//	amount: 金額 (以 currency 計價)
//	currency: 幣別代碼
//
// 回傳:
//
//	*domain.Account: 更新後的帳戶
//	error: 錯誤訊息
func (l *LedgerUseCase) Deposit(ctx context.Context, number string, amount decimal.Decimal, currency string) (*domain.Account, error) {
	converted, err := l.normalize(amount, currency)
	if err != nil {
		return nil, err
	}

	var result *domain.Account
	err = l.store.WithinTx(ctx, func(tx Tx) error {
		accounts, err := tx.LockAccounts(ctx, number)
		if err != nil {
			return err
		}
		acc, ok := accounts[number]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if err := acc.Deposit(converted); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		if err := tx.AppendTransaction(ctx, domain.NewDepositTransaction(number, converted, l.now())); err != nil {
			return err
		}
		result = acc.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "deposit committed",
		slog.String("account", number),
		slog.String("amount", converted.String()),
		slog.String("currency", currency))
	return result, nil
}

// Withdraw 提款，餘額不足時不會有任何寫入
func (l *LedgerUseCase) Withdraw(ctx context.Context, number string, amount decimal.Decimal, currency string) (*domain.Account, error) {
	converted, err := l.normalize(amount, currency)
	if err != nil {
		return nil, err
	}

	var result *domain.Account
	err = l.store.WithinTx(ctx, func(tx Tx) error {
		accounts, err := tx.LockAccounts(ctx, number)
		if err != nil {
			return err
		}
		acc, ok := accounts[number]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if err := acc.Withdraw(converted); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		if err := tx.AppendTransaction(ctx, domain.NewWithdrawTransaction(number, converted, l.now())); err != nil {
			return err
		}
		result = acc.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "withdraw committed",
		slog.String("account", number),
		slog.String("amount", converted.String()),
		slog.String("currency", currency))
	return result, nil
}

// Transfer 轉帳
// 兩個帳戶依帳號遞增順序鎖定，扣款、入帳、交易紀錄在同一個工作單元提交
func (l *LedgerUseCase) Transfer(ctx context.Context, from, to string, amount decimal.Decimal, currency string) (*TransferResult, error) {
	if from == to {
		return nil, domain.ErrSameAccount
	}
	converted, err := l.normalize(amount, currency)
	if err != nil {
		return nil, err
	}

	var result TransferResult
	err = l.store.WithinTx(ctx, func(tx Tx) error {
		accounts, err := tx.LockAccounts(ctx, domain.LockNumbers(from, to)...)
		if err != nil {
			return err
		}
		source, ok := accounts[from]
		if !ok {
			return domain.ErrSourceAccountNotFound
		}
		dest, ok := accounts[to]
		if !ok {
			return domain.ErrDestinationAccountNotFound
		}
		if err := source.Withdraw(converted); err != nil {
			return err
		}
		if err := dest.Deposit(converted); err != nil {
			return err
		}
		for _, acc := range []*domain.Account{source, dest} {
			if err := tx.SaveAccount(ctx, acc); err != nil {
				return err
			}
		}
		if err := tx.AppendTransaction(ctx, domain.NewTransferTransaction(from, to, converted, l.now())); err != nil {
			return err
		}
		result = TransferResult{Debit: source.Clone(), Credit: dest.Clone()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "transfer committed",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("amount", converted.String()),
		slog.String("currency", currency))
	return &result, nil
}
