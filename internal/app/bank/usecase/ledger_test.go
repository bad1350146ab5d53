package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newRates(t *testing.T) *domain.RateTable {
	t.Helper()
	rates, err := domain.NewRateTable("CAD", map[string]decimal.Decimal{
		"USD": dec("0.5"),
		"MXN": dec("10"),
	})
	require.NoError(t, err)
	return rates
}

type ledgerFixture struct {
	store     *memory.MutexStore
	ledger    *usecase.LedgerUseCase
	directory *usecase.DirectoryUseCase
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store, err := memory.NewMutexStore(nil)
	require.NoError(t, err)
	seedCustomers(t, store, "c1", "c2")
	return &ledgerFixture{
		store:     store,
		ledger:    usecase.NewLedgerUseCase(store, newRates(t), nil),
		directory: usecase.NewDirectoryUseCase(store, nil),
	}
}

func (f *ledgerFixture) openAccount(t *testing.T, owner string, balance string) *domain.Account {
	t.Helper()
	acc, err := f.directory.CreateAccount(context.Background(), owner)
	require.NoError(t, err)
	if b := dec(balance); b.IsPositive() {
		acc, err = f.ledger.Deposit(context.Background(), acc.Number, b, "CAD")
		require.NoError(t, err)
	}
	return acc
}

func (f *ledgerFixture) balance(t *testing.T, number string) decimal.Decimal {
	t.Helper()
	acc, err := f.directory.FindByAccountNumber(context.Background(), number)
	require.NoError(t, err)
	return acc.Balance
}

func TestDepositInEachCurrency(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	acc := f.openAccount(t, "c1", "0")

	steps := []struct {
		amount, currency, want string
	}{
		{"100", "USD", "200"},
		{"100", "CAD", "300"},
		{"100", "MXN", "310"},
	}
	for _, s := range steps {
		got, err := f.ledger.Deposit(ctx, acc.Number, dec(s.amount), s.currency)
		require.NoError(t, err)
		assert.True(t, dec(s.want).Equal(got.Balance), "after %s %s: %s", s.amount, s.currency, got.Balance)
	}
}

func TestWithdrawInEachCurrency(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	acc := f.openAccount(t, "c1", "310")

	steps := []struct {
		amount, currency, want string
	}{
		{"100", "MXN", "300"},
		{"100", "CAD", "200"},
		{"50", "USD", "100"},
	}
	for _, s := range steps {
		got, err := f.ledger.Withdraw(ctx, acc.Number, dec(s.amount), s.currency)
		require.NoError(t, err)
		assert.True(t, dec(s.want).Equal(got.Balance), "after %s %s: %s", s.amount, s.currency, got.Balance)
	}
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	acc := f.openAccount(t, "c1", "0")

	_, err := f.ledger.Deposit(ctx, acc.Number, dec("42.5"), "USD")
	require.NoError(t, err)
	got, err := f.ledger.Withdraw(ctx, acc.Number, dec("42.5"), "USD")
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())

	history, err := f.directory.History(ctx, acc.Number)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.TransactionTypeWithdraw, history[0].Type)
	assert.Equal(t, domain.TransactionTypeDeposit, history[1].Type)
	assert.Equal(t, acc.Number, history[0].ToAccount)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	acc := f.openAccount(t, "c1", "10")

	_, err := f.ledger.Withdraw(ctx, acc.Number, dec("10.0001"), "CAD")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, dec("10").Equal(f.balance(t, acc.Number)))

	history, err := f.directory.History(ctx, acc.Number)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLedgerRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	a := f.openAccount(t, "c1", "10")
	b := f.openAccount(t, "c1", "0")

	_, err := f.ledger.Deposit(ctx, a.Number, decimal.Zero, "CAD")
	assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)

	_, err = f.ledger.Deposit(ctx, a.Number, dec("-5"), "CAD")
	assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)

	// 換算後四捨五入為 0
	_, err = f.ledger.Deposit(ctx, a.Number, dec("0.0001"), "MXN")
	assert.ErrorIs(t, err, domain.ErrAmountMustBePositive)

	_, err = f.ledger.Deposit(ctx, a.Number, dec("1"), "EUR")
	assert.ErrorIs(t, err, domain.ErrUnsupportedCurrency)

	_, err = f.ledger.Transfer(ctx, a.Number, a.Number, dec("1"), "CAD")
	assert.ErrorIs(t, err, domain.ErrSameAccount)

	assert.True(t, dec("10").Equal(f.balance(t, a.Number)))
	assert.True(t, f.balance(t, b.Number).IsZero())
}

func TestLedgerAccountNotFound(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	a := f.openAccount(t, "c1", "10")

	_, err := f.ledger.Deposit(ctx, "9999", dec("1"), "CAD")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = f.ledger.Withdraw(ctx, "9999", dec("1"), "CAD")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = f.ledger.Transfer(ctx, "9999", a.Number, dec("1"), "CAD")
	assert.ErrorIs(t, err, domain.ErrSourceAccountNotFound)

	_, err = f.ledger.Transfer(ctx, a.Number, "9999", dec("1"), "CAD")
	assert.ErrorIs(t, err, domain.ErrDestinationAccountNotFound)

	assert.True(t, dec("10").Equal(f.balance(t, a.Number)))
	history, err := f.directory.History(ctx, a.Number)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTransferMXN(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	src := f.openAccount(t, "c1", "100")
	dst := f.openAccount(t, "c2", "0")

	res, err := f.ledger.Transfer(ctx, src.Number, dst.Number, dec("10"), "MXN")
	require.NoError(t, err)
	assert.True(t, dec("99").Equal(res.Debit.Balance), "debit %s", res.Debit.Balance)
	assert.True(t, dec("1").Equal(res.Credit.Balance), "credit %s", res.Credit.Balance)

	history, err := f.directory.History(ctx, dst.Number)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, src.Number, history[0].FromAccount)
	assert.Equal(t, dst.Number, history[0].ToAccount)
	assert.True(t, dec("1").Equal(history[0].Amount))
}

func TestTransferConservesTotal(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	a := f.openAccount(t, "c1", "50")
	b := f.openAccount(t, "c2", "25.5")
	total := dec("75.5")

	moves := []struct {
		from, to *domain.Account
		amount   string
		currency string
	}{
		{a, b, "10", "CAD"},
		{b, a, "3.3333", "USD"},
		{a, b, "7", "MXN"},
		{b, a, "1000", "CAD"},
	}
	for _, m := range moves {
		_, _ = f.ledger.Transfer(ctx, m.from.Number, m.to.Number, dec(m.amount), m.currency)
		sum := f.balance(t, a.Number).Add(f.balance(t, b.Number))
		assert.True(t, total.Equal(sum), "total drifted to %s", sum)
	}
}

func TestTransferInsufficientIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	a := f.openAccount(t, "c1", "5")
	b := f.openAccount(t, "c2", "1")

	_, err := f.ledger.Transfer(ctx, a.Number, b.Number, dec("6"), "CAD")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, dec("5").Equal(f.balance(t, a.Number)))
	assert.True(t, dec("1").Equal(f.balance(t, b.Number)))
}

// failingStore 在寫入交易紀錄時失敗，用來確認餘額會一併回滾
type failingStore struct {
	usecase.Store
	err error
}

func (s failingStore) WithinTx(ctx context.Context, fn func(tx usecase.Tx) error) error {
	return s.Store.WithinTx(ctx, func(tx usecase.Tx) error {
		return fn(failingTx{Tx: tx, err: s.err})
	})
}

type failingTx struct {
	usecase.Tx
	err error
}

func (t failingTx) AppendTransaction(context.Context, *domain.Transaction) error {
	return t.err
}

func TestLedgerRollsBackWhenAppendFails(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	a := f.openAccount(t, "c1", "100")
	b := f.openAccount(t, "c2", "0")

	boom := errors.New("disk full")
	broken := usecase.NewLedgerUseCase(failingStore{Store: f.store, err: boom}, newRates(t), nil)

	_, err := broken.Deposit(ctx, a.Number, dec("1"), "CAD")
	assert.ErrorIs(t, err, boom)
	_, err = broken.Withdraw(ctx, a.Number, dec("1"), "CAD")
	assert.ErrorIs(t, err, boom)
	_, err = broken.Transfer(ctx, a.Number, b.Number, dec("1"), "CAD")
	assert.ErrorIs(t, err, boom)

	assert.True(t, dec("100").Equal(f.balance(t, a.Number)))
	assert.True(t, f.balance(t, b.Number).IsZero())
}

func TestLedgerRejectsAmountsBeyondStoragePrecision(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	a := f.openAccount(t, "c1", "10")
	b := f.openAccount(t, "c2", "0")

	huge := dec("1e50000000")
	_, err := f.ledger.Deposit(ctx, a.Number, huge, "CAD")
	assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
	_, err = f.ledger.Withdraw(ctx, a.Number, huge, "MXN")
	assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)
	_, err = f.ledger.Transfer(ctx, a.Number, b.Number, huge, "USD")
	assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)

	// 16 位整數的 USD 換算為 CAD 後變成 17 位
	_, err = f.ledger.Deposit(ctx, a.Number, dec("9000000000000000"), "USD")
	assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)

	// 入帳後的餘額超出精度，整筆不寫入
	_, err = f.ledger.Deposit(ctx, b.Number, dec("9999999999999999"), "CAD")
	require.NoError(t, err)
	_, err = f.ledger.Transfer(ctx, a.Number, b.Number, dec("1"), "CAD")
	assert.ErrorIs(t, err, domain.ErrAmountOutOfRange)

	assert.True(t, dec("10").Equal(f.balance(t, a.Number)))
	assert.True(t, dec("9999999999999999").Equal(f.balance(t, b.Number)))
	history, err := f.directory.History(ctx, a.Number)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
