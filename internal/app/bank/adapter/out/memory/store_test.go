package memory

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

func seed(t *testing.T, s *MutexStore) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Customers().Create(ctx, &domain.Customer{ID: "c1", Email: "a@b.c", Code: "001", CreatedAt: now}))
	require.NoError(t, s.Accounts().Create(ctx, domain.NewAccount("a1", "c1", "0001", now)))
	require.NoError(t, s.Accounts().Create(ctx, domain.NewAccount("a2", "c1", "0002", now)))
}

func TestMutexStoreUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s, err := NewMutexStore(nil)
	require.NoError(t, err)
	seed(t, s)

	err = s.Accounts().Create(ctx, domain.NewAccount("a3", "c1", "0001", time.Now()))
	assert.ErrorIs(t, err, domain.ErrDuplicateAccountNumber)

	err = s.Customers().Create(ctx, &domain.Customer{ID: "c2", Email: "a@b.c", Code: "002"})
	assert.ErrorIs(t, err, domain.ErrCustomerAlreadyExists)

	err = s.Customers().Create(ctx, &domain.Customer{ID: "c2", Email: "x@b.c", Code: "001"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCustomerCode)
}

func TestMutexStoreRollbackOnError(t *testing.T) {
	ctx := context.Background()
	s, err := NewMutexStore(nil)
	require.NoError(t, err)
	seed(t, s)

	boom := errors.New("boom")
	err = s.WithinTx(ctx, func(tx usecase.Tx) error {
		accounts, err := tx.LockAccounts(ctx, "0001")
		require.NoError(t, err)
		acc := accounts["0001"]
		require.NoError(t, acc.Deposit(decimal.NewFromInt(50)))
		require.NoError(t, tx.SaveAccount(ctx, acc))
		require.NoError(t, tx.AppendTransaction(ctx, domain.NewDepositTransaction("0001", decimal.NewFromInt(50), time.Now())))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.Accounts().FindByNumber(ctx, "0001")
	require.NoError(t, err)
	assert.True(t, acc.Balance.IsZero())

	history, err := s.Transactions().ListByAccount(ctx, "0001")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMutexStoreLockAccountsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	s, err := NewMutexStore(nil)
	require.NoError(t, err)
	seed(t, s)

	err = s.WithinTx(ctx, func(tx usecase.Tx) error {
		accounts, err := tx.LockAccounts(ctx, "0002", "9999", "0001")
		require.NoError(t, err)
		assert.Len(t, accounts, 2)
		assert.NotContains(t, accounts, "9999")
		return nil
	})
	require.NoError(t, err)
}

func TestMutexStoreDeleteCascade(t *testing.T) {
	ctx := context.Background()
	s, err := NewMutexStore(nil)
	require.NoError(t, err)
	seed(t, s)

	err = s.WithinTx(ctx, func(tx usecase.Tx) error {
		n, err := tx.DeleteAccountsByOwner(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		found, err := tx.DeleteCustomer(ctx, "c1")
		require.NoError(t, err)
		assert.True(t, found)
		return nil
	})
	require.NoError(t, err)

	_, err = s.Customers().FindByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	accounts, err := s.Accounts().FindByOwner(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, accounts)

	// email 與代碼可以重新使用
	require.NoError(t, s.Customers().Create(ctx, &domain.Customer{ID: "c9", Email: "a@b.c", Code: "001"}))
}

func TestMutexStoreRecoverFromWAL(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bank.wal")

	w, err := wal.Open(path)
	require.NoError(t, err)
	s, err := NewMutexStore(w)
	require.NoError(t, err)
	seed(t, s)

	amount := decimal.RequireFromString("12.3456")
	err = s.WithinTx(ctx, func(tx usecase.Tx) error {
		accounts, err := tx.LockAccounts(ctx, "0001", "0002")
		if err != nil {
			return err
		}
		require.NoError(t, accounts["0001"].Deposit(amount))
		require.NoError(t, tx.SaveAccount(ctx, accounts["0001"]))
		return tx.AppendTransaction(ctx, domain.NewDepositTransaction("0001", amount, time.Now()))
	})
	require.NoError(t, err)

	// 失敗的工作單元不會寫入 WAL
	_ = s.WithinTx(ctx, func(tx usecase.Tx) error {
		_, _ = tx.DeleteAccountsByOwner(ctx, "c1")
		return errors.New("abort")
	})
	require.NoError(t, s.Close())

	w, err = wal.Open(path)
	require.NoError(t, err)
	recovered, err := NewMutexStore(w)
	require.NoError(t, err)
	defer recovered.Close()

	acc, err := recovered.Accounts().FindByNumber(ctx, "0001")
	require.NoError(t, err)
	assert.True(t, amount.Equal(acc.Balance), "got %s", acc.Balance)

	accounts, err := recovered.Accounts().FindByOwner(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	history, err := recovered.Transactions().ListByAccount(ctx, "0001")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.TransactionTypeDeposit, history[0].Type)

	_, err = recovered.Customers().FindByEmail(ctx, "a@b.c")
	require.NoError(t, err)
}
