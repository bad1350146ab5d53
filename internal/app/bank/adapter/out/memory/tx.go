package memory

import (
	"context"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

// mutexTx 暫存工作單元中的寫入，提交前不影響 MutexStore
type mutexTx struct {
	s       *MutexStore
	staged  map[string]*domain.Account
	removed map[string]bool
	gone    map[string]bool
	changes changeset
}

func newMutexTx(s *MutexStore) *mutexTx {
	return &mutexTx{
		s:       s,
		staged:  make(map[string]*domain.Account),
		removed: make(map[string]bool),
		gone:    make(map[string]bool),
	}
}

// lookup 先看暫存，再看 MutexStore
func (t *mutexTx) lookup(number string) (*domain.Account, bool) {
	if t.removed[number] {
		return nil, false
	}
	if acc, ok := t.staged[number]; ok {
		return acc, true
	}
	acc, ok := t.s.accounts[number]
	return acc, ok
}

// LockAccounts 寫鎖已由 WithinTx 持有，這裡只回傳拷貝
func (t *mutexTx) LockAccounts(ctx context.Context, numbers ...string) (map[string]*domain.Account, error) {
	result := make(map[string]*domain.Account, len(numbers))
	for _, n := range domain.LockNumbers(numbers...) {
		if acc, ok := t.lookup(n); ok {
			result[n] = acc.Clone()
		}
	}
	return result, nil
}

func (t *mutexTx) SaveAccount(ctx context.Context, account *domain.Account) error {
	if _, ok := t.lookup(account.Number); !ok {
		return domain.ErrAccountNotFound
	}
	cp := account.Clone()
	t.staged[account.Number] = cp
	t.changes.Ops = append(t.changes.Ops, op{Kind: opSaveAccount, Account: cp})
	return nil
}

func (t *mutexTx) AppendTransaction(ctx context.Context, tran *domain.Transaction) error {
	cp := *tran
	t.changes.Ops = append(t.changes.Ops, op{Kind: opAppendTransaction, Transaction: &cp})
	return nil
}

func (t *mutexTx) DeleteAccountsByOwner(ctx context.Context, ownerID string) (int, error) {
	numbers := make(map[string]struct{})
	for n, acc := range t.s.accounts {
		if acc.CustomerID == ownerID {
			numbers[n] = struct{}{}
		}
	}
	for n, acc := range t.staged {
		if acc.CustomerID == ownerID {
			numbers[n] = struct{}{}
		}
	}

	deleted := 0
	for _, n := range domain.LockNumbers(keys(numbers)...) {
		if t.removed[n] {
			continue
		}
		t.removed[n] = true
		delete(t.staged, n)
		t.changes.Ops = append(t.changes.Ops, op{Kind: opDeleteAccount, Key: n})
		deleted++
	}
	return deleted, nil
}

func (t *mutexTx) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	if _, ok := t.s.customers[id]; !ok || t.gone[id] {
		return false, nil
	}
	t.gone[id] = true
	t.changes.Ops = append(t.changes.Ops, op{Kind: opDeleteCustomer, Key: id})
	return true, nil
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

var _ usecase.Tx = (*mutexTx)(nil)
