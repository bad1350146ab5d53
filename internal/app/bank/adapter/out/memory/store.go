package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

// MutexStore 是一個使用 Mutex 實現的記憶體儲存層
// 同一時間只有一個工作單元可以寫入，寫入先記錄於 WAL 再套用至記憶體
//
// 結構:
//
//	customers / emails / codes: 客戶資料與唯一索引
//	accounts: 帳號 -> 帳戶
//	transactions: 交易紀錄 (依寫入順序)
//	wal: Write-Ahead Log 實例，nil 表示不落地
type MutexStore struct {
	mu           sync.RWMutex
	customers    map[string]*domain.Customer
	emails       map[string]string
	codes        map[string]string
	accounts     map[string]*domain.Account
	transactions []*domain.Transaction
	wal          *wal.WAL
}

// NewMutexStore 建立一個新的 MutexStore 實例
//
// 參數:
//
//	w: Write-Ahead Log 實例，可為 nil
//
// 回傳:
//
//	*MutexStore: MutexStore 實例
//	error: 初始化錯誤 (如 WAL 恢復失敗)
func NewMutexStore(w *wal.WAL) (*MutexStore, error) {
	s := &MutexStore{
		customers: make(map[string]*domain.Customer),
		emails:    make(map[string]string),
		codes:     make(map[string]string),
		accounts:  make(map[string]*domain.Account),
		wal:       w,
	}
	if w != nil {
		if err := s.recoverFromWAL(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// recoverFromWAL 從 WAL 檔案恢復狀態
// 只有 NewMutexStore 呼叫，無需 Lock (單執行緒)
func (s *MutexStore) recoverFromWAL() error {
	return s.wal.Replay(func(raw json.RawMessage) error {
		var cs changeset
		if err := json.Unmarshal(raw, &cs); err != nil {
			return err
		}
		s.apply(&cs)
		return nil
	})
}

// commit 寫入 WAL 後套用 (呼叫端需持有寫鎖)
func (s *MutexStore) commit(cs *changeset) error {
	if len(cs.Ops) == 0 {
		return nil
	}
	if s.wal != nil {
		if err := s.wal.Append(cs); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrWALWriteFailed, err)
		}
	}
	s.apply(cs)
	return nil
}

func (s *MutexStore) Accounts() usecase.AccountRepository {
	return accountRepo{s}
}

func (s *MutexStore) Customers() usecase.CustomerRepository {
	return customerRepo{s}
}

func (s *MutexStore) Transactions() usecase.TransactionRepository {
	return transactionRepo{s}
}

// WithinTx 持有寫鎖執行 fn，成功才寫入
// fn 內只能使用 tx，不可再呼叫 Store 的查詢方法
func (s *MutexStore) WithinTx(ctx context.Context, fn func(tx usecase.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newMutexTx(s)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(&tx.changes)
}

func (s *MutexStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close 關閉 WAL
func (s *MutexStore) Close() error {
	if s.wal == nil {
		return nil
	}
	return s.wal.Close()
}

type accountRepo struct{ s *MutexStore }

func (r accountRepo) Create(ctx context.Context, account *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[account.Number]; ok {
		return domain.ErrDuplicateAccountNumber
	}
	return r.s.commit(&changeset{Ops: []op{{Kind: opCreateAccount, Account: account.Clone()}}})
}

func (r accountRepo) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]*domain.Account, 0)
	for _, acc := range r.s.accounts {
		if acc.CustomerID == ownerID {
			result = append(result, acc.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (r accountRepo) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	acc, ok := r.s.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc.Clone(), nil
}

type customerRepo struct{ s *MutexStore }

func (r customerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.emails[customer.Email]; ok {
		return domain.ErrCustomerAlreadyExists
	}
	if _, ok := r.s.codes[customer.Code]; ok {
		return domain.ErrDuplicateCustomerCode
	}
	c := *customer
	return r.s.commit(&changeset{Ops: []op{{Kind: opCreateCustomer, Customer: &c}}})
}

func (r customerRepo) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (r customerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.emails[email]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cp := *r.s.customers[id]
	return &cp, nil
}

type transactionRepo struct{ s *MutexStore }

// ListByAccount 由新到舊 (transactions 依寫入順序排列)
func (r transactionRepo) ListByAccount(ctx context.Context, number string) ([]*domain.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		t := r.s.transactions[i]
		if t.Involves(number) {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

var _ usecase.Store = (*MutexStore)(nil)
