package usecase

import (
	"context"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// Store 是儲存層的介面 (output port)
// 所有會改動餘額的操作都必須透過 WithinTx 執行
type Store interface {
	Accounts() AccountRepository
	Customers() CustomerRepository
	Transactions() TransactionRepository

	// WithinTx 在單一工作單元中執行 fn
	// fn 回傳 nil 時提交，回傳 error 或 panic 時整批回滾
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// Ping 檢查儲存層是否可用 (health check 用)
	Ping(ctx context.Context) error
}

// Tx 工作單元內可用的操作
type Tx interface {
	// LockAccounts 依帳號遞增順序鎖定帳戶，回傳 帳號 -> 帳戶
	// 不存在的帳號不會出現在 map 中，由呼叫端決定要回哪一種錯誤
	LockAccounts(ctx context.Context, numbers ...string) (map[string]*domain.Account, error)
	SaveAccount(ctx context.Context, account *domain.Account) error
	AppendTransaction(ctx context.Context, tran *domain.Transaction) error
	// DeleteAccountsByOwner 回傳刪除筆數
	DeleteAccountsByOwner(ctx context.Context, ownerID string) (int, error)
	// DeleteCustomer 回傳客戶是否存在
	DeleteCustomer(ctx context.Context, id string) (bool, error)
}

// AccountRepository 帳戶查詢與建立
type AccountRepository interface {
	// Create 帳號重複時回傳 domain.ErrDuplicateAccountNumber
	Create(ctx context.Context, account *domain.Account) error
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error)
	// FindByNumber 找不到時回傳 domain.ErrAccountNotFound
	FindByNumber(ctx context.Context, number string) (*domain.Account, error)
}

// CustomerRepository 客戶查詢與建立
type CustomerRepository interface {
	// Create email 重複回傳 domain.ErrCustomerAlreadyExists，代碼重複回傳 domain.ErrDuplicateCustomerCode
	Create(ctx context.Context, customer *domain.Customer) error
	// FindByID 找不到時回傳 domain.ErrCustomerNotFound
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	// FindByEmail 找不到時回傳 domain.ErrCustomerNotFound
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// TransactionRepository 交易紀錄查詢
type TransactionRepository interface {
	// ListByAccount 依建立時間由新到舊
	ListByAccount(ctx context.Context, number string) ([]*domain.Transaction, error)
}

// PasswordHasher 密碼雜湊
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer 發行登入 token
type TokenIssuer interface {
	Issue(customerID string) (string, error)
}

// Authenticator 驗證 token 並回傳客戶 ID
type Authenticator interface {
	Verify(token string) (string, error)
}
