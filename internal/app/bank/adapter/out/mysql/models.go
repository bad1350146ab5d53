package mysql

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// 唯一索引名稱，translateError 依此判斷是哪一種重複
const (
	indexCustomerEmail = "uk_customers_email"
	indexCustomerCode  = "uk_customers_code"
	indexAccountNumber = "uk_accounts_number"
)

// sqlCustomer 對應資料庫的 customers 表
type sqlCustomer struct {
	ID           string `gorm:"primaryKey;type:char(36)"`
	Name         string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_customers_email"`
	PasswordHash string `gorm:"size:255;not null"`
	Code         string `gorm:"type:char(3);not null;uniqueIndex:uk_customers_code"`
	CreatedAt    time.Time
}

func (*sqlCustomer) TableName() string {
	return "customers"
}

// sqlAccount 對應資料庫的 accounts 表
type sqlAccount struct {
	ID         string          `gorm:"primaryKey;type:char(36)"`
	CustomerID string          `gorm:"type:char(36);not null;index:idx_accounts_customer_id"`
	Number     string          `gorm:"column:account_number;type:char(4);not null;uniqueIndex:uk_accounts_number"`
	Balance    decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// sqlTransaction 對應資料庫的 transactions 表 (append-only)
type sqlTransaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	RefID       []byte          `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.Transaction.ID
	Type        uint8           `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	FromAccount string          `gorm:"type:char(4);index:idx_transactions_from"`
	ToAccount   string          `gorm:"type:char(4);index:idx_transactions_to"`
	CreatedAt   time.Time
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

func customerToRow(c *domain.Customer) *sqlCustomer {
	return &sqlCustomer{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Code:         c.Code,
		CreatedAt:    c.CreatedAt,
	}
}

func (r *sqlCustomer) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Code:         r.Code,
		CreatedAt:    r.CreatedAt,
	}
}

func accountToRow(a *domain.Account) *sqlAccount {
	return &sqlAccount{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Number:     a.Number,
		Balance:    a.Balance,
		CreatedAt:  a.CreatedAt,
	}
}

func (r *sqlAccount) toDomain() *domain.Account {
	return &domain.Account{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Number:     r.Number,
		Balance:    r.Balance,
		CreatedAt:  r.CreatedAt,
	}
}

func transactionToRow(t *domain.Transaction) *sqlTransaction {
	return &sqlTransaction{
		RefID:       t.ID[:],
		Type:        uint8(t.Type),
		Amount:      t.Amount,
		FromAccount: t.FromAccount,
		ToAccount:   t.ToAccount,
		CreatedAt:   t.CreatedAt,
	}
}

// toDomain ref_id 長度不是 16 bytes (包含 NULL) 時回傳錯誤
func (r *sqlTransaction) toDomain() (*domain.Transaction, error) {
	id, err := uuid.FromBytes(r.RefID)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: invalid ref_id: %w", r.ID, err)
	}
	return &domain.Transaction{
		ID:          id,
		Type:        domain.TransactionType(r.Type),
		Amount:      r.Amount,
		FromAccount: r.FromAccount,
		ToAccount:   r.ToAccount,
		CreatedAt:   r.CreatedAt,
	}, nil
}
