package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// MySQLStore 以 MySQL (GORM) 實作 usecase.Store
type MySQLStore struct {
	client *mysql.Client
}

func NewMySQLStore(client *mysql.Client) *MySQLStore {
	return &MySQLStore{
		client: client,
	}
}

// AutoMigrate 建立或更新資料表
func (s *MySQLStore) AutoMigrate(ctx context.Context) error {
	return s.client.DB().WithContext(ctx).AutoMigrate(&sqlCustomer{}, &sqlAccount{}, &sqlTransaction{})
}

func (s *MySQLStore) Accounts() usecase.AccountRepository {
	return accountRepo{db: s.client.DB()}
}

func (s *MySQLStore) Customers() usecase.CustomerRepository {
	return customerRepo{db: s.client.DB()}
}

func (s *MySQLStore) Transactions() usecase.TransactionRepository {
	return transactionRepo{db: s.client.DB()}
}

// WithinTx 以 GORM Transaction 執行 fn
// fn 回傳 error 或 panic 時 Rollback，否則 Commit
func (s *MySQLStore) WithinTx(ctx context.Context, fn func(tx usecase.Tx) error) error {
	err := s.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&sqlTx{db: tx})
	})
	return translateError(err)
}

func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

type accountRepo struct{ db *gorm.DB }

func (r accountRepo) Create(ctx context.Context, account *domain.Account) error {
	return translateError(r.db.WithContext(ctx).Create(accountToRow(account)).Error)
}

func (r accountRepo) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	var rows []sqlAccount
	if err := r.db.WithContext(ctx).Where("customer_id = ?", ownerID).Order("account_number").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toDomain())
	}
	return result, nil
}

func (r accountRepo) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	var row sqlAccount
	err := r.db.WithContext(ctx).Where("account_number = ?", number).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

type customerRepo struct{ db *gorm.DB }

func (r customerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(customerToRow(customer)).Error)
}

func (r customerRepo) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r customerRepo) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.first(ctx, "email = ?", email)
}

func (r customerRepo) first(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	var row sqlCustomer
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

type transactionRepo struct{ db *gorm.DB }

// ListByAccount 由新到舊 (自增 ID 遞減)
func (r transactionRepo) ListByAccount(ctx context.Context, number string) ([]*domain.Transaction, error) {
	var rows []sqlTransaction
	err := r.db.WithContext(ctx).
		Where("from_account = ? OR to_account = ?", number, number).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		t, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

var _ usecase.Store = (*MySQLStore)(nil)
