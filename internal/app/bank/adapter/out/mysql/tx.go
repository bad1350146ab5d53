package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

// sqlTx 包裝 GORM Transaction 內的 *gorm.DB
type sqlTx struct {
	db *gorm.DB
}

// LockAccounts 悲觀鎖 SELECT ... FOR UPDATE，依帳號遞增順序取鎖以避免死鎖
func (t *sqlTx) LockAccounts(ctx context.Context, numbers ...string) (map[string]*domain.Account, error) {
	lockNumbers := domain.LockNumbers(numbers...)
	var rows []sqlAccount
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_number IN ?", lockNumbers).
		Order("account_number").
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	result := make(map[string]*domain.Account, len(rows))
	for i := range rows {
		result[rows[i].Number] = rows[i].toDomain()
	}
	return result, nil
}

func (t *sqlTx) SaveAccount(ctx context.Context, account *domain.Account) error {
	err := t.db.WithContext(ctx).
		Model(&sqlAccount{}).
		Where("id = ?", account.ID).
		Update("balance", account.Balance).Error
	return translateError(err)
}

func (t *sqlTx) AppendTransaction(ctx context.Context, tran *domain.Transaction) error {
	return translateError(t.db.WithContext(ctx).Create(transactionToRow(tran)).Error)
}

func (t *sqlTx) DeleteAccountsByOwner(ctx context.Context, ownerID string) (int, error) {
	res := t.db.WithContext(ctx).Where("customer_id = ?", ownerID).Delete(&sqlAccount{})
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	return int(res.RowsAffected), nil
}

func (t *sqlTx) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(&sqlCustomer{})
	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

var _ usecase.Tx = (*sqlTx)(nil)
