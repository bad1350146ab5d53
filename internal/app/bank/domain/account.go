package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account 帳戶，餘額一律以參考幣別儲存
type Account struct {
	ID         string
	CustomerID string
	// Number: 對外顯示的短帳號 (4 碼)，與系統 ID 分開
	Number    string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

func NewAccount(id, customerID, number string, createdAt time.Time) *Account {
	return &Account{
		ID:         id,
		CustomerID: customerID,
		Number:     number,
		Balance:    decimal.Zero,
		CreatedAt:  createdAt,
	}
}

// Deposit 存款，入帳後的餘額不可超出儲存精度
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}

	next := a.Balance.Add(amount)
	if !WithinPrecision(next) {
		return ErrAmountOutOfRange
	}
	a.Balance = next
	return nil
}

// Withdraw 提款，餘額不可為負
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}

	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientBalance
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}

// Clone 回傳值拷貝，避免呼叫端改到儲存層內部的指標
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}
