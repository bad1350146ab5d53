package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// amount 使用 decimal，並定義精度：小數點後 4 位
// 整數位數上限與 decimal(20,4) 欄位一致
const (
	CurrencyScale int32 = 4

	MaxIntegerDigits = 16
	// MaxInputFractionDigits 輸入金額可帶的小數位數上限，多出的部分換算時會被四捨五入
	MaxInputFractionDigits = 18
)

// TransactionType 交易類型
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdraw TransactionType = 2
	// 轉帳
	TransactionTypeTransfer TransactionType = 3
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	case TransactionTypeTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Transaction 交易紀錄，建立後不可修改 (append-only)
//
// 各類型欄位慣例:
//
//	deposit:  ToAccount = 入帳帳號
//	withdraw: ToAccount = 被提款的帳號 (沿用既有資料慣例)
//	transfer: FromAccount = 扣款帳號, ToAccount = 入帳帳號
type Transaction struct {
	ID          uuid.UUID
	Type        TransactionType
	Amount      decimal.Decimal
	FromAccount string
	ToAccount   string
	CreatedAt   time.Time
}

func NewDepositTransaction(number string, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		Type:      TransactionTypeDeposit,
		Amount:    amount,
		ToAccount: number,
		CreatedAt: at,
	}
}

func NewWithdrawTransaction(number string, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		Type:      TransactionTypeWithdraw,
		Amount:    amount,
		ToAccount: number,
		CreatedAt: at,
	}
}

func NewTransferTransaction(from, to string, amount decimal.Decimal, at time.Time) *Transaction {
	return &Transaction{
		ID:          uuid.New(),
		Type:        TransactionTypeTransfer,
		Amount:      amount,
		FromAccount: from,
		ToAccount:   to,
		CreatedAt:   at,
	}
}

// Involves 判斷帳號是否為此交易的來源或目的
func (t *Transaction) Involves(number string) bool {
	return t.FromAccount == number || t.ToAccount == number
}

// LockNumbers 回傳需要鎖定的帳號，並確保順序以避免死鎖
func LockNumbers(numbers ...string) []string {
	seen := make(map[string]struct{}, len(numbers))
	ids := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		ids = append(ids, n)
	}
	sort.Strings(ids)
	return ids
}
