package mysql

import (
	"errors"
	"fmt"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// MySQL 錯誤碼
const (
	errDupEntry        = 1062
	errLockWaitTimeout = 1205
	errLockDeadlock    = 1213
)

// translateError 將 MySQL 錯誤轉為 domain 錯誤
// 非 MySQL 錯誤 (包含 domain 錯誤) 原樣回傳
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var myErr *driver.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}
	switch myErr.Number {
	case errDupEntry:
		switch {
		case strings.Contains(myErr.Message, indexAccountNumber):
			return domain.ErrDuplicateAccountNumber
		case strings.Contains(myErr.Message, indexCustomerCode):
			return domain.ErrDuplicateCustomerCode
		case strings.Contains(myErr.Message, indexCustomerEmail):
			return domain.ErrCustomerAlreadyExists
		}
	case errLockDeadlock, errLockWaitTimeout:
		return fmt.Errorf("%w: %s", domain.ErrConflict, myErr.Message)
	}
	return err
}
