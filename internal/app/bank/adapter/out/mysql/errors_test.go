package mysql

import (
	"errors"
	"fmt"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "duplicate account number",
			err:  &driver.MySQLError{Number: 1062, Message: "Duplicate entry '0001' for key 'accounts.uk_accounts_number'"},
			want: domain.ErrDuplicateAccountNumber,
		},
		{
			name: "duplicate customer code",
			err:  &driver.MySQLError{Number: 1062, Message: "Duplicate entry '007' for key 'customers.uk_customers_code'"},
			want: domain.ErrDuplicateCustomerCode,
		},
		{
			name: "duplicate email",
			err:  fmt.Errorf("create: %w", &driver.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'uk_customers_email'"}),
			want: domain.ErrCustomerAlreadyExists,
		},
		{
			name: "deadlock",
			err:  &driver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"},
			want: domain.ErrConflict,
		},
		{
			name: "lock wait timeout",
			err:  &driver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"},
			want: domain.ErrConflict,
		},
		{
			name: "domain error passes through",
			err:  domain.ErrInsufficientBalance,
			want: domain.ErrInsufficientBalance,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.want)
		})
	}
}

func TestTranslateErrorKeepsUnknown(t *testing.T) {
	assert.NoError(t, translateError(nil))

	other := &driver.MySQLError{Number: 1146, Message: "Table doesn't exist"}
	got := translateError(other)
	assert.Same(t, other, got)
	assert.False(t, errors.Is(got, domain.ErrConflict))
}
