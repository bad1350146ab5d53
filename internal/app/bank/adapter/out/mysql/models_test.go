package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

func TestTransactionRowConversion(t *testing.T) {
	tr := domain.NewTransferTransaction("0001", "0002", decimal.RequireFromString("12.5"), time.Now())

	got, err := transactionToRow(tr).toDomain()
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)
	assert.Equal(t, domain.TransactionTypeTransfer, got.Type)
	assert.Equal(t, "0001", got.FromAccount)
	assert.Equal(t, "0002", got.ToAccount)
}

func TestTransactionRowRejectsBadRefID(t *testing.T) {
	for _, ref := range [][]byte{nil, {1, 2, 3}} {
		row := &sqlTransaction{ID: 7, RefID: ref, Type: uint8(domain.TransactionTypeDeposit), ToAccount: "0001"}
		_, err := row.toDomain()
		assert.ErrorContains(t, err, "transaction 7: invalid ref_id")
	}
}
