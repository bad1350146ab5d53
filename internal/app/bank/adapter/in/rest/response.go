package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// 回應訊息
const (
	msgServerError       = "Server Error"
	msgInvalidBody       = "Invalid request body"
	msgNoToken           = "No token, authorization denied"
	msgInvalidToken      = "Token is not valid"
	msgInvalidNumber     = "Please enter the valid number"
	msgAmountPositive    = "Amount must be positive"
	msgInvalidCurrency   = "Invalid Currency"
	msgAccountNotFound   = "Account not found"
	msgCustomerNotFound  = "Customer not found"
	msgCustomerExists    = "Customer already exists"
	msgInvalidCredential = "Invalid credentials"
	msgSameAccount       = "Cannot transfer to the same account"
	msgNoSource          = "Account does not exist to withdraw"
	msgNoDestination     = "Account does not exist to deposit"
	msgConflict          = "Conflicting update, please retry"
	msgExhausted         = "Could not allocate a unique number, please retry"
	msgCustomerDeleted   = "Customer Deleted"
)

type accountResponse struct {
	ID            string      `json:"id"`
	AccountNumber string      `json:"accountNumber"`
	Customer      string      `json:"customer"`
	Balance       json.Number `json:"balance"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// accountOwner 帳戶持有人，不含密碼與客戶代碼
type accountOwner struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ownedAccountResponse 開戶與查詢帳戶時回傳，customer 展開為持有人資料
type ownedAccountResponse struct {
	ID            string       `json:"id"`
	AccountNumber string       `json:"accountNumber"`
	Customer      accountOwner `json:"customer"`
	Balance       json.Number  `json:"balance"`
	CreatedAt     time.Time    `json:"createdAt"`
}

type customerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
}

type transactionResponse struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	FromAccount string      `json:"fromAccount,omitempty"`
	ToAccount   string      `json:"toAccount,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type transferResponse struct {
	Debit  accountResponse `json:"debit"`
	Credit accountResponse `json:"credit"`
}

// money 以精確的十進位字串輸出為 JSON 數字
func money(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:            a.ID,
		AccountNumber: a.Number,
		Customer:      a.CustomerID,
		Balance:       money(a.Balance),
		CreatedAt:     a.CreatedAt,
	}
}

func toOwnedAccountResponse(a *domain.Account, owner *domain.Customer) ownedAccountResponse {
	return ownedAccountResponse{
		ID:            a.ID,
		AccountNumber: a.Number,
		Customer:      accountOwner{ID: owner.ID, Name: owner.Name, Email: owner.Email},
		Balance:       money(a.Balance),
		CreatedAt:     a.CreatedAt,
	}
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Code:      c.Code,
		CreatedAt: c.CreatedAt,
	}
}

func toTransactionResponses(trans []*domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(trans))
	for _, t := range trans {
		out = append(out, transactionResponse{
			ID:          t.ID.String(),
			Type:        t.Type.String(),
			Amount:      money(t.Amount),
			FromAccount: t.FromAccount,
			ToAccount:   t.ToAccount,
			CreatedAt:   t.CreatedAt,
		})
	}
	return out
}

func respondMsg(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"msg": msg})
}

func respondFieldErrors(c *gin.Context, errs fieldErrors) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errs})
}

// errorMapping domain 錯誤對應的狀態碼與訊息
type errorMapping struct {
	err    error
	status int
	msg    string
}

var errorMappings = []errorMapping{
	{domain.ErrAccountNotFound, http.StatusBadRequest, msgAccountNotFound},
	{domain.ErrSourceAccountNotFound, http.StatusBadRequest, msgNoSource},
	{domain.ErrDestinationAccountNotFound, http.StatusBadRequest, msgNoDestination},
	{domain.ErrSameAccount, http.StatusBadRequest, msgSameAccount},
	{domain.ErrCustomerNotFound, http.StatusBadRequest, msgCustomerNotFound},
	{domain.ErrCustomerAlreadyExists, http.StatusBadRequest, msgCustomerExists},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, msgInvalidCredential},
	{domain.ErrConflict, http.StatusConflict, msgConflict},
	{domain.ErrIdentifierExhausted, http.StatusServiceUnavailable, msgExhausted},
}

// respondError 將 use case 錯誤轉為 HTTP 回應
// action 用於餘額不足的訊息 (withdraw / transfer)
// 無法辨識的錯誤一律回 500 並寫 log，不把內部錯誤外洩
func (h *Handler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		respondMsg(c, http.StatusBadRequest, "Insufficient balance to "+action)
		return
	case errors.Is(err, domain.ErrAmountMustBePositive):
		respondFieldErrors(c, fieldErrors{"amount": msgAmountPositive})
		return
	case errors.Is(err, domain.ErrAmountOutOfRange):
		respondFieldErrors(c, fieldErrors{"amount": msgInvalidNumber})
		return
	case errors.Is(err, domain.ErrUnsupportedCurrency):
		respondFieldErrors(c, fieldErrors{"currency": msgInvalidCurrency})
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			respondMsg(c, m.status, m.msg)
			return
		}
	}
	h.logger.ErrorContext(c.Request.Context(), "request failed",
		slog.String("method", c.Request.Method),
		slog.String("path", c.FullPath()),
		slog.Any("error", err))
	respondMsg(c, http.StatusInternalServerError, msgServerError)
}
