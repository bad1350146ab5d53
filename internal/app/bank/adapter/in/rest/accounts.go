package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

type moneyRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency" binding:"required"`
}

type transferRequest struct {
	Amount          json.RawMessage `json:"amount"`
	Currency        string          `json:"currency" binding:"required"`
	ToAccountNumber string          `json:"toAccountNumber" binding:"required"`
}

// withOwners 補上每個帳戶的持有人資料，同一客戶只查詢一次
func (h *Handler) withOwners(ctx context.Context, accounts ...*domain.Account) ([]ownedAccountResponse, error) {
	owners := make(map[string]*domain.Customer)
	out := make([]ownedAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		owner, ok := owners[a.CustomerID]
		if !ok {
			var err error
			owner, err = h.customers.Profile(ctx, a.CustomerID)
			if err != nil {
				return nil, err
			}
			owners[a.CustomerID] = owner
		}
		out = append(out, toOwnedAccountResponse(a, owner))
	}
	return out, nil
}

// createAccount POST /account
func (h *Handler) createAccount(c *gin.Context) {
	acc, err := h.directory.CreateAccount(c.Request.Context(), customerID(c))
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	out, err := h.withOwners(c.Request.Context(), acc)
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out[0])
}

// myAccounts GET /account/me
func (h *Handler) myAccounts(c *gin.Context) {
	accounts, err := h.directory.FindByOwner(c.Request.Context(), customerID(c))
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	out, err := h.withOwners(c.Request.Context(), accounts...)
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out)
}

// getAccount GET /account/:accountNumber
func (h *Handler) getAccount(c *gin.Context) {
	acc, err := h.directory.FindByAccountNumber(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	out, err := h.withOwners(c.Request.Context(), acc)
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, out[0])
}

// history GET /account/transactions/:accountNumber
func (h *Handler) history(c *gin.Context) {
	trans, err := h.directory.History(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		h.respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, toTransactionResponses(trans))
}

// deposit PUT /account/deposit/:accountNumber
func (h *Handler) deposit(c *gin.Context) {
	var req moneyRequest
	errs, err := bindJSON(c, &req, map[string]string{
		"currency": "Please select the currency of the amount to deposit",
	})
	if err != nil {
		respondFieldErrors(c, fieldErrors{"body": msgInvalidBody})
		return
	}
	amount := checkMoney(errs, req.Amount, req.Currency, h.rates)
	if len(errs) > 0 {
		respondFieldErrors(c, errs)
		return
	}

	acc, err := h.ledger.Deposit(c.Request.Context(), c.Param("accountNumber"), amount, req.Currency)
	if err != nil {
		h.respondError(c, err, "deposit")
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acc))
}

// withdraw PUT /account/withdraw/:accountNumber
func (h *Handler) withdraw(c *gin.Context) {
	var req moneyRequest
	errs, err := bindJSON(c, &req, map[string]string{
		"currency": "Please select the currency of the amount to withdraw",
	})
	if err != nil {
		respondFieldErrors(c, fieldErrors{"body": msgInvalidBody})
		return
	}
	amount := checkMoney(errs, req.Amount, req.Currency, h.rates)
	if len(errs) > 0 {
		respondFieldErrors(c, errs)
		return
	}

	acc, err := h.ledger.Withdraw(c.Request.Context(), c.Param("accountNumber"), amount, req.Currency)
	if err != nil {
		h.respondError(c, err, "withdraw")
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(acc))
}

// transfer PUT /account/transfer/:accountNumber
func (h *Handler) transfer(c *gin.Context) {
	var req transferRequest
	errs, err := bindJSON(c, &req, map[string]string{
		"currency":        "Please select the currency of the amount to transfer",
		"toAccountNumber": "Please select the account number to transfer the money",
	})
	if err != nil {
		respondFieldErrors(c, fieldErrors{"body": msgInvalidBody})
		return
	}
	amount := checkMoney(errs, req.Amount, req.Currency, h.rates)
	if len(errs) > 0 {
		respondFieldErrors(c, errs)
		return
	}

	res, err := h.ledger.Transfer(c.Request.Context(), c.Param("accountNumber"), req.ToAccountNumber, amount, req.Currency)
	if err != nil {
		h.respondError(c, err, "transfer")
		return
	}
	c.JSON(http.StatusOK, transferResponse{
		Debit:  toAccountResponse(res.Debit),
		Credit: toAccountResponse(res.Credit),
	})
}
