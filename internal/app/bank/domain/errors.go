package domain

import "errors"

var (
	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrAmountOutOfRange 金額或餘額超出儲存精度 (整數 16 位、小數 4 位)
	ErrAmountOutOfRange = errors.New("amount out of range")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrSourceAccountNotFound 轉帳的扣款帳戶不存在
	ErrSourceAccountNotFound = errors.New("source account not found")

	// ErrDestinationAccountNotFound 轉帳的入帳帳戶不存在
	ErrDestinationAccountNotFound = errors.New("destination account not found")

	// ErrSameAccount 轉出與轉入為同一帳戶
	ErrSameAccount = errors.New("cannot transfer to the same account")

	// ErrUnsupportedCurrency 不支援的幣別
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCustomerAlreadyExists Email 已被註冊
	ErrCustomerAlreadyExists = errors.New("customer already exists")

	// ErrInvalidCredentials 帳號或密碼錯誤
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateAccountNumber 帳號 (account number) 與既有帳戶重複，由儲存層唯一索引回報
	ErrDuplicateAccountNumber = errors.New("duplicate account number")

	// ErrDuplicateCustomerCode 客戶代碼重複，由儲存層唯一索引回報
	ErrDuplicateCustomerCode = errors.New("duplicate customer code")

	// ErrIdentifierExhausted 多次重試後仍無法產生不重複的短代碼
	ErrIdentifierExhausted = errors.New("identifier allocation exhausted")

	// ErrConflict 儲存層交易衝突 (deadlock / lock wait timeout)，可重試
	ErrConflict = errors.New("storage conflict, retry")

	// ErrWALWriteFailed 寫入 WAL 失敗
	ErrWALWriteFailed = errors.New("wal write failed")
)
