package memory

import "github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"

// opKind WAL 中的操作類型
type opKind string

const (
	opCreateCustomer    opKind = "create_customer"
	opDeleteCustomer    opKind = "delete_customer"
	opCreateAccount     opKind = "create_account"
	opSaveAccount       opKind = "save_account"
	opDeleteAccount     opKind = "delete_account"
	opAppendTransaction opKind = "append_transaction"
)

// op 單一寫入操作
type op struct {
	Kind        opKind              `json:"kind"`
	Key         string              `json:"key,omitempty"`
	Customer    *domain.Customer    `json:"customer,omitempty"`
	Account     *domain.Account     `json:"account,omitempty"`
	Transaction *domain.Transaction `json:"transaction,omitempty"`
}

// changeset 一個工作單元的所有寫入，WAL 以此為單位寫入與重播
type changeset struct {
	Ops []op `json:"ops"`
}

// apply 套用至記憶體 (呼叫端需持有寫鎖)
func (s *MutexStore) apply(cs *changeset) {
	for _, o := range cs.Ops {
		switch o.Kind {
		case opCreateCustomer:
			c := *o.Customer
			s.customers[c.ID] = &c
			s.emails[c.Email] = c.ID
			s.codes[c.Code] = c.ID
		case opDeleteCustomer:
			if c, ok := s.customers[o.Key]; ok {
				delete(s.emails, c.Email)
				delete(s.codes, c.Code)
				delete(s.customers, o.Key)
			}
		case opCreateAccount, opSaveAccount:
			s.accounts[o.Account.Number] = o.Account.Clone()
		case opDeleteAccount:
			delete(s.accounts, o.Key)
		case opAppendTransaction:
			t := *o.Transaction
			s.transactions = append(s.transactions, &t)
		}
	}
}
