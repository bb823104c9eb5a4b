package models

import "github.com/shopspring/decimal"

// ClientID identifies a client account.
type ClientID uint16

// TxID identifies a deposit or withdrawal within a client's history.
type TxID uint32

// Kind is the type of a transaction.
type Kind string

const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind maps a wire value to a Kind. ok is false for unrecognized
// values; the raw value is still returned so callers can report it.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return Kind(s), true
	}
	return Kind(s), false
}

// Transaction represents one parsed input record.
// Amount is present only for deposits and withdrawals; the dispute
// lifecycle kinds reference an earlier transaction and carry no amount.
type Transaction struct {
	Kind   Kind            `json:"type"`
	Client ClientID        `json:"client"`
	Tx     TxID            `json:"tx"`
	Amount decimal.Decimal `json:"amount"`
}
