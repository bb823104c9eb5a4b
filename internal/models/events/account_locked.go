package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountLocked is published when a chargeback locks an account.
type AccountLocked struct {
	EventID    string          `json:"event_id"`
	Client     uint16          `json:"client"`
	Tx         uint32          `json:"tx"` // the charged-back transaction
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
