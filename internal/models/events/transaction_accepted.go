package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionAccepted is published after a deposit or withdrawal has been
// applied to an account.
type TransactionAccepted struct {
	EventID    string          `json:"event_id"`
	Kind       string          `json:"kind"`
	Client     uint16          `json:"client"`
	Tx         uint32          `json:"tx"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}
