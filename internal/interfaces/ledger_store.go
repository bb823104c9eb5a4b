package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finbatch/payments-engine/internal/models"
)

// LedgerStore is the transaction history consulted by the dispute
// lifecycle. Entries are keyed by (client, tx), so a dispute can only ever
// reach its own client's transactions; a tx id that exists under another
// client is simply not found.
type LedgerStore interface {
	// Record inserts or overwrites the entry at (client, tx) with the
	// disputed flag cleared.
	Record(ctx context.Context, client models.ClientID, tx models.TxID, amount decimal.Decimal) error

	// Get returns the entry at (client, tx); ok is false when absent.
	Get(ctx context.Context, client models.ClientID, tx models.TxID) (entry models.LedgerEntry, ok bool, err error)

	// SetDisputed toggles the disputed flag on an existing entry.
	// It is an error to call it for a (client, tx) that was never recorded.
	SetDisputed(ctx context.Context, client models.ClientID, tx models.TxID, disputed bool) error
}
