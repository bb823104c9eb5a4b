package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	interfaces "github.com/finbatch/payments-engine/internal/interfaces"
	"github.com/finbatch/payments-engine/internal/models"
)

// PostgresLedgerStore persists ledger entries in a single table:
//
//	CREATE TABLE ledger_entries (
//	    client_id INTEGER NOT NULL,
//	    tx_id     BIGINT  NOT NULL,
//	    amount    NUMERIC NOT NULL,
//	    disputed  BOOLEAN NOT NULL DEFAULT FALSE,
//	    PRIMARY KEY (client_id, tx_id)
//	);
type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

// Record upserts the entry at (client, tx). Re-recording an existing tx id
// replaces the amount and clears the disputed flag, matching the in-memory
// store's overwrite semantics.
func (p *PostgresLedgerStore) Record(ctx context.Context, client models.ClientID, tx models.TxID, amount decimal.Decimal) error {
	const query = `INSERT INTO ledger_entries (client_id, tx_id, amount, disputed)
	VALUES ($1, $2, $3, FALSE)
	ON CONFLICT (client_id, tx_id) DO UPDATE SET amount = EXCLUDED.amount, disputed = FALSE`

	_, err := p.db.ExecContext(ctx, query, client, tx, amount)
	return err
}

func (p *PostgresLedgerStore) Get(ctx context.Context, client models.ClientID, tx models.TxID) (models.LedgerEntry, bool, error) {
	const query = `SELECT amount, disputed FROM ledger_entries
	WHERE client_id = $1 AND tx_id = $2`

	var entry models.LedgerEntry
	err := p.db.QueryRowContext(ctx, query, client, tx).Scan(&entry.Amount, &entry.Disputed)

	if err == sql.ErrNoRows {
		return models.LedgerEntry{}, false, nil
	}
	if err != nil {
		return models.LedgerEntry{}, false, err
	}
	return entry, true, nil
}

func (p *PostgresLedgerStore) SetDisputed(ctx context.Context, client models.ClientID, tx models.TxID, disputed bool) error {
	const query = `UPDATE ledger_entries SET disputed = $3
	WHERE client_id = $1 AND tx_id = $2`

	res, err := p.db.ExecContext(ctx, query, client, tx, disputed)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("ledger entry (%d, %d) not found", client, tx)
	}
	return nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
