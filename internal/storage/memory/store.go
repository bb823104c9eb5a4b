package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	interfaces "github.com/finbatch/payments-engine/internal/interfaces"
	"github.com/finbatch/payments-engine/internal/models"
)

// ErrEntryNotFound is returned by SetDisputed when no entry exists at the
// requested (client, tx) key.
var ErrEntryNotFound = errors.New("ledger entry not found")

// entryKey is the composite history key. Keying by both ids is what keeps
// one client's disputes away from another client's transactions.
type entryKey struct {
	client models.ClientID
	tx     models.TxID
}

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It is safe for concurrent use.
type MemoryLedgerStore struct {
	mu      sync.Mutex // protects entries
	entries map[entryKey]models.LedgerEntry
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance.
func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{
		entries: make(map[entryKey]models.LedgerEntry),
	}
}

// Record inserts or overwrites the entry at (client, tx). A duplicate tx id
// for the same client silently replaces the previous entry and clears its
// disputed flag.
func (m *MemoryLedgerStore) Record(ctx context.Context, client models.ClientID, tx models.TxID, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entryKey{client, tx}] = models.LedgerEntry{Amount: amount}
	return nil
}

// Get returns a copy of the entry at (client, tx), or ok == false when the
// client never recorded that tx id.
func (m *MemoryLedgerStore) Get(ctx context.Context, client models.ClientID, tx models.TxID) (models.LedgerEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[entryKey{client, tx}]
	return entry, ok, nil
}

// SetDisputed toggles the disputed flag on an existing entry.
func (m *MemoryLedgerStore) SetDisputed(ctx context.Context, client models.ClientID, tx models.TxID, disputed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := entryKey{client, tx}
	entry, ok := m.entries[key]
	if !ok {
		return ErrEntryNotFound
	}
	entry.Disputed = disputed
	m.entries[key] = entry
	return nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore.
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
