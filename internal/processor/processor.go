// Package processor implements the transaction-replay state machine. It
// applies deposits, withdrawals, disputes, resolves and chargebacks one at a
// time, in arrival order, maintaining per-client balances and the history
// needed to settle later disputes.
package processor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	interfaces "github.com/finbatch/payments-engine/internal/interfaces"
	"github.com/finbatch/payments-engine/internal/models"
	"github.com/finbatch/payments-engine/internal/models/events"
)

// Event names used as message keys when publishing.
const (
	EventTransactionAccepted = "transaction_accepted"
	EventAccountLocked       = "account_locked"
)

// Processor owns the per-client account map and consults the ledger store
// for dispute references. It is not safe for concurrent use: transactions
// must be applied strictly in input order, because later transactions may
// dispute earlier ones.
type Processor struct {
	store     interfaces.LedgerStore
	publisher interfaces.EventPublisher // may be nil
	logger    *zap.Logger
	accounts  map[models.ClientID]*models.AccountState
}

func New(store interfaces.LedgerStore, publisher interfaces.EventPublisher, logger *zap.Logger) *Processor {
	return &Processor{
		store:     store,
		publisher: publisher,
		logger:    logger,
		accounts:  make(map[models.ClientID]*models.AccountState),
	}
}

// account returns the state for the client, creating a zeroed account on
// first reference. Even a transaction that ends up rejected materializes
// the account.
func (p *Processor) account(client models.ClientID) *models.AccountState {
	acct, ok := p.accounts[client]
	if !ok {
		acct = &models.AccountState{}
		p.accounts[client] = acct
	}
	return acct
}

// Apply processes one transaction. Semantically invalid transactions
// (insufficient funds, dangling dispute references, anything on a locked
// account) are silently absorbed; only store or publisher infrastructure
// failures surface as errors. An unrecognized kind is logged and skipped.
func (p *Processor) Apply(ctx context.Context, tx models.Transaction) error {
	switch tx.Kind {
	case models.KindDeposit:
		return p.applyDeposit(ctx, tx)
	case models.KindWithdrawal:
		return p.applyWithdrawal(ctx, tx)
	case models.KindDispute:
		return p.applyDispute(ctx, tx)
	case models.KindResolve:
		return p.applyResolve(ctx, tx)
	case models.KindChargeback:
		return p.applyChargeback(ctx, tx)
	default:
		p.logger.Warn("unrecognized transaction kind",
			zap.String("kind", string(tx.Kind)),
			zap.Uint16("client", uint16(tx.Client)),
			zap.Uint32("tx", uint32(tx.Tx)))
		return nil
	}
}

// applyDeposit credits available and total and historizes the transaction
// for later disputes.
func (p *Processor) applyDeposit(ctx context.Context, tx models.Transaction) error {
	acct := p.account(tx.Client)
	if acct.Locked {
		return nil
	}

	if err := p.store.Record(ctx, tx.Client, tx.Tx, tx.Amount); err != nil {
		return err
	}

	acct.Available = acct.Available.Add(tx.Amount)
	acct.Total = acct.Total.Add(tx.Amount)

	p.publishAccepted(tx)
	return nil
}

// applyWithdrawal debits available and total when the account covers the
// amount. The transaction is historized even when funds are insufficient,
// so a later dispute referencing it still finds an entry.
func (p *Processor) applyWithdrawal(ctx context.Context, tx models.Transaction) error {
	acct := p.account(tx.Client)
	if acct.Locked {
		return nil
	}

	if err := p.store.Record(ctx, tx.Client, tx.Tx, tx.Amount); err != nil {
		return err
	}

	if acct.Available.LessThan(tx.Amount) {
		return nil
	}

	acct.Available = acct.Available.Sub(tx.Amount)
	acct.Total = acct.Total.Sub(tx.Amount)

	p.publishAccepted(tx)
	return nil
}

// applyDispute freezes the referenced transaction's amount, moving it from
// available to held. A reference that was never recorded for this client,
// including a tx id that belongs to another client, is ignored. The
// referenced entry may itself be a rejected withdrawal, in which case
// available can go negative; the held funds were never there to begin with.
func (p *Processor) applyDispute(ctx context.Context, tx models.Transaction) error {
	acct := p.account(tx.Client)
	if acct.Locked {
		return nil
	}

	entry, ok, err := p.store.Get(ctx, tx.Client, tx.Tx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	acct.Available = acct.Available.Sub(entry.Amount)
	acct.Held = acct.Held.Add(entry.Amount)

	return p.store.SetDisputed(ctx, tx.Client, tx.Tx, true)
}

// applyResolve releases a disputed transaction's held funds back to
// available. Only entries currently under dispute qualify.
func (p *Processor) applyResolve(ctx context.Context, tx models.Transaction) error {
	acct := p.account(tx.Client)
	if acct.Locked {
		return nil
	}

	entry, ok, err := p.store.Get(ctx, tx.Client, tx.Tx)
	if err != nil {
		return err
	}
	if !ok || !entry.Disputed {
		return nil
	}

	acct.Held = acct.Held.Sub(entry.Amount)
	acct.Available = acct.Available.Add(entry.Amount)

	return p.store.SetDisputed(ctx, tx.Client, tx.Tx, false)
}

// applyChargeback settles a dispute against the client: the held amount
// leaves the account entirely and the account is locked. Locked is
// terminal; every later transaction for the client, of any kind, is a
// no-op.
func (p *Processor) applyChargeback(ctx context.Context, tx models.Transaction) error {
	acct := p.account(tx.Client)
	if acct.Locked {
		return nil
	}

	entry, ok, err := p.store.Get(ctx, tx.Client, tx.Tx)
	if err != nil {
		return err
	}
	if !ok || !entry.Disputed {
		return nil
	}

	acct.Held = acct.Held.Sub(entry.Amount)
	acct.Total = acct.Total.Sub(entry.Amount)
	acct.Locked = true

	if err := p.store.SetDisputed(ctx, tx.Client, tx.Tx, false); err != nil {
		return err
	}

	p.publishLocked(tx.Client, tx.Tx, entry)
	return nil
}

// Accounts returns a snapshot of all account states, keyed by client id.
func (p *Processor) Accounts() map[models.ClientID]models.AccountState {
	snapshot := make(map[models.ClientID]models.AccountState, len(p.accounts))
	for client, acct := range p.accounts {
		snapshot[client] = *acct
	}
	return snapshot
}

// Account returns a single client's state, with ok == false when the client
// has never appeared in the input.
func (p *Processor) Account(client models.ClientID) (models.AccountState, bool) {
	acct, ok := p.accounts[client]
	if !ok {
		return models.AccountState{}, false
	}
	return *acct, true
}

// publishAccepted emits a TransactionAccepted event. Publish failures are
// logged, never propagated: the ledger is the source of truth and a
// transaction does not fail because its notification did.
func (p *Processor) publishAccepted(tx models.Transaction) {
	if p.publisher == nil {
		return
	}
	err := p.publisher.Publish(EventTransactionAccepted, events.TransactionAccepted{
		EventID:    uuid.New().String(),
		Kind:       string(tx.Kind),
		Client:     uint16(tx.Client),
		Tx:         uint32(tx.Tx),
		Amount:     tx.Amount,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Warn("failed to publish transaction_accepted", zap.Error(err))
	}
}

func (p *Processor) publishLocked(client models.ClientID, tx models.TxID, entry models.LedgerEntry) {
	if p.publisher == nil {
		return
	}
	err := p.publisher.Publish(EventAccountLocked, events.AccountLocked{
		EventID:    uuid.New().String(),
		Client:     uint16(client),
		Tx:         uint32(tx),
		Amount:     entry.Amount,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Warn("failed to publish account_locked", zap.Error(err))
	}
}
