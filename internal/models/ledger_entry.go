package models

import "github.com/shopspring/decimal"

// LedgerEntry is the historized form of a deposit or withdrawal.
// The amount is kept alongside the dispute flag so a later dispute can
// reconstruct it even after the funds have already left the account.
type LedgerEntry struct {
	Amount   decimal.Decimal // as originally submitted
	Disputed bool            // true while a dispute is open on this entry
}
