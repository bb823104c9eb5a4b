package models

import "github.com/shopspring/decimal"

// AccountState is the running state of one client account.
// Total always equals Available + Held; handlers update it in lockstep.
type AccountState struct {
	Available decimal.Decimal `json:"available"` // funds usable by the client
	Held      decimal.Decimal `json:"held"`      // funds frozen pending dispute resolution
	Total     decimal.Decimal `json:"total"`     // Available + Held
	Locked    bool            `json:"locked"`    // true once a chargeback has been applied
}
