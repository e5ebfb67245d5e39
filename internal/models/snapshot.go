package models

import "github.com/shopspring/decimal"

// AccountSnapshot is the reporting view of one account at end of run.
type AccountSnapshot struct {
	Client    uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}
