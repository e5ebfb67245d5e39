package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionAccepted is emitted after an operation mutates an account.
type TransactionAccepted struct {
	EventID    string           `json:"event_id"`
	Kind       string           `json:"kind"`
	Client     uint16           `json:"client"`
	Tx         uint32           `json:"tx"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// TransactionRejected is emitted when an operation is refused; the account
// is unchanged and processing continues with the next record.
type TransactionRejected struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	Client     uint16    `json:"client"`
	Tx         uint32    `json:"tx"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
