package models

import "github.com/shopspring/decimal"

// RecordKind identifies the operation a stream record requests.
type RecordKind string

const (
	KindDeposit    RecordKind = "deposit"
	KindWithdrawal RecordKind = "withdrawal"
	KindDispute    RecordKind = "dispute"
	KindResolve    RecordKind = "resolve"
	KindChargeback RecordKind = "chargeback"
)

// ValidRecordKind reports whether k is one of the five operation kinds.
func ValidRecordKind(k RecordKind) bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return true
	}
	return false
}

// HasAmount reports whether records of this kind carry an amount field.
// Dispute, resolve and chargeback reference an existing transaction and
// carry only client and tx ids.
func (k RecordKind) HasAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Record is one typed row of the input stream: an operation intent against
// a client's account. Amount is nil when the input row had no amount field.
type Record struct {
	Kind   RecordKind
	Client uint16
	Tx     uint32
	Amount *decimal.Decimal
}
