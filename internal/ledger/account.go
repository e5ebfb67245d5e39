package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/acch-2/toy-pay/internal/models"
)

// Transaction is a stored deposit or withdrawal fact. Only deposits and
// withdrawals are recorded; dispute, resolve and chargeback reference an
// existing record by id and mutate nothing but its dispute flag.
type Transaction struct {
	ID       uint32
	Amount   decimal.Decimal
	Disputed bool
}

// Account is the per-client state machine. It owns the client's recorded
// transactions and three running balances, and enforces the invariant
// total = available + held after every operation.
//
// An account has two states: active and frozen (locked). Frozen is terminal;
// every operation on a frozen account fails with LockedAccountError and
// mutates nothing.
type Account struct {
	clientID     uint16
	available    decimal.Decimal
	held         decimal.Decimal
	total        decimal.Decimal
	locked       bool
	transactions map[uint32]*Transaction
}

// NewAccount creates an active account with zero balances.
func NewAccount(clientID uint16) *Account {
	return &Account{
		clientID:     clientID,
		available:    decimal.Zero,
		held:         decimal.Zero,
		total:        decimal.Zero,
		transactions: make(map[uint32]*Transaction),
	}
}

// Deposit records a credit and adds its amount to available and total.
func (a *Account) Deposit(txID uint32, amount decimal.Decimal) error {
	if a.locked {
		return LockedAccountError{Client: a.clientID}
	}

	a.transactions[txID] = &Transaction{ID: txID, Amount: amount}
	a.total = a.total.Add(amount)
	a.available = a.available.Add(amount)
	return nil
}

// Withdraw records a debit and subtracts its amount from available and
// total. It fails with NotEnoughCreditError, mutating nothing, when the
// available balance does not cover the amount.
func (a *Account) Withdraw(txID uint32, amount decimal.Decimal) error {
	if a.locked {
		return LockedAccountError{Client: a.clientID}
	}
	if a.available.LessThan(amount) {
		return NotEnoughCreditError{Client: a.clientID}
	}

	a.transactions[txID] = &Transaction{ID: txID, Amount: amount}
	a.total = a.total.Sub(amount)
	a.available = a.available.Sub(amount)
	return nil
}

// Dispute freezes the referenced transaction's amount, moving it from
// available to held. Disputing a transaction already under dispute is a
// no-op: the funds were moved when the first dispute arrived and moving
// them again would double-count the hold.
func (a *Account) Dispute(txID uint32) error {
	if a.locked {
		return LockedAccountError{Client: a.clientID}
	}

	tx, ok := a.transactions[txID]
	if !ok {
		return TransactionDoesNotExistError{Client: a.clientID, Tx: txID}
	}
	if tx.Disputed {
		return nil
	}

	tx.Disputed = true
	a.held = a.held.Add(tx.Amount)
	a.available = a.available.Sub(tx.Amount)
	return nil
}

// Resolve cancels a dispute, releasing the held amount back to available.
func (a *Account) Resolve(txID uint32) error {
	if a.locked {
		return LockedAccountError{Client: a.clientID}
	}

	tx, ok := a.transactions[txID]
	if !ok {
		return TransactionDoesNotExistError{Client: a.clientID, Tx: txID}
	}
	if !tx.Disputed {
		return TransactionNotDisputedError{Tx: txID, Client: a.clientID}
	}

	tx.Disputed = false
	a.held = a.held.Sub(tx.Amount)
	a.available = a.available.Add(tx.Amount)
	return nil
}

// Chargeback confirms a dispute: the held amount is removed from the account
// entirely (held and total both drop, available is untouched) and the
// account is permanently frozen.
func (a *Account) Chargeback(txID uint32) error {
	if a.locked {
		return LockedAccountError{Client: a.clientID}
	}

	tx, ok := a.transactions[txID]
	if !ok {
		return TransactionDoesNotExistError{Client: a.clientID, Tx: txID}
	}
	if !tx.Disputed {
		return TransactionNotDisputedError{Tx: txID, Client: a.clientID}
	}

	tx.Disputed = false
	a.held = a.held.Sub(tx.Amount)
	a.total = a.total.Sub(tx.Amount)
	a.locked = true
	return nil
}

// Snapshot returns the reporting view of the account.
func (a *Account) Snapshot() models.AccountSnapshot {
	return models.AccountSnapshot{
		Client:    a.clientID,
		Available: a.available,
		Held:      a.held,
		Total:     a.total,
		Locked:    a.locked,
	}
}
