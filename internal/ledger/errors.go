package ledger

import "fmt"

// LockedAccountError reports a mutating operation against a frozen account.
type LockedAccountError struct {
	Client uint16
}

func (e LockedAccountError) Error() string {
	return fmt.Sprintf("client %d has the account locked, no operations are allowed", e.Client)
}

// TransactionDoesNotExistError reports a dispute, resolve or chargeback
// referencing a transaction id the account never recorded.
type TransactionDoesNotExistError struct {
	Client uint16
	Tx     uint32
}

func (e TransactionDoesNotExistError) Error() string {
	return fmt.Sprintf("client %d does not have associated the transaction %d", e.Client, e.Tx)
}

// NotEnoughCreditError reports a withdrawal exceeding available funds.
type NotEnoughCreditError struct {
	Client uint16
}

func (e NotEnoughCreditError) Error() string {
	return fmt.Sprintf("client %d does not have enough credit for the requested withdrawal", e.Client)
}

// TransactionNotDisputedError reports a resolve or chargeback against a
// transaction that is not currently under dispute.
type TransactionNotDisputedError struct {
	Tx     uint32
	Client uint16
}

func (e TransactionNotDisputedError) Error() string {
	return fmt.Sprintf("transaction %d for client %d is not disputed", e.Tx, e.Client)
}
