// Package ledger implements the per-client account state machine and the
// routing engine that applies an ordered stream of transaction records.
package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acch-2/toy-pay/internal/common"
	"github.com/acch-2/toy-pay/internal/interfaces"
	"github.com/acch-2/toy-pay/internal/models"
	"github.com/acch-2/toy-pay/internal/models/events"
)

// Ledger routes stream records to per-client accounts, creating accounts
// lazily on first reference. A failed record is reported and skipped; it
// never aborts the run or touches unrelated accounts.
//
// Process is safe for concurrent use as long as records for the same client
// arrive from a single goroutine in stream order: account creation is
// insert-if-absent under mapMu, and each account mutates only under its own
// lock from muMap.
type Ledger struct {
	accounts map[uint16]*Account
	muMap    map[uint16]*sync.Mutex // per-account locks
	mapMu    sync.Mutex             // protects accounts and muMap

	logger *common.Logger
	sink   interfaces.EventPublisher // optional
}

// NewLedger creates an empty ledger. The sink may be nil, in which case
// stream events are not published and failures are only logged.
func NewLedger(logger *common.Logger, sink interfaces.EventPublisher) *Ledger {
	return &Ledger{
		accounts: make(map[uint16]*Account),
		muMap:    make(map[uint16]*sync.Mutex),
		logger:   logger,
		sink:     sink,
	}
}

// getOrCreate returns the account and lock for a client, creating both on
// first reference. Insert-if-absent is atomic under mapMu.
func (l *Ledger) getOrCreate(clientID uint16) (*Account, *sync.Mutex) {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	if _, exists := l.accounts[clientID]; !exists {
		l.accounts[clientID] = NewAccount(clientID)
		l.muMap[clientID] = &sync.Mutex{}
	}
	return l.accounts[clientID], l.muMap[clientID]
}

// Process applies one stream record to its client's account. Deposit and
// withdrawal records missing their amount are malformed input and skipped
// without error. Operation failures are logged, published to the sink, and
// returned; the ledger itself is left consistent either way.
func (l *Ledger) Process(ctx context.Context, rec models.Record) error {
	if rec.Kind.HasAmount() && rec.Amount == nil {
		l.logger.Debug().
			Str("kind", string(rec.Kind)).
			Uint16("client", rec.Client).
			Uint32("tx", rec.Tx).
			Msg("Skipping record with missing amount")
		return nil
	}

	account, mu := l.getOrCreate(rec.Client)
	mu.Lock()
	defer mu.Unlock()

	var err error
	switch rec.Kind {
	case models.KindDeposit:
		err = account.Deposit(rec.Tx, *rec.Amount)
	case models.KindWithdrawal:
		err = account.Withdraw(rec.Tx, *rec.Amount)
	case models.KindDispute:
		err = account.Dispute(rec.Tx)
	case models.KindResolve:
		err = account.Resolve(rec.Tx)
	case models.KindChargeback:
		err = account.Chargeback(rec.Tx)
	default:
		l.logger.Debug().
			Str("kind", string(rec.Kind)).
			Uint16("client", rec.Client).
			Msg("Skipping record with unknown kind")
		return nil
	}

	if err != nil {
		l.logger.Warn().
			Err(err).
			Str("kind", string(rec.Kind)).
			Uint16("client", rec.Client).
			Uint32("tx", rec.Tx).
			Msg("Record rejected")
		l.publish(ctx, events.TransactionRejected{
			EventID:    uuid.New().String(),
			Kind:       string(rec.Kind),
			Client:     rec.Client,
			Tx:         rec.Tx,
			Reason:     err.Error(),
			OccurredAt: time.Now().UTC(),
		})
		return err
	}

	l.publish(ctx, events.TransactionAccepted{
		EventID:    uuid.New().String(),
		Kind:       string(rec.Kind),
		Client:     rec.Client,
		Tx:         rec.Tx,
		Amount:     rec.Amount,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

func (l *Ledger) publish(ctx context.Context, event any) {
	if l.sink == nil {
		return
	}
	if err := l.sink.Publish(ctx, event); err != nil {
		l.logger.Error().Err(err).Msg("Failed to publish stream event")
	}
}

// Snapshots returns the final state of every account, sorted by client id.
func (l *Ledger) Snapshots() []models.AccountSnapshot {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	snapshots := make([]models.AccountSnapshot, 0, len(l.accounts))
	for clientID, account := range l.accounts {
		l.muMap[clientID].Lock()
		snapshots = append(snapshots, account.Snapshot())
		l.muMap[clientID].Unlock()
	}

	// Stable report order keyed by client id.
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
	return snapshots
}

// Compile-time check: the ledger feeds the report writer.
var _ interfaces.AccountSource = (*Ledger)(nil)
