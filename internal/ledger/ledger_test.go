package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acch-2/toy-pay/internal/common"
	"github.com/acch-2/toy-pay/internal/models"
	"github.com/acch-2/toy-pay/internal/models/events"
)

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu     sync.Mutex
	events []any
}

func (c *capturePublisher) Publish(_ context.Context, event any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func newTestLedger(sink *capturePublisher) *Ledger {
	if sink == nil {
		return NewLedger(common.NewSilentLogger(), nil)
	}
	return NewLedger(common.NewSilentLogger(), sink)
}

func record(kind models.RecordKind, client uint16, tx uint32, amount string) models.Record {
	rec := models.Record{Kind: kind, Client: client, Tx: tx}
	if amount != "" {
		d := decimal.RequireFromString(amount)
		rec.Amount = &d
	}
	return rec
}

func TestLedgerLazyAccountCreation(t *testing.T) {
	l := newTestLedger(nil)
	ctx := context.Background()

	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 2, 1, "5.0000")))
	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 1, 2, "2.0000")))

	snaps := l.Snapshots()
	require.Len(t, snaps, 2)
	assert.Equal(t, uint16(1), snaps[0].Client, "snapshots must be sorted by client id")
	assert.Equal(t, uint16(2), snaps[1].Client)
	assert.True(t, snaps[0].Total.Equal(decimal.RequireFromString("2.0000")))
	assert.True(t, snaps[1].Total.Equal(decimal.RequireFromString("5.0000")))
}

func TestLedgerSkipsMissingAmount(t *testing.T) {
	l := newTestLedger(nil)
	ctx := context.Background()

	// A deposit without an amount is malformed input, not a failure: it is
	// dropped without creating the account.
	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 1, 1, "")))
	require.NoError(t, l.Process(ctx, record(models.KindWithdrawal, 1, 2, "")))

	assert.Empty(t, l.Snapshots())
}

func TestLedgerContinuesAfterFailure(t *testing.T) {
	l := newTestLedger(nil)
	ctx := context.Background()

	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 1, 1, "3.0000")))

	err := l.Process(ctx, record(models.KindWithdrawal, 1, 2, "4.0000"))
	var notEnough NotEnoughCreditError
	require.ErrorAs(t, err, &notEnough)

	// The failure affects nothing else: the next record still applies.
	require.NoError(t, l.Process(ctx, record(models.KindWithdrawal, 1, 3, "1.0000")))

	snaps := l.Snapshots()
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].Available.Equal(decimal.RequireFromString("2.0000")))
}

func TestLedgerPublishesStreamEvents(t *testing.T) {
	sink := &capturePublisher{}
	l := newTestLedger(sink)
	ctx := context.Background()

	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 1, 1, "3.0000")))
	require.Error(t, l.Process(ctx, record(models.KindDispute, 1, 99, "")))

	require.Len(t, sink.events, 2)

	accepted, ok := sink.events[0].(events.TransactionAccepted)
	require.True(t, ok, "first event should be TransactionAccepted")
	assert.Equal(t, "deposit", accepted.Kind)
	assert.Equal(t, uint16(1), accepted.Client)
	assert.NotEmpty(t, accepted.EventID)

	rejected, ok := sink.events[1].(events.TransactionRejected)
	require.True(t, ok, "second event should be TransactionRejected")
	assert.Equal(t, uint32(99), rejected.Tx)
	assert.Contains(t, rejected.Reason, "does not have associated the transaction")
}

func TestLedgerChargebackFreezesClient(t *testing.T) {
	l := newTestLedger(nil)
	ctx := context.Background()

	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 1, 1, "3.0000")))
	require.NoError(t, l.Process(ctx, record(models.KindDispute, 1, 1, "")))
	require.NoError(t, l.Process(ctx, record(models.KindChargeback, 1, 1, "")))

	err := l.Process(ctx, record(models.KindDeposit, 1, 2, "1.0000"))
	var locked LockedAccountError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, uint16(1), locked.Client)

	snaps := l.Snapshots()
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].Locked)
	assert.True(t, snaps[0].Total.IsZero())
	assert.True(t, snaps[0].Held.IsZero())
}

func TestLedgerIndependentClients(t *testing.T) {
	l := newTestLedger(nil)
	ctx := context.Background()

	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 1, 1, "3.0000")))
	require.NoError(t, l.Process(ctx, record(models.KindDeposit, 2, 2, "3.0000")))
	require.NoError(t, l.Process(ctx, record(models.KindDispute, 1, 1, "")))
	require.NoError(t, l.Process(ctx, record(models.KindChargeback, 1, 1, "")))

	// Client 2 is untouched by client 1's chargeback.
	require.NoError(t, l.Process(ctx, record(models.KindWithdrawal, 2, 3, "1.0000")))

	snaps := l.Snapshots()
	require.Len(t, snaps, 2)
	assert.True(t, snaps[0].Locked)
	assert.False(t, snaps[1].Locked)
	assert.True(t, snaps[1].Available.Equal(decimal.RequireFromString("2.0000")))
}

func TestLedgerConcurrentClientStreams(t *testing.T) {
	l := newTestLedger(nil)
	ctx := context.Background()

	const clients = 16
	const depositsPerClient = 50

	var wg sync.WaitGroup
	for c := 1; c <= clients; c++ {
		wg.Add(1)
		go func(client uint16) {
			defer wg.Done()
			for i := 0; i < depositsPerClient; i++ {
				_ = l.Process(ctx, record(models.KindDeposit, client, uint32(i+1), "0.1000"))
			}
		}(uint16(c))
	}
	wg.Wait()

	snaps := l.Snapshots()
	require.Len(t, snaps, clients)
	want := decimal.RequireFromString("5.0000")
	for _, snap := range snaps {
		assert.True(t, snap.Total.Equal(want), "client %d total = %s", snap.Client, snap.Total)
	}
}
