package interfaces

import "context"

// EventPublisher is the diagnostics sink the ledger reports stream events
// to: one event per applied operation, one per rejected record. Publish
// must not fail the ledger run; implementations report their own errors.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
