// Package logsink publishes stream events as structured log lines. It is
// the default diagnostics sink, keeping the CLI free of external services.
package logsink

import (
	"context"

	"github.com/acch-2/toy-pay/internal/common"
	"github.com/acch-2/toy-pay/internal/interfaces"
	"github.com/acch-2/toy-pay/internal/models/events"
)

type Publisher struct {
	logger *common.Logger
}

func NewPublisher(logger *common.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(_ context.Context, event any) error {
	switch e := event.(type) {
	case events.TransactionAccepted:
		evt := p.logger.Info().
			Str("event_id", e.EventID).
			Str("kind", e.Kind).
			Uint16("client", e.Client).
			Uint32("tx", e.Tx)
		if e.Amount != nil {
			evt = evt.Str("amount", e.Amount.String())
		}
		evt.Msg("Transaction accepted")
	case events.TransactionRejected:
		p.logger.Warn().
			Str("event_id", e.EventID).
			Str("kind", e.Kind).
			Uint16("client", e.Client).
			Uint32("tx", e.Tx).
			Str("reason", e.Reason).
			Msg("Transaction rejected")
	default:
		p.logger.Info().Interface("event", event).Msg("Stream event")
	}
	return nil
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
