// Package relay drains the outbox table onto the broker. It provides
// at-least-once delivery: an entry is marked PUBLISHED only after the broker
// has accepted it, so a crash in between republishes on the next tick.
package relay

import (
	"context"
	"time"

	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
	"github.com/rs/zerolog"
)

// Source is the outbox side of the relay contract.
type Source interface {
	UnpublishedEvents(ctx context.Context, limit int) ([]outbox.Entry, error)
	MarkEventPublished(ctx context.Context, id int64) error
}

// Publisher is the broker side of the relay contract.
type Publisher interface {
	Publish(ctx context.Context, entry outbox.Entry) error
	Close() error
}

type Poller struct {
	tick   time.Duration
	batch  int
	source Source
	pub    Publisher
	log    zerolog.Logger
}

func NewPoller(source Source, pub Publisher, logger zerolog.Logger) *Poller {
	return &Poller{
		tick:   time.Second,
		batch:  100,
		source: source,
		pub:    pub,
		log:    logger.With().Str("component", "outbox-relay").Logger(),
	}
}

func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.drain(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) drain(ctx context.Context) {
	entries, err := p.source.UnpublishedEvents(ctx, p.batch)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to fetch unpublished events")
		return
	}

	for _, entry := range entries {
		if err := p.pub.Publish(ctx, entry); err != nil {
			p.log.Error().Err(err).Int64("event_id", entry.ID).
				Str("event_type", entry.EventType).Msg("failed to publish event")
			continue
		}

		// Publish before mark: a crash right here means the event goes
		// out again on restart, which consumers must tolerate anyway.
		if err := p.source.MarkEventPublished(ctx, entry.ID); err != nil {
			p.log.Error().Err(err).Int64("event_id", entry.ID).
				Msg("failed to mark event as published")
			continue
		}

		p.log.Info().Int64("event_id", entry.ID).
			Str("event_type", entry.EventType).Msg("event published")
	}
}
