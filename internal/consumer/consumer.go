// Package consumer receives broker deliveries and applies them onto local
// order state. The acknowledgement contract: an offset is committed only
// after the database transaction has committed, so a crash in between leads
// to redelivery, never to a lost update. Handlers are therefore idempotent.
package consumer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// ErrDrop marks a message as permanently unprocessable: it is acknowledged
// and dropped instead of redelivered. Malformed payloads fall here, because
// a payload that does not decode will never decode on retry.
var ErrDrop = errors.New("message dropped")

// Handler processes one raw delivery. A nil return or ErrDrop acknowledges
// the message; any other error leaves it uncommitted for redelivery.
type Handler func(ctx context.Context, message []byte) error

type Pipeline struct {
	brokers    []string
	groupID    string
	handlers   map[string]Handler
	retryDelay time.Duration
	log        zerolog.Logger
	wg         sync.WaitGroup
}

func NewPipeline(logger zerolog.Logger, groupID string, brokers ...string) *Pipeline {
	return &Pipeline{
		brokers:    brokers,
		groupID:    groupID,
		handlers:   make(map[string]Handler),
		retryDelay: time.Second,
		log:        logger.With().Str("component", "consumer").Logger(),
	}
}

// Register binds a routing key to its handler. Must be called before Run.
func (p *Pipeline) Register(routingKey string, h Handler) {
	p.handlers[routingKey] = h
}

// Run starts one reader per routing key. Different routing keys process
// concurrently; ordering within one key is whatever the broker preserves.
// Run returns once ctx is cancelled and all readers have drained.
func (p *Pipeline) Run(ctx context.Context) {
	for key, handler := range p.handlers {
		p.wg.Add(1)
		go p.consume(ctx, key, handler)
	}
	p.wg.Wait()
}

func (p *Pipeline) consume(ctx context.Context, routingKey string, handler Handler) {
	defer p.wg.Done()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  p.brokers,
		Topic:    routingKey,
		GroupID:  p.groupID,
		MaxBytes: 10e6, // 10MB
	})
	defer reader.Close()

	log := p.log.With().Str("routing_key", routingKey).Logger()
	log.Info().Msg("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("consumer stopped")
				return
			}
			log.Error().Err(err).Msg("failed to fetch message")
			time.Sleep(time.Second)
			continue
		}

		if !p.process(ctx, log, handler, msg.Value) {
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("failed to commit offset")
		}
	}
}

// process applies the handler to one message, retrying the same message on
// retryable errors. Offset commits are positional: committing any later
// message would implicitly acknowledge this one too, so the loop must not
// move on until the message is applied or dropped. Returns false only when
// ctx is cancelled, in which case the offset stays uncommitted and the
// broker redelivers.
func (p *Pipeline) process(ctx context.Context, log zerolog.Logger, handler Handler, message []byte) bool {
	for {
		err := handler(ctx, message)
		switch {
		case err == nil:
			return true
		case errors.Is(err, ErrDrop):
			log.Warn().Err(err).Msg("dropping message")
			return true
		}

		log.Error().Err(err).Msg("failed to process message, retrying")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.retryDelay):
		}
	}
}
