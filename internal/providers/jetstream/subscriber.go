package jetstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/logger"
	"github.com/feral-file/ff-smartdial/internal/messaging"
)

type subscriber struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	json       adapter.JSON
	streamName string
	consumer   string
}

// NewSubscriber creates a new NATS JetStream subscriber for index-changed notifications.
// An empty ConsumerName creates an ephemeral consumer that only sees new notifications.
func NewSubscriber(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Subscriber, error) {
	nc, js, err := connect(ctx, cfg, natsJS)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		nc:         nc,
		js:         js,
		json:       jsonAdapter,
		streamName: cfg.StreamName,
		consumer:   cfg.ConsumerName,
	}, nil
}

// Subscribe consumes notifications until ctx is canceled
func (s *subscriber) Subscribe(ctx context.Context, handler messaging.IndexChangedHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.streamName, jetstream.ConsumerConfig{
		Durable:       s.consumer,
		FilterSubject: domain.INDEX_CHANGED_SUBJECT,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	cc, err := consumer.Consume(func(msg adapter.Message) {
		s.handle(ctx, msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	select {
	case <-ctx.Done():
		cc.Stop()
		return nil
	case <-cc.Closed():
		return errors.New("consumer closed unexpectedly")
	}
}

func (s *subscriber) handle(ctx context.Context, msg adapter.Message, handler messaging.IndexChangedHandler) {
	var event domain.IndexChanged
	if err := s.json.Unmarshal(msg.Data(), &event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to unmarshal index changed event: %w", err),
			zap.String("subject", msg.Subject()))
		// a malformed message will never decode, drop it
		if err := msg.Term(); err != nil {
			logger.WarnCtx(ctx, "Failed to terminate message", zap.Error(err))
		}
		return
	}

	if err := handler(&event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("event_id", event.EventID))
		if err := msg.Nak(); err != nil {
			logger.WarnCtx(ctx, "Failed to nak message", zap.Error(err))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.WarnCtx(ctx, "Failed to ack message", zap.Error(err))
	}
}

// Close closes the NATS connection
func (s *subscriber) Close() {
	if s.nc == nil {
		return
	}

	s.nc.Close()
}
