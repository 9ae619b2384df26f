package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-smartdial/internal/adapter"
	"github.com/feral-file/ff-smartdial/internal/domain"
	"github.com/feral-file/ff-smartdial/internal/logger"
)

const (
	USER_AGENT = "FF-SmartDial-Webhook/1.0"

	// DELIVERY_CONCURRENCY bounds parallel deliveries across endpoints
	DELIVERY_CONCURRENCY = 4
	DELIVERY_TIMEOUT     = 30 * time.Second
)

// Notifier delivers signed index-changed events to webhook endpoints
type Notifier struct {
	endpoints  []Endpoint
	httpClient adapter.HTTPClient
	json       adapter.JSON
	clock      adapter.Clock
	pool       pond.Pool
}

// NewNotifier creates a notifier. HTTP retries are left to httpClient.
func NewNotifier(endpoints []Endpoint, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, clock adapter.Clock) *Notifier {
	return &Notifier{
		endpoints:  endpoints,
		httpClient: httpClient,
		json:       jsonAdapter,
		clock:      clock,
		pool:       pond.NewPool(DELIVERY_CONCURRENCY),
	}
}

// NotifyIndexChanged queues delivery of changed to every subscribed endpoint and returns immediately
func (n *Notifier) NotifyIndexChanged(changed domain.IndexChanged) {
	event := NewIndexChangedEvent(changed)
	for _, endpoint := range n.endpoints {
		if !endpoint.Accepts(event.EventType) {
			continue
		}
		n.pool.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), DELIVERY_TIMEOUT)
			defer cancel()
			if err := n.Deliver(ctx, endpoint, event); err != nil {
				logger.ErrorCtx(ctx, err,
					zap.String("url", endpoint.URL),
					zap.String("eventID", event.EventID))
			}
		})
	}
}

// Deliver signs event and posts it to endpoint
func (n *Notifier) Deliver(ctx context.Context, endpoint Endpoint, event WebhookEvent) error {
	payload, signature, timestamp, err := GenerateSignedPayload(n.json, endpoint.Secret, event, n.clock.Now())
	if err != nil {
		return err
	}

	headers := map[string]string{
		"X-Webhook-Signature":  signature,
		"X-Webhook-Event-ID":   event.EventID,
		"X-Webhook-Event-Type": event.EventType,
		"X-Webhook-Timestamp":  fmt.Sprintf("%d", timestamp),
		"User-Agent":           USER_AGENT,
	}

	if err := n.httpClient.Post(ctx, endpoint.URL, headers, json.RawMessage(payload), nil); err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}

	logger.InfoCtx(ctx, "Webhook delivered",
		zap.String("url", endpoint.URL),
		zap.String("eventID", event.EventID))
	return nil
}

// Close waits for queued deliveries
func (n *Notifier) Close() {
	n.pool.StopAndWait()
}
