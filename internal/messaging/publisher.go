package messaging

import (
	"context"

	"github.com/feral-file/ff-smartdial/internal/domain"
)

// Publisher defines the interface for publishing index-changed notifications to a message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishIndexChanged publishes the notification of a completed sync pass
	PublishIndexChanged(ctx context.Context, event *domain.IndexChanged) error
	// Close closes the connection
	Close()
}
