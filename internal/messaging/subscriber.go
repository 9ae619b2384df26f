package messaging

import (
	"context"

	"github.com/feral-file/ff-smartdial/internal/domain"
)

// IndexChangedHandler is called for every index-changed notification received
type IndexChangedHandler func(event *domain.IndexChanged) error

// Subscriber defines the interface for receiving index-changed notifications
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Subscribe delivers notifications to handler until ctx is canceled
	Subscribe(ctx context.Context, handler IndexChangedHandler) error
	// Close closes the connection
	Close()
}
