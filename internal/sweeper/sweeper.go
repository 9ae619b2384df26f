package sweeper

import (
	"context"
)

// Sweeper is a background loop owned by the service process
type Sweeper interface {
	// Start runs the loop and blocks until ctx is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop ends the loop and waits for the current iteration
	Stop(ctx context.Context) error

	// Name identifies the sweeper in logs
	Name() string
}
