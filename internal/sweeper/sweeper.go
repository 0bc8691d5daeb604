package sweeper

import (
	"context"
)

// Sweeper defines the interface for sweeper implementations
// Sweepers are long-running background tasks that keep the mirror in line with the ledger
type Sweeper interface {
	// Start begins the sweeper's main loop
	// This is a blocking call that runs until the context is canceled or Stop is called
	Start(ctx context.Context) error

	// Stop gracefully stops the sweeper
	// This waits for the in-flight batch to complete
	Stop(ctx context.Context) error

	// Name returns the sweeper's name for logging and identification
	Name() string
}
