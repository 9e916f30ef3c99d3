// Package delivery defines the contract shared by all transport servers.
package delivery

import "context"

// Delivery is implemented by transport servers (HTTP, workers) so the
// application entrypoint can start them uniformly.
type Delivery interface {
	// Serve blocks until the server stops or the context is cancelled.
	Serve(ctx context.Context) error
}
