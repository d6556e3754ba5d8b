// Package server defines the lifecycle contract shared by the transports the
// fx modules start and stop.
package server

import "context"

// Server is started once on application start and stopped on shutdown.
// Start must return after the server is accepting connections.
type Server interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Addr() string
}
