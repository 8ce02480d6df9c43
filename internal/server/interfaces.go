// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server defines the lifecycle contract of the remote store server.
type Server interface {
	// RunServer serves requests until ctx is cancelled or SIGINT, SIGTERM or
	// SIGQUIT arrives, then shuts down gracefully. It returns early with the
	// error of a server that failed to start.
	RunServer(ctx context.Context) error

	// Shutdown stops accepting connections and waits for in-flight requests
	// until ctx expires.
	Shutdown(ctx context.Context) error
}
