// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the client's background jobs.
//
// It defines the Worker interface and a Workers aggregate that runs all
// workers until the shared context is cancelled or one of them fails.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is done or the job fails;
// returning nil after cancellation is the normal way to stop.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
