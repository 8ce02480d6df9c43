// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker

	logger *logger.Logger
}

func NewWorkers(logger *logger.Logger, workers ...Worker) *Workers {
	return &Workers{workers: workers, logger: logger}
}

// Run starts every worker and waits for all of them. The first failure
// cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		w.logger.Err(err).Msg("worker failed")
	}
	return err
}

// NewAutoSyncWorker polls the remote store every interval through job.
func NewAutoSyncWorker(job service.AutoSyncJob, interval time.Duration) Worker {
	return WorkerFunc(func(ctx context.Context) error {
		return job.Run(ctx, interval)
	})
}

// NewLocalWatchWorker forwards local data changes to job.
func NewLocalWatchWorker(job service.AutoSyncJob) Worker {
	return WorkerFunc(job.WatchLocal)
}
