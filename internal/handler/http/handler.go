// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/logger"
	"github.com/MKhiriev/go-settings-sync/internal/service"
	"github.com/MKhiriev/go-settings-sync/internal/utils"
)

// RequestLimiter decides whether a user may issue another request. A denial
// is answered with 429 and a Retry-After of retryAfter (rounded up to whole
// seconds; zero omits the header).
type RequestLimiter interface {
	Allow(userID string) (retryAfter time.Duration, ok bool)
}

type Handler struct {
	services *service.Services
	ids      utils.IDGenerator
	limiter  RequestLimiter

	logger *logger.Logger
}

// Option customizes the handler.
type Option func(*Handler)

// WithRequestLimiter installs a per-user request limiter on the /v1 routes.
func WithRequestLimiter(l RequestLimiter) Option {
	return func(h *Handler) {
		h.limiter = l
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services: services,
		ids:      utils.NewUUIDGenerator(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Msg("http handler created")
	return h
}
