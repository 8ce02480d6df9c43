// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-settings-sync/internal/app"
)

// RequestThrottler is an [http.RoundTripper] that allows at most limit
// requests per interval. The window starts with the first request and is
// reset once it has expired. Requests over the budget fail with
// LocalTooManyRequests and never reach the wrapped transport.
type RequestThrottler struct {
	next     http.RoundTripper
	limit    int
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	count     int
	startTime time.Time
}

// NewRequestThrottler wraps next. A nil next uses http.DefaultTransport.
func NewRequestThrottler(next http.RoundTripper, limit int, interval time.Duration) *RequestThrottler {
	if next == nil {
		next = http.DefaultTransport
	}
	return &RequestThrottler{
		next:     next,
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (t *RequestThrottler) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.acquire(); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, app.NewStoreError(
			app.CodeLocalTooManyRequests,
			fmt.Sprintf("too many requests: %d requests allowed per %s", t.limit, t.interval),
			req.URL.String(), 0, "",
		)
	}

	return t.next.RoundTrip(req)
}

func (t *RequestThrottler) acquire() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if !t.startTime.IsZero() && now.Sub(t.startTime) > t.interval {
		t.count = 0
		t.startTime = time.Time{}
	}
	if t.count >= t.limit {
		return app.ErrLocalTooManyRequests
	}
	if t.startTime.IsZero() {
		t.startTime = now
	}
	t.count++

	return nil
}
