// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient embeds *resty.Client so all of its methods are available.
type HTTPClient struct {
	*resty.Client
}

// HTTPClientOption configures an HTTPClient at construction time.
type HTTPClientOption func(*resty.Client)

// WithBaseURL sets the base URL, trimming a trailing slash.
func WithBaseURL(baseURL string) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}
}

// WithTimeout sets the overall request timeout. Zero keeps resty's default.
func WithTimeout(timeout time.Duration) HTTPClientOption {
	return func(c *resty.Client) {
		if timeout > 0 {
			c.SetTimeout(timeout)
		}
	}
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) HTTPClientOption {
	return func(c *resty.Client) {
		if rt != nil {
			c.SetTransport(rt)
		}
	}
}

// WithHeaders sets headers sent with every request.
func WithHeaders(headers map[string]string) HTTPClientOption {
	return func(c *resty.Client) {
		c.SetHeaders(headers)
	}
}

// NewHTTPClient returns an independent client with its own connection pool.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.WithBaseURL("http://localhost:8080/v1"))
//	resp, err := client.R().Get("/manifest")
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	c := resty.New()
	for _, opt := range opts {
		opt(c)
	}
	return &HTTPClient{Client: c}
}
