// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the /v1 wire protocol of the remote store.
//
// It exposes route wiring, request handlers, and middleware. Operation ids,
// access logging, response compression, authentication and request limiting
// are handled in this package before requests are delegated to the service
// layer.
package http
