// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrNoHandler is returned by NewServer when no HTTP handler was built.
	ErrNoHandler = errors.New("server: no http handler")
	// ErrNoAddress is returned by NewServer when the listen address is empty.
	ErrNoAddress = errors.New("server: empty http address")
)
