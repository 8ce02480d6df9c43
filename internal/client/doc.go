// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client runtime.
//
// It wires the sync services and the background workers into a single
// process lifecycle: one sync pass at startup, then manifest polling and
// local change watching until the process is asked to stop.
package client
