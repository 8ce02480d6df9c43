// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains application-wide constants and the sync error
// taxonomy shared by the store client, the synchronizers and the reference
// remote store.
//
// All Msg* constants are human-readable strings written into HTTP response
// bodies by the remote store handlers.
package app

const (
	// MsgInvalidDataProvided is returned when a request path or body cannot
	// be parsed (e.g. unknown resource kind).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token cannot be
	// verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgResourceNotFound is returned when a specific resource ref or a
	// collection does not exist.
	MsgResourceNotFound = "resource not found"

	// MsgPreconditionFailed is returned when If-Match does not equal the
	// current ref of the resource.
	MsgPreconditionFailed = "there is new data for this resource, make the request again with latest data"

	// MsgPayloadTooLarge is returned when the request body exceeds the
	// configured content limit.
	MsgPayloadTooLarge = "payload too large"

	// MsgMethodNotFound is returned for a known path requested with an
	// unsupported method.
	MsgMethodNotFound = "method not found"
)
