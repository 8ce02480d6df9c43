// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-settings-sync/internal/app"
)

// HeaderOperationID is the response header carrying the server's id of the
// request.
const HeaderOperationID = "X-Operation-Id"

// mapTransportError classifies a failure that produced no response.
func mapTransportError(err error, method, url string) *app.SyncError {
	var syncErr *app.SyncError
	if errors.As(err, &syncErr) {
		return syncErr
	}

	code := app.CodeRequestFailed
	msg := strings.ToLower(err.Error())

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		code = app.CodeRequestCanceled
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout(),
		strings.Contains(msg, "timeout"):
		code = app.CodeRequestTimeout
	case strings.Contains(msg, "unsupported protocol scheme"):
		code = app.CodeRequestProtocolNotSupported
	case strings.Contains(msg, "invalid url escape"),
		strings.Contains(msg, "invalid control character in url"):
		code = app.CodeRequestPathNotEscaped
	case strings.Contains(msg, "invalid header field"):
		code = app.CodeRequestHeadersNotObject
	}

	return app.NewStoreError(code, fmt.Sprintf("connection refused for the request %s %s: %v", method, url, err), url, 0, "")
}

// mapHTTPError maps a response status to the error taxonomy. It returns nil
// for 2xx and for any status listed in successCodes. 401 and 403 are handled
// by the caller before this is reached.
func mapHTTPError(method, url string, statusCode int, header http.Header, body []byte, successCodes ...int) *app.SyncError {
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}
	for _, c := range successCodes {
		if c == statusCode {
			return nil
		}
	}

	operationID := header.Get(HeaderOperationID)
	request := fmt.Sprintf("%s request '%s'", method, url)
	newErr := func(code app.ErrorCode, msg string) *app.SyncError {
		return app.NewStoreError(code, msg, url, statusCode, operationID)
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return newErr(app.CodeUnauthorized, request+" failed because of Unauthorized (401).")
	case http.StatusForbidden:
		return newErr(app.CodeForbidden, request+" failed because the access is forbidden (403).")
	case http.StatusNotFound:
		return newErr(app.CodeNotFound, request+" failed because the requested resource is not found (404).")
	case http.StatusMethodNotAllowed:
		return newErr(app.CodeMethodNotFound, strings.TrimSpace(request+" failed because the requested endpoint is not found (405). "+string(body)))
	case http.StatusConflict:
		return newErr(app.CodeConflict, request+" failed because of Conflict (409). There is new data for this resource. Make the request again with latest data.")
	case http.StatusGone:
		return newErr(app.CodeGone, request+" failed because the requested resource is not longer available (410).")
	case http.StatusPreconditionFailed:
		return newErr(app.CodePreconditionFailed, request+" failed because of Precondition Failed (412). There is new data for this resource. Make the request again with latest data.")
	case http.StatusRequestEntityTooLarge:
		return newErr(app.CodeTooLarge, request+" failed because of too large payload (413).")
	case http.StatusUpgradeRequired:
		return newErr(app.CodeUpgradeRequired, request+" failed with status Upgrade Required (426). Please upgrade the client and try again.")
	case http.StatusTooManyRequests:
		if header.Get("Retry-After") != "" {
			return newErr(app.CodeTooManyRequestsAndRetryAfter, request+" failed because of too many requests (429).")
		}
		return newErr(app.CodeTooManyRequests, request+" failed because of too many requests (429).")
	}

	return newErr(app.CodeUnknown, fmt.Sprintf("server returned %d", statusCode))
}
