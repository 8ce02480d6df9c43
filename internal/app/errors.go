// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-settings-sync/models"
)

// ErrorCode is the closed set of sync failure kinds.
type ErrorCode string

const (
	CodeNoRef                        ErrorCode = "NoRef"
	CodeEmptyResponse                ErrorCode = "EmptyResponse"
	CodeNoCollection                 ErrorCode = "NoCollection"
	CodeUnauthorized                 ErrorCode = "Unauthorized"
	CodeForbidden                    ErrorCode = "Forbidden"
	CodeNotFound                     ErrorCode = "NotFound"
	CodeMethodNotFound               ErrorCode = "MethodNotFound"
	CodeConflict                     ErrorCode = "Conflict"
	CodeGone                         ErrorCode = "Gone"
	CodePreconditionFailed           ErrorCode = "PreconditionFailed"
	CodeTooLarge                     ErrorCode = "TooLarge"
	CodeUpgradeRequired              ErrorCode = "UpgradeRequired"
	CodeTooManyRequestsAndRetryAfter ErrorCode = "TooManyRequestsAndRetryAfter"
	CodeTooManyRequests              ErrorCode = "RemoteTooManyRequests"
	CodeLocalTooManyRequests         ErrorCode = "LocalTooManyRequests"
	CodeTooManyProfiles              ErrorCode = "LocalTooManyProfiles"
	CodeRequestFailed                ErrorCode = "RequestFailed"
	CodeRequestTimeout               ErrorCode = "RequestTimeout"
	CodeRequestProtocolNotSupported  ErrorCode = "RequestProtocolNotSupported"
	CodeRequestPathNotEscaped        ErrorCode = "RequestPathNotEscaped"
	CodeRequestHeadersNotObject      ErrorCode = "RequestHeadersNotObject"
	CodeRequestCanceled              ErrorCode = "RequestCanceled"
	CodeIncompatibleRemoteContent    ErrorCode = "IncompatibleRemoteContent"
	CodeIncompatibleLocalContent     ErrorCode = "IncompatibleLocalContent"
	CodeLocalInvalidContent          ErrorCode = "LocalInvalidContent"
	CodeLocalError                   ErrorCode = "LocalError"
	CodeUnknown                      ErrorCode = "Unknown"
)

// Sentinels, one per code. A *SyncError unwraps to the sentinel of its code.
var (
	ErrNoRef                        = errors.New("server did not return the ref")
	ErrEmptyResponse                = errors.New("empty response")
	ErrNoCollection                 = errors.New("server did not return the collection id")
	ErrUnauthorized                 = errors.New("unauthorized")
	ErrForbidden                    = errors.New("forbidden")
	ErrNotFound                     = errors.New("not found")
	ErrMethodNotFound               = errors.New("method not found")
	ErrConflict                     = errors.New("conflict")
	ErrGone                         = errors.New("gone")
	ErrPreconditionFailed           = errors.New("precondition failed")
	ErrTooLarge                     = errors.New("payload too large")
	ErrUpgradeRequired              = errors.New("upgrade required")
	ErrTooManyRequestsAndRetryAfter = errors.New("too many requests, retry after deadline")
	ErrTooManyRequests              = errors.New("too many requests")
	ErrLocalTooManyRequests         = errors.New("too many local requests")
	ErrTooManyProfiles              = errors.New("too many profiles")
	ErrRequestFailed                = errors.New("request failed")
	ErrRequestTimeout               = errors.New("request timeout")
	ErrRequestProtocolNotSupported  = errors.New("request protocol not supported")
	ErrRequestPathNotEscaped        = errors.New("request path not escaped")
	ErrRequestHeadersNotObject      = errors.New("request headers not object")
	ErrRequestCanceled              = errors.New("request canceled")
	ErrIncompatibleRemoteContent    = errors.New("incompatible remote content")
	ErrIncompatibleLocalContent     = errors.New("incompatible local content")
	ErrLocalInvalidContent          = errors.New("invalid local content")
	ErrLocalError                   = errors.New("local error")
	ErrUnknown                      = errors.New("unknown sync error")
)

var sentinels = map[ErrorCode]error{
	CodeNoRef:                        ErrNoRef,
	CodeEmptyResponse:                ErrEmptyResponse,
	CodeNoCollection:                 ErrNoCollection,
	CodeUnauthorized:                 ErrUnauthorized,
	CodeForbidden:                    ErrForbidden,
	CodeNotFound:                     ErrNotFound,
	CodeMethodNotFound:               ErrMethodNotFound,
	CodeConflict:                     ErrConflict,
	CodeGone:                         ErrGone,
	CodePreconditionFailed:           ErrPreconditionFailed,
	CodeTooLarge:                     ErrTooLarge,
	CodeUpgradeRequired:              ErrUpgradeRequired,
	CodeTooManyRequestsAndRetryAfter: ErrTooManyRequestsAndRetryAfter,
	CodeTooManyRequests:              ErrTooManyRequests,
	CodeLocalTooManyRequests:         ErrLocalTooManyRequests,
	CodeTooManyProfiles:              ErrTooManyProfiles,
	CodeRequestFailed:                ErrRequestFailed,
	CodeRequestTimeout:               ErrRequestTimeout,
	CodeRequestProtocolNotSupported:  ErrRequestProtocolNotSupported,
	CodeRequestPathNotEscaped:        ErrRequestPathNotEscaped,
	CodeRequestHeadersNotObject:      ErrRequestHeadersNotObject,
	CodeRequestCanceled:              ErrRequestCanceled,
	CodeIncompatibleRemoteContent:    ErrIncompatibleRemoteContent,
	CodeIncompatibleLocalContent:     ErrIncompatibleLocalContent,
	CodeLocalInvalidContent:          ErrLocalInvalidContent,
	CodeLocalError:                   ErrLocalError,
	CodeUnknown:                      ErrUnknown,
}

// Sentinel returns the sentinel error of code.
func (c ErrorCode) Sentinel() error {
	if err, ok := sentinels[c]; ok {
		return err
	}
	return ErrUnknown
}

// SyncError is a classified sync failure.
//
// URL, StatusCode and OperationID are set for failures of remote store
// requests. StatusCode is zero when no response was received.
type SyncError struct {
	Code        ErrorCode
	Message     string
	Resource    models.SyncResource
	URL         string
	StatusCode  int
	OperationID string
}

// NewSyncError creates a SyncError not bound to a request.
func NewSyncError(code ErrorCode, message string) *SyncError {
	return &SyncError{Code: code, Message: message}
}

// NewStoreError creates a SyncError for a failed remote store request.
func NewStoreError(code ErrorCode, message, url string, statusCode int, operationID string) *SyncError {
	return &SyncError{
		Code:        code,
		Message:     message,
		URL:         url,
		StatusCode:  statusCode,
		OperationID: operationID,
	}
}

func (e *SyncError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Resource != "" {
		b.WriteString(" (")
		b.WriteString(e.Resource.String())
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Unwrap returns the sentinel of the error code.
func (e *SyncError) Unwrap() error {
	return e.Code.Sentinel()
}

// WithResource returns a copy of e attributed to resource.
func (e *SyncError) WithResource(resource models.SyncResource) *SyncError {
	c := *e
	c.Resource = resource
	return &c
}

// ToSyncError classifies any error. Context cancellation maps to
// RequestCanceled; unclassified errors become Unknown.
func ToSyncError(err error) *SyncError {
	if err == nil {
		return nil
	}

	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr
	}
	if errors.Is(err, context.Canceled) {
		return &SyncError{Code: CodeRequestCanceled, Message: err.Error()}
	}
	for code, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return &SyncError{Code: code, Message: err.Error()}
		}
	}

	return &SyncError{Code: CodeUnknown, Message: err.Error()}
}

// CodeOf returns the error code of err, or "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return ToSyncError(err).Code
}

// CanBailout reports whether err must abort the whole sync pass instead of
// being isolated to one resource kind.
func CanBailout(err error) bool {
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		return false
	}

	switch syncErr.Code {
	case CodeMethodNotFound,
		CodeTooLarge,
		CodeTooManyRequests,
		CodeTooManyRequestsAndRetryAfter,
		CodeLocalTooManyRequests,
		CodeTooManyProfiles,
		CodeGone,
		CodeUpgradeRequired,
		CodeIncompatibleRemoteContent,
		CodeIncompatibleLocalContent:
		return true
	}
	return false
}

// SyncResourceError is a failure of one resource kind within a sync pass.
type SyncResourceError struct {
	Profile  string
	Resource models.SyncResource
	Err      *SyncError
}

func (e *SyncResourceError) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Profile, e.Resource, e.Err)
}

func (e *SyncResourceError) Unwrap() error {
	return e.Err
}
