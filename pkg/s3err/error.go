// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package s3err defines the closed set of error kinds the client core
// reports. Every failing operation returns a *Error; callers switch on
// Kind to decide what to do next (follow a redirect, back off, give up).
package s3err

import (
	"errors"
	"fmt"
)

// Kind classifies a failed command.
type Kind int

const (
	// KindRedirect means the bucket lives in a different region. The
	// operation itself did not fail; it must be re-issued against the
	// region carried by the error.
	KindRedirect Kind = iota + 1

	// KindThrottled means the service asked us to slow down (500/503).
	KindThrottled

	// KindNotFound means the bucket or key does not exist.
	KindNotFound

	// KindUnknown is an unclassified service error. HTTPStatus and Code
	// carry whatever the service reported. A status of -1 marks a
	// protocol violation detected locally (e.g. a missing mandatory
	// response header).
	KindUnknown

	// KindTransport wraps a failure below HTTP: dial, TLS, timeout,
	// reading the response body.
	KindTransport

	// KindDecode wraps a malformed body on an otherwise successful
	// exchange. Distinct from KindTransport and from service errors.
	KindDecode
)

var kindNames = map[Kind]string{
	KindRedirect:  "redirect",
	KindThrottled: "throttled",
	KindNotFound:  "not found",
	KindUnknown:   "unknown",
	KindTransport: "transport",
	KindDecode:    "decode",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// Error is the single error type returned by the client core.
type Error struct {
	Kind Kind

	// Region is set for KindRedirect.
	Region string

	// HTTPStatus and Code are set for KindUnknown (and carry the
	// original status/code for other service-reported kinds when known).
	HTTPStatus int
	Code       string

	// Message is the service-reported message, when one was decoded.
	Message string

	// Err is the underlying cause for KindTransport and KindDecode.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRedirect:
		return fmt.Sprintf("s3: redirected to region %q", e.Region)
	case KindThrottled:
		return "s3: throttled, reduce request rate"
	case KindNotFound:
		return "s3: not found"
	case KindTransport:
		return fmt.Sprintf("s3: transport: %v", e.Err)
	case KindDecode:
		return fmt.Sprintf("s3: decode response: %v", e.Err)
	default:
		if e.Message != "" {
			return fmt.Sprintf("s3: %s (status %d): %s", e.Code, e.HTTPStatus, e.Message)
		}
		return fmt.Sprintf("s3: %s (status %d)", e.Code, e.HTTPStatus)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality so callers can use errors.Is with the
// sentinel-like values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks. Only the Kind participates in matching.
var (
	ErrRedirect  = &Error{Kind: KindRedirect}
	ErrThrottled = &Error{Kind: KindThrottled}
	ErrNotFound  = &Error{Kind: KindNotFound}
	ErrUnknown   = &Error{Kind: KindUnknown}
	ErrTransport = &Error{Kind: KindTransport}
	ErrDecode    = &Error{Kind: KindDecode}
)

// Redirect builds a redirect error pointing at region.
func Redirect(region string) *Error {
	return &Error{Kind: KindRedirect, Region: region}
}

// Throttled builds a throttle error carrying the original status.
func Throttled(status int) *Error {
	return &Error{Kind: KindThrottled, HTTPStatus: status}
}

// NotFound builds a not-found error.
func NotFound() *Error {
	return &Error{Kind: KindNotFound, HTTPStatus: 404}
}

// Unknown builds an unclassified service error. Use status -1 for
// locally detected protocol violations.
func Unknown(status int, code, message string) *Error {
	return &Error{Kind: KindUnknown, HTTPStatus: status, Code: code, Message: message}
}

// Transport wraps a failure from the HTTP layer.
func Transport(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

// Decode wraps a body parse failure.
func Decode(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

// KindOf extracts the kind from an error, or 0 when err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
