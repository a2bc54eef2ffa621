// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package pms

import (
	"errors"
	"fmt"
)

// ErrPMSUnavailable indicates the upstream PMS could not be reached or
// refused the request: DNS failure, timeout, auth rejection or a non-2xx
// response. Retrying is the caller's decision; the adapter never retries.
var ErrPMSUnavailable = errors.New("pms unavailable")

// MalformedResponseError indicates the upstream answered but its payload
// did not match the expected schema. Fatal for that fetch; it must not
// corrupt sibling domains.
type MalformedResponseError struct {
	Endpoint string
	Reason   string
	Err      error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed pms response from %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed pms response from %s: %s", e.Endpoint, e.Reason)
}

// Unwrap returns the underlying decode error, if any.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is (or wraps) a MalformedResponseError.
func IsMalformed(err error) bool {
	var malformed *MalformedResponseError
	return errors.As(err, &malformed)
}
