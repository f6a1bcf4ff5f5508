// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors

var (
	// ErrMalformedConfig indicates a configuration value outside of its allowed range.
	ErrMalformedConfig = New("malformed configuration")

	// ErrMissingConfig indicates a required configuration value is not set.
	ErrMissingConfig = New("missing required configuration")

	// ErrUnavailable indicates a collaborator could not be reached.
	ErrUnavailable = New("service unavailable")
)
