// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package messaging defines the message bus used to publish weather
// snapshots.
package messaging

import (
	"context"

	"github.com/absmach/weather-bridge/pkg/errors"
)

var (
	// ErrNotConnected indicates an operation that requires an open
	// connection.
	ErrNotConnected = errors.New("bus is not connected")

	// ErrLastWill indicates that a last will could not be registered.
	ErrLastWill = errors.New("failed to register last will")

	// ErrPublishTimeout indicates that the broker did not acknowledge a
	// message in time.
	ErrPublishTimeout = errors.New("failed to publish due to timeout reached")

	// ErrEmptyTopic indicates a publish without a topic.
	ErrEmptyTopic = errors.New("empty topic")
)

// Bus specifies message bus API.
//
//go:generate mockery --name Bus --output=./mocks --filename bus.go --quiet --note "Copyright (c) Abstract Machines"
type Bus interface {
	// SetLastWill registers a payload the broker publishes on topic when
	// the connection drops unexpectedly. It must be called before Connect.
	SetLastWill(topic string, payload []byte) error

	// Connect starts connecting in the background.
	Connect() error

	// IsConnected reports whether the connection is open.
	IsConnected() bool

	// Publish sends payload to topic and waits for the acknowledgement.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Close gracefully closes the connection.
	Close() error
}
