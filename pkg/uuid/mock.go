// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package uuid

import (
	"fmt"
	"sync"

	weatherbridge "github.com/absmach/weather-bridge"
)

// Prefix is the constant part of every identifier the mock returns.
const Prefix = "123e4567-e89b-12d3-a456-"

var _ weatherbridge.IDProvider = (*uuidProviderMock)(nil)

type uuidProviderMock struct {
	mu      sync.Mutex
	counter int
}

func (up *uuidProviderMock) ID() (string, error) {
	up.mu.Lock()
	defer up.mu.Unlock()

	up.counter++
	return fmt.Sprintf("%s%012d", Prefix, up.counter), nil
}

// NewMock returns a provider yielding sequential, predictable identifiers.
func NewMock() weatherbridge.IDProvider {
	return &uuidProviderMock{}
}
