// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package clock_test

import (
	"testing"
	"time"

	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func TestSystemClock(t *testing.T) {
	before := time.Now()
	now := clock.New().Now()
	assert.False(t, now.Before(before))
	assert.Equal(t, time.Local, now.Location())
}

func TestMock(t *testing.T) {
	start := time.Date(2019, 8, 25, 14, 4, 0, 0, time.UTC)
	c := clock.NewMock(start)
	assert.Equal(t, start, c.Now())

	c.Add(90 * time.Second)
	assert.Equal(t, start.Add(90*time.Second), c.Now())

	later := start.Add(time.Hour)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}
