// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package runner_test

import (
	"testing"
	"time"

	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/runner"
	"github.com/stretchr/testify/assert"
)

func TestConfigDefaults(t *testing.T) {
	cases := []struct {
		desc       string
		refresh    time.Duration
		resilience time.Duration
		fetch      time.Duration
	}{
		{
			desc:       "default refresh",
			refresh:    0,
			resilience: 132 * time.Second,
			fetch:      30 * time.Second,
		},
		{
			desc:       "short refresh",
			refresh:    10 * time.Second,
			resilience: 22 * time.Second,
			fetch:      30 * time.Second,
		},
		{
			desc:       "long refresh",
			refresh:    200 * time.Second,
			resilience: 300 * time.Second,
			fetch:      100 * time.Second,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := runner.Config{RefreshTime: tc.refresh, InsideTopic: "weather/inside"}
			assert.NoError(t, cfg.Validate())
			assert.Equal(t, tc.resilience, cfg.ResilienceTime)
			assert.Equal(t, tc.fetch, cfg.FetchTimeout)
			assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
			assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := runner.Config{RefreshTime: time.Minute, OutsideTopic: "weather/outside"}

	cases := []struct {
		desc   string
		mutate func(*runner.Config)
		err    error
	}{
		{
			desc:   "valid",
			mutate: func(*runner.Config) {},
		},
		{
			desc:   "refresh too short",
			mutate: func(c *runner.Config) { c.RefreshTime = 5 * time.Second },
			err:    runner.ErrInvalidConfig,
		},
		{
			desc:   "resilience too short",
			mutate: func(c *runner.Config) { c.ResilienceTime = 5 * time.Second },
			err:    runner.ErrInvalidConfig,
		},
		{
			desc:   "fetch timeout too short",
			mutate: func(c *runner.Config) { c.FetchTimeout = 500 * time.Millisecond },
			err:    runner.ErrInvalidConfig,
		},
		{
			desc:   "no topics",
			mutate: func(c *runner.Config) { c.OutsideTopic = "" },
			err:    runner.ErrInvalidConfig,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Contains(err, tc.err), "expected %v got %v", tc.err, err)
		})
	}
}
