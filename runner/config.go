// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"fmt"
	"time"

	"github.com/absmach/weather-bridge/pkg/errors"
)

const (
	defRefreshTime    = 60 * time.Second
	defConnectTimeout = 10 * time.Second
	defPollInterval   = 100 * time.Millisecond

	maxDefResilience = 300 * time.Second
	minDefFetch      = 30 * time.Second

	minRefreshTime    = 10 * time.Second
	minResilienceTime = 10 * time.Second
	minFetchTimeout   = time.Second
)

// Config of the runner. Zero durations are replaced by defaults derived
// from RefreshTime.
type Config struct {
	RefreshTime    time.Duration `env:"REFRESH_TIME"    envDefault:"60s"`
	ResilienceTime time.Duration `env:"RESILIENCE_TIME"`
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	PollInterval   time.Duration `env:"POLL_INTERVAL"   envDefault:"100ms"`

	InsideTopic  string `env:"INSIDE_TOPIC"`
	OutsideTopic string `env:"OUTSIDE_TOPIC"`
	LastWill     string `env:"LAST_WILL"`

	ServiceTopic   string `env:"SERVICE_TOPIC"`
	ServiceRunning string `env:"SERVICE_RUNNING" envDefault:"running"`
	ServiceStopped string `env:"SERVICE_STOPPED" envDefault:"stopped"`
}

func (c *Config) applyDefaults() {
	if c.RefreshTime <= 0 {
		c.RefreshTime = defRefreshTime
	}
	if c.ResilienceTime <= 0 {
		c.ResilienceTime = c.RefreshTime * 22 / 10
		if c.ResilienceTime > maxDefResilience {
			c.ResilienceTime = maxDefResilience
		}
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = c.RefreshTime / 2
		if c.FetchTimeout < minDefFetch {
			c.FetchTimeout = minDefFetch
		}
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defConnectTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defPollInterval
	}
}

func (c *Config) validate() error {
	switch {
	case c.RefreshTime < minRefreshTime:
		return fmt.Errorf("refresh time %s is below %s", c.RefreshTime, minRefreshTime)
	case c.ResilienceTime < minResilienceTime:
		return fmt.Errorf("resilience time %s is below %s", c.ResilienceTime, minResilienceTime)
	case c.FetchTimeout < minFetchTimeout:
		return fmt.Errorf("fetch timeout %s is below %s", c.FetchTimeout, minFetchTimeout)
	case c.InsideTopic == "" && c.OutsideTopic == "":
		return fmt.Errorf("no payload topic configured")
	}
	return nil
}

// Validate applies defaults and checks the configuration.
func (c *Config) Validate() error {
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return errors.Wrap(ErrInvalidConfig, err)
	}
	return nil
}
