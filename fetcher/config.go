// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package fetcher

import (
	"fmt"
	"time"

	"github.com/absmach/weather-bridge/pkg/errors"
)

const (
	minAltitude = -1000
	maxAltitude = 10000

	defRequestTimeout = 10 * time.Second
	defOutdatedTime   = 90 * time.Second
)

// Config of the page fetcher.
type Config struct {
	URL            string        `env:"URL,required"`
	Altitude       *float64      `env:"ALTITUDE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	OutdatedTime   time.Duration `env:"OUTDATED_TIME"   envDefault:"90s"`
}

func (c *Config) applyDefaults() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defRequestTimeout
	}
	if c.OutdatedTime <= 0 {
		c.OutdatedTime = defOutdatedTime
	}
}

// Validate applies defaults and checks the bounds of the configuration.
func (c *Config) Validate() error {
	c.applyDefaults()
	if c.URL == "" {
		return errors.Wrap(errors.ErrMissingConfig, fmt.Errorf("fetcher url is empty"))
	}
	if c.Altitude != nil && (*c.Altitude < minAltitude || *c.Altitude > maxAltitude) {
		return errors.Wrap(errors.ErrMalformedConfig, fmt.Errorf("altitude %.1f is out of range [%d, %d]", *c.Altitude, minAltitude, maxAltitude))
	}
	return nil
}
