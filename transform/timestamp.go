// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/absmach/weather-bridge/pkg/errors"
)

const (
	// DeviceLayout is the clock format shown on the WH2600 status page.
	DeviceLayout = "15:04 1/2/2006"
	// ISOLayout is the output format of every timestamp.
	ISOLayout = "2006-01-02T15:04:05-07:00"
)

// Timestamp parses the device clock and rejects readings older than
// Outdated. The device time carries no zone, so it is read in the zone of
// Clock.
type Timestamp struct {
	Field    string
	Layout   string
	Outdated time.Duration
	Clock    clock.Clock
}

func (ts Timestamp) Transform(raw RawValues) (any, error) {
	s, ok := raw[ts.Field]
	if !ok {
		return nil, errors.Wrap(ErrParseTime, fmt.Errorf("field %s is missing", ts.Field))
	}
	layout := ts.Layout
	if layout == "" {
		layout = DeviceLayout
	}

	now := ts.Clock.Now()
	parsed, err := time.ParseInLocation(layout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return nil, errors.Wrap(ErrParseTime, err)
	}

	if elapsed := now.Sub(parsed); elapsed > ts.Outdated {
		return nil, errors.Wrap(ErrOutdated, fmt.Errorf("device time %s is %s behind", parsed.Format(ISOLayout), elapsed))
	}

	return parsed.Format(ISOLayout), nil
}
