// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package runner_test

import (
	"testing"
	"time"

	"github.com/absmach/weather-bridge/fetcher"
	"github.com/absmach/weather-bridge/formatter"
	"github.com/absmach/weather-bridge/logger"
	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/pkg/ticker/mocks"
	"github.com/absmach/weather-bridge/runner"
	"github.com/absmach/weather-bridge/timeseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPublishesCycle(t *testing.T) {
	bus := &fakeBus{connected: true}
	cfg := defaultConfig()
	cfg.LastWill = lastWill
	cfg.ServiceTopic = serviceTopic

	h := start(t, cfg, bus)
	require.True(t, h.tick())
	h.feed(t, okResult)
	h.tickUntil(t, func() bool { return len(bus.messages()) >= 3 })

	msgs := bus.messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, formatter.Message{Topic: serviceTopic, Payload: []byte("running")}, msgs[0])
	assert.Equal(t, insideTopic, msgs[1].Topic)
	assert.JSONEq(t, `{"sensor":"inside","status":"ok","temperature":24,"timestamp":"2019-08-25T14:04:00+00:00"}`, string(msgs[1].Payload))
	assert.Equal(t, outsideTopic, msgs[2].Topic)
	assert.JSONEq(t, `{"sensor":"outside","status":"ok","temperature":31.3,"timestamp":"2019-08-25T14:04:00+00:00"}`, string(msgs[2].Payload))

	h.cancel()
	require.NoError(t, h.wait(t))

	msgs = bus.messages()
	require.Len(t, msgs, 6)
	assert.Equal(t, []formatter.Message{
		{Topic: insideTopic, Payload: []byte(lastWill)},
		{Topic: outsideTopic, Payload: []byte(lastWill)},
		{Topic: serviceTopic, Payload: []byte("stopped")},
	}, msgs[3:])
	assert.True(t, bus.isClosed())
	assert.Equal(t, []string{insideTopic}, bus.wills)
}

func TestRunRefreshSchedule(t *testing.T) {
	bus := &fakeBus{connected: true}
	h := start(t, defaultConfig(), bus)

	require.True(t, h.tick())
	h.feed(t, okResult)
	h.tickUntil(t, func() bool { return len(bus.messages()) == 2 })

	h.clock.Add(9 * time.Second)
	require.True(t, h.tick())
	require.True(t, h.tick())
	assert.Equal(t, int32(1), h.svc.calls.Load())

	h.clock.Add(time.Second)
	require.True(t, h.tick())
	assert.Eventually(t, func() bool { return h.svc.calls.Load() == 2 }, time.Second, time.Millisecond)
}

func TestRunResilience(t *testing.T) {
	cases := []struct {
		desc   string
		offset time.Duration
		err    error
	}{
		{
			desc:   "failure inside window",
			offset: 29 * time.Second,
		},
		{
			desc:   "failure at window edge",
			offset: 30 * time.Second,
		},
		{
			desc:   "failure outside window",
			offset: 31 * time.Second,
			err:    runner.ErrAbort,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			bus := &fakeBus{connected: true}
			h := start(t, defaultConfig(), bus)

			h.clock.Set(t0.Add(tc.offset))
			require.True(t, h.tick())
			h.feed(t, failResult)

			if tc.err == nil {
				h.tickUntil(t, func() bool { return len(bus.messages()) == 2 })
				assert.False(t, h.stopped())
				assert.JSONEq(t, `{"sensor":"inside","status":"error","timestamp":"`+t0.Add(tc.offset).Format("2006-01-02T15:04:05-07:00")+`"}`, string(bus.messages()[0].Payload))
				return
			}
			h.tickUntil(t, h.stopped)
			err := h.wait(t)
			assert.True(t, errors.Contains(err, tc.err), "expected %v got %v", tc.err, err)
			assert.Len(t, bus.messages(), 2)
		})
	}
}

func TestRunSuccessExtendsWindow(t *testing.T) {
	bus := &fakeBus{connected: true}
	h := start(t, defaultConfig(), bus)

	h.clock.Set(t0.Add(20 * time.Second))
	require.True(t, h.tick())
	h.feed(t, okResult)
	h.tickUntil(t, func() bool { return len(bus.messages()) == 2 })

	h.clock.Set(t0.Add(45 * time.Second))
	require.True(t, h.tick())
	h.feed(t, failResult)
	h.tickUntil(t, func() bool { return len(bus.messages()) == 4 })
	assert.False(t, h.stopped())
}

func TestRunPublishFailure(t *testing.T) {
	bus := &fakeBus{connected: true, publishErr: errBroker}
	h := start(t, defaultConfig(), bus)

	require.True(t, h.tick())
	h.feed(t, okResult)
	h.tickUntil(t, func() bool { return bus.publishAttempts() == 2 })

	// A failed publish does not count as success.
	h.clock.Set(t0.Add(31 * time.Second))
	h.tickUntil(t, func() bool { return h.svc.calls.Load() == 2 })
	assert.False(t, h.stopped())

	h.feed(t, okResult)
	h.tickUntil(t, h.stopped)
	err := h.wait(t)
	assert.True(t, errors.Contains(err, runner.ErrPublish), "expected %v got %v", runner.ErrPublish, err)
	assert.True(t, errors.Contains(err, errBroker))
}

func TestRunPublishRecovers(t *testing.T) {
	bus := &fakeBus{connected: true, publishErr: errBroker}
	h := start(t, defaultConfig(), bus)

	h.clock.Set(t0.Add(20 * time.Second))
	require.True(t, h.tick())
	h.feed(t, okResult)
	h.tickUntil(t, func() bool { return bus.publishAttempts() == 2 })

	bus.setPublishErr(nil)
	h.clock.Set(t0.Add(40 * time.Second))
	h.tickUntil(t, func() bool { return h.svc.calls.Load() == 2 })
	h.feed(t, okResult)
	h.tickUntil(t, func() bool { return len(bus.messages()) == 2 })
	assert.False(t, h.stopped())
}

func TestRunFetchTimeout(t *testing.T) {
	bus := &fakeBus{connected: true}
	cfg := defaultConfig()
	cfg.FetchTimeout = time.Second

	h := start(t, cfg, bus)
	require.True(t, h.tick())

	h.tickUntil(t, func() bool { return len(bus.messages()) == 2 })
	assert.JSONEq(t, `{"sensor":"outside","status":"timeout","timestamp":"2019-08-25T14:04:00+00:00"}`, string(bus.messages()[1].Payload))
	assert.False(t, h.stopped())
}

func TestRunSingleFlight(t *testing.T) {
	bus := &fakeBus{connected: true}
	h := start(t, defaultConfig(), bus)

	require.True(t, h.tick())
	require.Eventually(t, func() bool { return h.svc.calls.Load() == 1 }, time.Second, time.Millisecond)

	h.clock.Add(10 * time.Second)
	require.True(t, h.tick())
	require.True(t, h.tick())
	assert.Equal(t, int32(1), h.svc.calls.Load())
	assert.False(t, h.stopped())

	h.clock.Set(t0.Add(31 * time.Second))
	h.tickUntil(t, h.stopped)
	err := h.wait(t)
	assert.True(t, errors.Contains(err, runner.ErrFetchStuck), "expected %v got %v", runner.ErrFetchStuck, err)
	assert.Equal(t, int32(1), h.svc.calls.Load())
}

func TestRunFatalResult(t *testing.T) {
	bus := &fakeBus{connected: true}
	h := start(t, defaultConfig(), bus)

	require.True(t, h.tick())
	h.feed(t, fetcher.Result{Status: fetcher.StatusError, Fatal: timeseries.ErrAggregatorKind})
	h.tickUntil(t, h.stopped)

	err := h.wait(t)
	assert.True(t, errors.Contains(err, timeseries.ErrAggregatorKind))
	assert.Empty(t, bus.messages())
	assert.True(t, bus.isClosed())
}

func TestRunConnectTimeout(t *testing.T) {
	bus := &fakeBus{}
	cfg := defaultConfig()
	cfg.ConnectTimeout = 50 * time.Millisecond

	h := start(t, cfg, bus)
	err := h.wait(t)
	assert.True(t, errors.Contains(err, runner.ErrConnectTimeout), "expected %v got %v", runner.ErrConnectTimeout, err)
	assert.Equal(t, 1, bus.connects)
	assert.True(t, bus.isClosed())
}

func TestRunCancelWhileConnecting(t *testing.T) {
	bus := &fakeBus{}
	h := start(t, defaultConfig(), bus)

	require.True(t, h.tick())
	h.cancel()
	assert.NoError(t, h.wait(t))
	assert.Zero(t, h.svc.calls.Load())
}

func TestRunServiceWill(t *testing.T) {
	bus := &fakeBus{connected: true}
	cfg := defaultConfig()
	cfg.ServiceTopic = serviceTopic

	h := start(t, cfg, bus)
	require.True(t, h.tick())
	h.cancel()
	require.NoError(t, h.wait(t))

	assert.Equal(t, []string{serviceTopic}, bus.wills)
	assert.Equal(t, formatter.Message{Topic: serviceTopic, Payload: []byte("stopped")}, bus.messages()[len(bus.messages())-1])
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.InsideTopic = ""
	cfg.OutsideTopic = ""

	_, err := runner.New(cfg, newFakeService(), &fakeBus{}, clock.NewMock(t0), new(mocks.Ticker), logger.NewMock())
	assert.True(t, errors.Contains(err, runner.ErrInvalidConfig))
}
