// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package runner drives periodic fetch cycles and publishes their results,
// tolerating failures for a bounded resilience window.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/weather-bridge/fetcher"
	"github.com/absmach/weather-bridge/formatter"
	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/pkg/messaging"
	"github.com/absmach/weather-bridge/pkg/ticker"
)

var (
	// ErrInvalidConfig indicates a configuration outside the allowed bounds.
	ErrInvalidConfig = errors.New("invalid runner configuration")

	// ErrConnectTimeout indicates that the bus did not connect in time.
	ErrConnectTimeout = errors.New("timed out connecting to message bus")

	// ErrFetchStuck indicates a cycle that outlived its own timeout.
	ErrFetchStuck = errors.New("fetch cycle not finished")

	// ErrPublish indicates a publish failure outside the resilience window.
	ErrPublish = errors.New("failed to publish")

	// ErrAbort indicates failing cycles outside the resilience window.
	ErrAbort = errors.New("fetch failed outside resilience window")
)

// closeTimeout bounds the final publishes after the run context is gone.
const closeTimeout = 5 * time.Second

type cycle struct {
	started time.Time
	done    chan fetcher.Result
}

// Runner owns the fetch schedule. All of its state is confined to the
// goroutine executing Run.
type Runner struct {
	cfg    Config
	svc    fetcher.Service
	bus    messaging.Bus
	groups []formatter.Group
	clock  clock.Clock
	ticker ticker.Ticker
	logger *slog.Logger

	nextTrigger time.Time
	lastSuccess time.Time
	task        *cycle
}

// New validates cfg and returns a runner. The resilience window starts now.
func New(cfg Config, svc fetcher.Service, bus messaging.Bus, clk clock.Clock, tck ticker.Ticker, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		cfg:         cfg,
		svc:         svc,
		bus:         bus,
		groups:      []formatter.Group{formatter.Inside(cfg.InsideTopic), formatter.Outside(cfg.OutsideTopic)},
		clock:       clk,
		ticker:      tck,
		logger:      logger,
		lastSuccess: clk.Now(),
	}, nil
}

// Config returns the effective configuration including defaults.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run connects to the bus and runs cycles until ctx is cancelled or a
// fatal error occurs. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context) error {
	defer r.ticker.Stop()

	r.registerWills()
	if err := r.bus.Connect(); err != nil {
		return err
	}
	defer r.close()

	if err := r.awaitConnection(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	if r.cfg.ServiceTopic != "" && r.cfg.ServiceRunning != "" {
		if err := r.bus.Publish(ctx, r.cfg.ServiceTopic, []byte(r.cfg.ServiceRunning)); err != nil {
			r.logger.Warn("Failed to publish service state", slog.String("topic", r.cfg.ServiceTopic), slog.String("error", err.Error()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.ticker.Tick():
			if err := r.step(ctx); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) registerWills() {
	registered := false
	if r.cfg.LastWill != "" {
		for _, g := range r.groups {
			if g.Topic == "" {
				continue
			}
			if err := r.bus.SetLastWill(g.Topic, []byte(r.cfg.LastWill)); err != nil {
				r.logger.Warn("Last will not registered", slog.String("topic", g.Topic), slog.String("error", err.Error()))
				continue
			}
			registered = true
		}
	}
	if !registered && r.cfg.ServiceTopic != "" && r.cfg.ServiceStopped != "" {
		if err := r.bus.SetLastWill(r.cfg.ServiceTopic, []byte(r.cfg.ServiceStopped)); err != nil {
			r.logger.Warn("Last will not registered", slog.String("topic", r.cfg.ServiceTopic), slog.String("error", err.Error()))
		}
	}
}

func (r *Runner) awaitConnection(ctx context.Context) error {
	timeout := time.NewTimer(r.cfg.ConnectTimeout)
	defer timeout.Stop()

	for !r.bus.IsConnected() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout.C:
			return errors.Wrap(ErrConnectTimeout, fmt.Errorf("not connected after %s", r.cfg.ConnectTimeout))
		case <-r.ticker.Tick():
		}
	}
	return nil
}

func (r *Runner) step(ctx context.Context) error {
	if err := r.harvest(ctx); err != nil {
		return err
	}

	now := r.clock.Now()
	if now.Before(r.nextTrigger) {
		return nil
	}
	return r.start(ctx, now)
}

func (r *Runner) start(ctx context.Context, now time.Time) error {
	r.nextTrigger = now.Add(r.cfg.RefreshTime)

	if r.task != nil {
		running := now.Sub(r.task.started)
		if running < r.cfg.FetchTimeout {
			r.logger.Warn("Previous fetch cycle not finished, skipping trigger",
				slog.String("running", running.String()),
				slog.String("timeout", r.cfg.FetchTimeout.String()),
				slog.String("refresh", r.cfg.RefreshTime.String()))
			return nil
		}
		return errors.Wrap(ErrFetchStuck, fmt.Errorf("running for %s", running))
	}

	c := &cycle{started: now, done: make(chan fetcher.Result, 1)}
	r.task = c
	go func() {
		c.done <- r.fetch(ctx)
	}()
	return nil
}

func (r *Runner) fetch(ctx context.Context) fetcher.Result {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.FetchTimeout)
	defer cancel()

	done := make(chan fetcher.Result, 1)
	go func() {
		done <- r.svc.Fetch(ctx)
	}()

	var res fetcher.Result
	select {
	case res = <-done:
	case <-ctx.Done():
	}
	// A pipeline that gave up because of the deadline still timed out.
	if ctx.Err() == context.DeadlineExceeded {
		r.logger.Error("Fetch cycle timed out", slog.String("timeout", r.cfg.FetchTimeout.String()))
		return fetcher.TimeoutResult()
	}
	return res
}

func (r *Runner) harvest(ctx context.Context) error {
	if r.task == nil {
		return nil
	}

	var res fetcher.Result
	select {
	case res = <-r.task.done:
	default:
		return nil
	}
	r.task = nil

	return r.handle(ctx, res.Normalize())
}

func (r *Runner) handle(ctx context.Context, res fetcher.Result) error {
	if res.Fatal != nil {
		return res.Fatal
	}

	now := r.clock.Now()
	since := now.Sub(r.lastSuccess)
	within := since <= r.cfg.ResilienceTime

	publishFailed := false
	msgs, err := formatter.Split(res, r.groups, now)
	if err != nil {
		if !within {
			return errors.Wrap(ErrPublish, err)
		}
		r.logger.Error("Failed to format payloads, tolerated within resilience window", slog.String("error", err.Error()))
		publishFailed = true
	}
	for _, msg := range msgs {
		if err := r.bus.Publish(ctx, msg.Topic, msg.Payload); err != nil {
			if !within {
				return errors.Wrap(ErrPublish, err)
			}
			r.logger.Error("Failed to publish, tolerated within resilience window", slog.String("topic", msg.Topic), slog.String("error", err.Error()))
			publishFailed = true
		}
	}

	if res.Status == fetcher.StatusOK {
		if !publishFailed {
			r.lastSuccess = now
		}
		return nil
	}

	if !within {
		return errors.Wrap(ErrAbort, fmt.Errorf("status %s, last success %s ago", res.Status, since))
	}
	r.logger.Warn("Fetch failed within resilience window", slog.String("status", res.Status.String()), slog.String("since_success", since.String()))
	return nil
}

func (r *Runner) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	var topics []string
	if r.cfg.LastWill != "" {
		for _, g := range r.groups {
			if g.Topic != "" {
				topics = append(topics, g.Topic)
			}
		}
	}
	for _, topic := range topics {
		if err := r.bus.Publish(ctx, topic, []byte(r.cfg.LastWill)); err != nil {
			r.logger.Error("Failed to publish last will", slog.String("topic", topic), slog.String("error", err.Error()))
		}
	}
	if r.cfg.ServiceTopic != "" && r.cfg.ServiceStopped != "" {
		if err := r.bus.Publish(ctx, r.cfg.ServiceTopic, []byte(r.cfg.ServiceStopped)); err != nil {
			r.logger.Error("Failed to publish service state", slog.String("topic", r.cfg.ServiceTopic), slog.String("error", err.Error()))
		}
	}

	if err := r.bus.Close(); err != nil {
		r.logger.Warn("Failed to close message bus", slog.String("error", err.Error()))
	}
}
