// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package runner_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/absmach/weather-bridge/fetcher"
	"github.com/absmach/weather-bridge/formatter"
	"github.com/absmach/weather-bridge/logger"
	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/pkg/messaging"
	"github.com/absmach/weather-bridge/pkg/ticker/mocks"
	"github.com/absmach/weather-bridge/runner"
	"github.com/stretchr/testify/require"
)

const (
	insideTopic  = "weather/inside"
	outsideTopic = "weather/outside"
	serviceTopic = "weather/service"
	lastWill     = `{"status":"stopped"}`
)

var (
	t0         = time.Date(2019, 8, 25, 14, 4, 0, 0, time.UTC)
	errBroker  = errors.New("broker unavailable")
	okValues   = map[string]any{fetcher.KeyTempInside: 24.0, fetcher.KeyTempOutside: 31.3}
	okResult   = fetcher.Result{Status: fetcher.StatusOK, Values: okValues}
	failResult = fetcher.ErrorResult()
)

type fakeBus struct {
	mu         sync.Mutex
	connected  bool
	publishErr error
	wills      []string
	published  []formatter.Message
	connects   int
	attempts   int
	closed     bool
}

func (b *fakeBus) SetLastWill(topic string, _ []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.wills) > 0 {
		return messaging.ErrLastWill
	}
	b.wills = append(b.wills, topic)
	return nil
}

func (b *fakeBus) Connect() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connects++
	return nil
}

func (b *fakeBus) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

func (b *fakeBus) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, formatter.Message{Topic: topic, Payload: payload})
	return nil
}

func (b *fakeBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

func (b *fakeBus) setPublishErr(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publishErr = err
}

func (b *fakeBus) messages() []formatter.Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]formatter.Message(nil), b.published...)
}

func (b *fakeBus) publishAttempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

func (b *fakeBus) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// fakeService blocks each Fetch until a result is fed or the cycle context
// ends.
type fakeService struct {
	results chan fetcher.Result
	calls   atomic.Int32
}

func newFakeService() *fakeService {
	return &fakeService{results: make(chan fetcher.Result)}
}

func (s *fakeService) Fetch(ctx context.Context) fetcher.Result {
	s.calls.Add(1)
	select {
	case res := <-s.results:
		return res
	case <-ctx.Done():
		return fetcher.Result{}
	}
}

type harness struct {
	clock  *clock.Mock
	bus    *fakeBus
	svc    *fakeService
	ticks  chan time.Time
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func defaultConfig() runner.Config {
	return runner.Config{
		RefreshTime:    10 * time.Second,
		ResilienceTime: 30 * time.Second,
		ConnectTimeout: time.Second,
		InsideTopic:    insideTopic,
		OutsideTopic:   outsideTopic,
	}
}

func start(t *testing.T, cfg runner.Config, bus *fakeBus) *harness {
	h := &harness{
		clock: clock.NewMock(t0),
		bus:   bus,
		svc:   newFakeService(),
		ticks: make(chan time.Time),
		done:  make(chan struct{}),
	}

	tck := new(mocks.Ticker)
	tck.On("Tick").Return((<-chan time.Time)(h.ticks))
	tck.On("Stop").Return()

	r, err := runner.New(cfg, h.svc, bus, h.clock, tck, logger.NewMock())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		defer close(h.done)
		h.err = r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

// tick delivers one tick and reports false once Run has returned.
func (h *harness) tick() bool {
	select {
	case h.ticks <- h.clock.Now():
		return true
	case <-h.done:
		return false
	}
}

// feed hands res to the outstanding Fetch call.
func (h *harness) feed(t *testing.T, res fetcher.Result) {
	select {
	case h.svc.results <- res:
	case <-h.done:
		t.Fatalf("runner stopped before result was fed: %v", h.err)
	case <-time.After(time.Second):
		t.Fatal("no fetch cycle is waiting for a result")
	}
}

// tickUntil keeps ticking until cond holds or Run returns.
func (h *harness) tickUntil(t *testing.T, cond func() bool) {
	require.Eventually(t, func() bool {
		if !h.tick() {
			return true
		}
		return cond()
	}, 2*time.Second, time.Millisecond)
}

// wait returns the error of Run once it has stopped.
func (h *harness) wait(t *testing.T) error {
	select {
	case <-h.done:
		return h.err
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
		return nil
	}
}

func (h *harness) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}
