// Package coordinator keeps a cached snapshot of one device in sync with the
// device itself.
//
// A refresh fetches the device info and state and swaps the snapshot in one
// step. Concurrent refresh requests are coalesced: callers arriving while a
// refresh is in flight wait for that refresh's result instead of starting a
// new one. A failed refresh leaves the previous snapshot in place.
//
// Listeners are fed from a queue of their own, so a slow listener never holds
// up a refresh or the other listeners.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/klyqa"
	"github.com/wheelibin/klyqa/internal/models"
	"golang.org/x/sync/singleflight"
)

var (
	ErrSetupFailed    = errors.New("coordinator: first refresh failed")
	ErrAlreadyStarted = errors.New("coordinator: already started")
)

const (
	refreshKey        = "refresh"
	listenerQueueSize = 8
)

type deviceClient interface {
	FetchInfo(ctx context.Context) (models.Info, error)
	FetchState(ctx context.Context) (models.State, error)
}

type Listener func(result models.RefreshResult)

type subscription struct {
	listener Listener
	queue    chan models.RefreshResult
	stop     chan struct{}
	done     chan struct{}
}

func (s *subscription) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case result := <-s.queue:
			s.listener(result)
		}
	}
}

// flight is what one refresh hands to every caller that shared it.
type flight struct {
	seq  uint64
	snap *models.Snapshot
}

type Coordinator struct {
	logger     *log.Logger
	client     deviceClient
	deviceName string
	interval   time.Duration
	timeout    time.Duration

	group    singleflight.Group
	snapshot atomic.Pointer[models.Snapshot]

	// flights counts refreshes that have started fetching
	flights atomic.Uint64

	mu            sync.Mutex
	lastErr       error
	lastRefresh   time.Time
	subscriptions map[int]*subscription
	nextID        int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewCoordinator(logger *log.Logger, client deviceClient, deviceName string, interval time.Duration, timeout time.Duration) *Coordinator {
	if interval <= 0 {
		interval = constants.ScanInterval
	}
	if timeout <= 0 {
		timeout = constants.RequestTimeout
	}
	return &Coordinator{
		logger:        logger,
		client:        client,
		deviceName:    deviceName,
		interval:      interval,
		timeout:       timeout,
		subscriptions: map[int]*subscription{},
	}
}

// Start refreshes once, failing if the device can't be read, then refreshes
// on every interval until Stop is called.
func (c *Coordinator) Start(ctx context.Context) error {
	c.logger.Debug("Coordinator.Start")

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	if _, err := c.Refresh(ctx); err != nil {
		c.mu.Lock()
		c.cancel = nil
		c.mu.Unlock()
		cancel()
		close(done)
		return fmt.Errorf("%w: %w", ErrSetupFailed, err)
	}

	go c.run(loopCtx, done)
	return nil
}

// Stop cancels future scheduled refreshes. A refresh already in flight is
// allowed to finish.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.logger.Debug("Coordinator.Stop: stopped")
}

func (c *Coordinator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	refreshTimer := time.NewTicker(c.interval)
	defer refreshTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("Coordinator.run: stop signal received")
			return

		case t := <-refreshTimer.C:
			c.logger.Debug("Coordinator.run: scheduled refresh", "t", t)
			// failures are recorded and reported by refresh, the next tick retries
			_, _ = c.Refresh(ctx)
		}
	}
}

// Refresh fetches the device state now, or joins the refresh already in
// flight. ctx only bounds how long the caller waits.
func (c *Coordinator) Refresh(ctx context.Context) (models.Snapshot, error) {
	snap, _, err := c.join(ctx)
	return snap, err
}

// Resync is Refresh for callers that have just changed the device. It only
// returns the outcome of a fetch that started after Resync was called: a
// flight already in progress is waited out, then the next one is joined.
func (c *Coordinator) Resync(ctx context.Context) (models.Snapshot, error) {
	since := c.flights.Load()
	for {
		snap, seq, err := c.join(ctx)
		if seq > since || ctx.Err() != nil {
			return snap, err
		}
		c.logger.Debug("Coordinator.Resync: joined a stale refresh, refreshing again", "flight", seq)
	}
}

func (c *Coordinator) join(ctx context.Context) (models.Snapshot, uint64, error) {
	ch := c.group.DoChan(refreshKey, func() (interface{}, error) {
		return c.refresh()
	})

	select {
	case <-ctx.Done():
		return models.Snapshot{}, 0, ctx.Err()
	case res := <-ch:
		f := res.Val.(flight)
		if res.Err != nil {
			return models.Snapshot{}, f.seq, res.Err
		}
		return f.snap.Clone(), f.seq, nil
	}
}

func (c *Coordinator) refresh() (flight, error) {
	seq := c.flights.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	info, err := c.client.FetchInfo(ctx)
	if err != nil {
		return flight{seq: seq}, c.fail(err)
	}
	state, err := c.client.FetchState(ctx)
	if err != nil {
		return flight{seq: seq}, c.fail(err)
	}

	snap := &models.Snapshot{DeviceName: c.deviceName, Info: info, State: state}
	c.snapshot.Store(snap)

	c.mu.Lock()
	if c.lastErr != nil {
		c.logger.Info("Device reachable again", "device", c.deviceName)
	}
	c.lastErr = nil
	c.lastRefresh = time.Now()
	refreshedAt := c.lastRefresh
	c.mu.Unlock()

	c.logger.Debug("Coordinator.refresh: snapshot updated", "device", info.DeviceID, "on", state.On, "brightness", state.Brightness.Percentage)
	c.notify(models.RefreshResult{Snapshot: snap.Clone(), HasSnapshot: true, Time: refreshedAt})
	return flight{seq: seq, snap: snap}, nil
}

// fail records err and tells listeners; the cached snapshot is kept.
func (c *Coordinator) fail(err error) error {
	if klyqa.IsConnectionError(err) {
		c.logger.Warn("Device unreachable", "device", c.deviceName, "err", err)
	} else {
		c.logger.Error("Error refreshing device state", "device", c.deviceName, "err", err)
	}

	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	snap, ok := c.Snapshot()
	c.notify(models.RefreshResult{Snapshot: snap, HasSnapshot: ok, Err: err, Time: time.Now()})
	return err
}

// Snapshot returns a copy of the cached snapshot, false if the device has
// never been read.
func (c *Coordinator) Snapshot() (models.Snapshot, bool) {
	snap := c.snapshot.Load()
	if snap == nil {
		return models.Snapshot{}, false
	}
	return snap.Clone(), true
}

func (c *Coordinator) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Coordinator) LastRefresh() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRefresh
}

// Subscribe registers a listener called after every refresh, successful or
// not. Results reach each listener in order on a goroutine of its own; a
// listener that falls behind loses its oldest undelivered results. No call is
// made after unsubscribe returns, so a listener must not unsubscribe itself.
func (c *Coordinator) Subscribe(listener Listener) (unsubscribe func()) {
	sub := &subscription{
		listener: listener,
		queue:    make(chan models.RefreshResult, listenerQueueSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go sub.run()

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscriptions[id] = sub
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscriptions, id)
			c.mu.Unlock()

			close(sub.stop)
			<-sub.done
		})
	}
}

// notify queues result for every listener without waiting on any of them.
func (c *Coordinator) notify(result models.RefreshResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, sub := range c.subscriptions {
		select {
		case sub.queue <- result:
			continue
		default:
		}
		// full: drop the oldest so the listener ends on the latest outcome
		select {
		case <-sub.queue:
			c.logger.Warn("Listener falling behind, dropped a refresh result", "listener", id)
		default:
		}
		select {
		case sub.queue <- result:
		default:
		}
	}
}
