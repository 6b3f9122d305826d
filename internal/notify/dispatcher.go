package notify

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Config tunes a Dispatcher.
type Config struct {
	Workers         int
	Buffer          int
	MaxAttempts     int
	RetryInitial    time.Duration
	RetryMax        time.Duration
	DeliveryTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Buffer <= 0 {
		c.Buffer = c.Workers * 64
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = 100 * time.Millisecond
	}
	if c.RetryMax <= 0 {
		c.RetryMax = 5 * time.Second
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = 5 * time.Second
	}
	return c
}

// Stats counts what happened to accepted notifications.
type Stats struct {
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
}

// Dispatcher fans notifications out to its sinks from a pool of workers fed
// by a bounded queue.
type Dispatcher struct {
	cfg    Config
	sinks  []Sink
	logger *logrus.Logger
	queue  chan Notification
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	delivered atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// NewDispatcher starts the workers. Close must be called to stop them.
func NewDispatcher(cfg Config, logger *logrus.Logger, sinks ...Sink) *Dispatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	d := &Dispatcher{
		cfg:    cfg.withDefaults(),
		sinks:  sinks,
		logger: logger,
	}
	d.queue = make(chan Notification, d.cfg.Buffer)

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

// Notify queues n. It never blocks: when the queue is full or the dispatcher
// is closed the notification is dropped with a warning.
func (d *Dispatcher) Notify(n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(n, "dispatcher closed")
		return
	}

	select {
	case d.queue <- n:
	default:
		d.drop(n, "queue saturated")
	}
}

// Close stops accepting notifications and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

func (d *Dispatcher) drop(n Notification, reason string) {
	d.dropped.Add(1)
	d.logger.WithFields(logrus.Fields{
		"event_id": n.EventID,
		"user_id":  n.UserID,
		"reason":   reason,
	}).Warn("notification dropped")
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for n := range d.queue {
		for _, sink := range d.sinks {
			d.deliver(id, sink, n)
		}
	}
}

func (d *Dispatcher) deliver(workerID int, sink Sink, n Notification) {
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DeliveryTimeout)
		err := sink.Deliver(ctx, n)
		cancel()
		if err == nil {
			d.delivered.Add(1)
			return
		}

		entry := d.logger.WithError(err).WithFields(logrus.Fields{
			"worker":   workerID,
			"sink":     sink.Name(),
			"event_id": n.EventID,
			"user_id":  n.UserID,
			"attempt":  attempt,
		})
		if attempt == d.cfg.MaxAttempts {
			d.failed.Add(1)
			entry.Error("notification delivery failed")
			return
		}
		entry.Warn("notification delivery failed, retrying")
		time.Sleep(exponentialBackoff(attempt, d.cfg.RetryInitial, d.cfg.RetryMax))
	}
}

func exponentialBackoff(attempt int, initial, max time.Duration) time.Duration {
	if attempt <= 0 {
		return initial
	}
	backoff := float64(initial) * math.Pow(2, float64(attempt-1))
	if backoff > float64(max) {
		backoff = float64(max)
	}
	jitter := 0.2 * backoff
	return time.Duration(backoff + (rand.Float64()-0.5)*2*jitter)
}
