package sender

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/elphone/storebot/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueFull is returned when the outbound queue has no free slot.
	ErrQueueFull = errors.New("sender: queue full")
	// ErrQueueClosed is returned after Shutdown has begun.
	ErrQueueClosed = errors.New("sender: queue closed")
)

// Options configures the asynchronous sender.
type Options struct {
	Workers    int
	QueueSize  int
	MaxRetries int
	BaseDelay  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 2
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 300 * time.Millisecond
	}
	return o
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
	enqueued time.Time
}

// Dispatcher delivers outbound Telegram calls through a bounded queue with
// worker-side retry on transient failures.
type Dispatcher struct {
	opts   Options
	jobs   chan job
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
}

// NewDispatcher starts worker goroutines and returns a running dispatcher.
func NewDispatcher(opts Options) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{
		opts:   opts,
		jobs:   make(chan job, opts.QueueSize),
		closed: make(chan struct{}),
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Enqueue schedules an outbound call. It never blocks: if the queue is full
// the caller gets ErrQueueFull and may fall back to a synchronous send.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	select {
	case <-d.closed:
		return ErrQueueClosed
	default:
	}

	j := job{ctx: ctx, action: action, endpoint: endpoint, run: run, enqueued: time.Now()}
	select {
	case d.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops intake and waits for in-flight jobs up to ctx deadline.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.once.Do(func() {
		close(d.closed)
		close(d.jobs)
	})

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake and waits briefly for in-flight jobs to drain.
func (d *Dispatcher) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = d.Shutdown(ctx)
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	start := time.Now()
	var err error
	for attempt := 1; attempt <= d.opts.MaxRetries; attempt++ {
		err = j.run()
		if err == nil {
			break
		}
		retryable, wait := classifyError(err)
		if !retryable || attempt == d.opts.MaxRetries {
			break
		}
		if wait <= 0 {
			wait = d.opts.BaseDelay * time.Duration(attempt)
		}
		time.Sleep(wait)
	}

	if err != nil {
		logger.Error(j.ctx, "tg.sender", "send.failed",
			slog.String("status", logger.Status(err)),
			slog.String("action", j.action),
			slog.String("endpoint", j.endpoint),
			slog.String("err", RedactToken(err.Error())),
			slog.Duration("took", logger.Took(start)),
		)
		return
	}
	if logger.ShouldSampleDebug() {
		logger.Debug(j.ctx, "tg.sender", "send.ok",
			slog.String("status", "ok"),
			slog.String("action", j.action),
			slog.String("endpoint", j.endpoint),
			slog.Duration("queue_wait", logger.RoundMS(time.Since(j.enqueued))),
			slog.Duration("took", logger.Took(start)),
		)
	}
}

// classifyError reports whether an API error is worth retrying and, for flood
// waits, how long to pause before the next attempt.
func classifyError(err error) (bool, time.Duration) {
	if err == nil {
		return false, 0
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return true, time.Duration(flood.RetryAfter) * time.Second
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporarily unavailable"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "bad gateway"),
		strings.Contains(msg, "gateway timeout"):
		return true, 0
	}
	return false, 0
}

var tokenPattern = regexp.MustCompile(`bot\d+:[\w-]+`)

// RedactToken removes bot tokens from error strings before they reach logs.
func RedactToken(s string) string {
	return tokenPattern.ReplaceAllString(s, "bot<redacted>")
}
