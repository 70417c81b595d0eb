// Package operation runs a named unit of asynchronous work with a bounded
// duration, uniform error classification and optional automatic retry.
//
// A Controller tracks loading, error and retry state for one operation so a
// dashboard page can drive its spinner, error banner and retry button from it.
// Execute blocks until the terminal outcome: when auto-retry is enabled the
// retries run inside the same call and only the final result or the last
// classified error is returned. Intermediate failures are still recorded in
// State, logged and counted.
package operation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mchmarny/agrodash/pkg/logger"
)

// Work is one unit of asynchronous work. Its context is cancelled when the
// attempt times out or the caller gives up; the controller does not wait for
// Work to observe that.
type Work[T any] func(ctx context.Context) (T, error)

// State is a snapshot of a controller's observable state.
type State struct {
	IsLoading  bool   `json:"isLoading"`
	Err        *Error `json:"-"`
	RetryCount int    `json:"retryCount"`
	IsRetrying bool   `json:"isRetrying"`
}

// Controller runs one named operation. It is safe for concurrent use; two
// overlapping Execute calls run independent timeouts and share the retry
// counter.
type Controller[T any] struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metrics

	mu    sync.Mutex
	state State
	// epoch changes on every Reset; attempts started in an older epoch do not
	// record their outcome.
	epoch  uint64
	abort  chan struct{}
	closed chan struct{}
	once   sync.Once
}

type result[T any] struct {
	val T
	err error
}

// New creates a controller. Without options it uses DefaultConfig.
func New[T any](opts ...Option) *Controller[T] {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg.normalize()

	return &Controller[T]{
		cfg:     cfg,
		logger:  logger.OrDefault(o.logger).With("operation", cfg.Name),
		metrics: newMetrics(o.registerer),
		abort:   make(chan struct{}),
		closed:  make(chan struct{}),
	}
}

// Config returns the effective configuration.
func (c *Controller[T]) Config() Config {
	return c.cfg
}

// State returns a snapshot of the current state.
func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CanRetry reports whether a manual retry is possible and useful.
func (c *Controller[T]) CanRetry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RetryCount < c.cfg.MaxRetries && c.state.Err != nil && c.state.Err.Retryable
}

// HasMaxRetries reports whether the retry budget is spent.
func (c *Controller[T]) HasMaxRetries() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RetryCount >= c.cfg.MaxRetries
}

// ErrorMessage returns the user-facing message of the recorded error, if any.
func (c *Controller[T]) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Err == nil {
		return ""
	}
	return c.state.Err.Message
}

// RetryDelay returns the wait an automatic retry of the recorded error would use.
func (c *Controller[T]) RetryDelay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Err == nil {
		return 0
	}
	return c.delayFor(c.state.Err)
}

// Execute runs work until it succeeds, fails terminally, or the controller is
// closed. It returns ErrClosed, without touching state, when Cleanup happens
// before the outcome is known, including during an automatic retry delay.
// Attributes attached to ctx with WithLogAttrs are added to every log event.
func (c *Controller[T]) Execute(ctx context.Context, work Work[T]) (T, error) {
	var zero T
	log := c.logger.With("invocation", uuid.NewString()).With(logAttrs(ctx)...)

	for n := 1; ; n++ {
		val, epoch, err := c.attempt(ctx, log, n, work)
		if err == nil {
			return val, nil
		}

		cerr, ok := err.(*Error)
		if !ok {
			return zero, err
		}

		delay, abort, scheduled := c.scheduleRetry(epoch, cerr)
		if !scheduled {
			return zero, cerr
		}

		log.InfoContext(ctx, "auto-retrying operation",
			"retry_count", c.State().RetryCount+1,
			"delay", delay,
			"kind", cerr.Kind.String())

		proceed := c.wait(ctx, delay, abort)
		if !c.endRetry(epoch, proceed) {
			if c.isClosed() {
				return zero, ErrClosed
			}
			return zero, cerr
		}
		c.metrics.retry(c.cfg.Name, "auto")
	}
}

// Retry increments the retry counter, clears the error and runs Execute. It
// fails with ErrMaxRetries, without running work, once the budget is spent.
func (c *Controller[T]) Retry(ctx context.Context, work Work[T]) (T, error) {
	var zero T

	c.mu.Lock()
	if c.isClosed() {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if c.state.RetryCount >= c.cfg.MaxRetries {
		count := c.state.RetryCount
		c.mu.Unlock()

		c.logger.With(logAttrs(ctx)...).WarnContext(ctx, "maximum retry attempts reached",
			"retry_count", count,
			"max_retries", c.cfg.MaxRetries)
		return zero, fmt.Errorf("%s: %w", c.cfg.Name, ErrMaxRetries)
	}
	c.state.RetryCount++
	c.state.Err = nil
	c.mu.Unlock()

	c.metrics.retry(c.cfg.Name, "manual")

	return c.Execute(ctx, work)
}

// Reset clears all state and aborts a pending automatic retry.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed() {
		return
	}

	c.state = State{}
	c.epoch++
	close(c.abort)
	c.abort = make(chan struct{})
}

// Cleanup tears the controller down. Pending waits are aborted and no state is
// mutated afterwards. It is safe to call more than once.
func (c *Controller[T]) Cleanup() {
	c.once.Do(func() {
		c.mu.Lock()
		close(c.closed)
		c.mu.Unlock()

		c.logger.Debug("operation controller closed")
	})
}

func (c *Controller[T]) attempt(ctx context.Context, log *slog.Logger, n int, work Work[T]) (T, uint64, error) {
	var zero T

	c.mu.Lock()
	if c.isClosed() {
		c.mu.Unlock()
		return zero, 0, ErrClosed
	}
	epoch := c.epoch
	retryCount := c.state.RetryCount
	c.state.Err = nil
	c.state.IsLoading = true
	c.mu.Unlock()

	log = log.With("attempt", n)
	log.InfoContext(ctx, "starting operation", "retry_count", retryCount)
	c.metrics.attempt(c.cfg.Name)

	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result[T]{err: fmt.Errorf("operation panicked: %v", r)}
			}
		}()
		v, err := work(attemptCtx)
		done <- result[T]{val: v, err: err}
	}()

	start := time.Now()
	timer := time.NewTimer(c.cfg.Timeout)
	defer timer.Stop()

	var cerr *Error
	select {
	case r := <-done:
		if r.err == nil {
			switch c.record(epoch, nil) {
			case outcomeClosed:
				return zero, epoch, ErrClosed
			case outcomeStale:
				log.DebugContext(ctx, "stale outcome dropped", "outcome", "success")
			default:
				c.metrics.success(c.cfg.Name, time.Since(start))
				log.InfoContext(ctx, "operation completed", "duration", time.Since(start))
			}
			return r.val, epoch, nil
		}
		cerr = Classify(c.cfg.Name, r.err)
	case <-timer.C:
		cerr = NewTimeoutError(c.cfg.Name, c.cfg.Timeout)
	case <-ctx.Done():
		cerr = Classify(c.cfg.Name, ctx.Err())
	case <-c.closed:
		return zero, epoch, ErrClosed
	}

	switch c.record(epoch, cerr) {
	case outcomeClosed:
		return zero, epoch, ErrClosed
	case outcomeStale:
		log.DebugContext(ctx, "stale outcome dropped",
			"outcome", "failure",
			"kind", cerr.Kind.String(),
			"error", cerr.Cause)
		return zero, epoch, cerr
	}
	c.metrics.failure(c.cfg.Name, cerr.Kind, time.Since(start))

	log.Log(ctx, cerr.Kind.logLevel(), "operation failed",
		"kind", cerr.Kind.String(),
		"retryable", cerr.Retryable,
		"retry_count", retryCount,
		"max_retries", c.cfg.MaxRetries,
		"error", cerr.Cause)

	return zero, epoch, cerr
}

type outcome int

const (
	outcomeRecorded outcome = iota
	// outcomeStale means a Reset happened while the attempt was in flight.
	outcomeStale
	outcomeClosed
)

// record applies an attempt outcome to state unless the controller is closed
// or was reset since the attempt started.
func (c *Controller[T]) record(epoch uint64, cerr *Error) outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed() {
		return outcomeClosed
	}
	if epoch != c.epoch {
		return outcomeStale
	}

	c.state.IsLoading = false
	if cerr == nil {
		c.state.RetryCount = 0
		return outcomeRecorded
	}
	c.state.Err = cerr
	return outcomeRecorded
}

func (c *Controller[T]) scheduleRetry(epoch uint64, cerr *Error) (time.Duration, <-chan struct{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.AutoRetry || !cerr.Retryable || c.isClosed() || epoch != c.epoch {
		return 0, nil, false
	}
	if c.state.RetryCount >= c.cfg.MaxRetries {
		return 0, nil, false
	}

	c.state.IsRetrying = true
	return c.delayFor(cerr), c.abort, true
}

// endRetry closes the retry window. When proceed is true the counter is
// incremented; it returns false if the retry must not run. The budget is
// checked again since overlapping calls share the counter.
func (c *Controller[T]) endRetry(epoch uint64, proceed bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed() || epoch != c.epoch {
		return false
	}

	c.state.IsRetrying = false
	if !proceed || c.state.RetryCount >= c.cfg.MaxRetries {
		return false
	}
	c.state.RetryCount++
	return true
}

func (c *Controller[T]) wait(ctx context.Context, d time.Duration, abort <-chan struct{}) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-abort:
	case <-c.closed:
	case <-ctx.Done():
	}
	return false
}

func (c *Controller[T]) delayFor(cerr *Error) time.Duration {
	if c.cfg.RetryDelay > 0 {
		return c.cfg.RetryDelay
	}
	if cerr.Delay > 0 {
		return cerr.Delay
	}
	return DefaultTransientDelay
}

func (c *Controller[T]) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}
