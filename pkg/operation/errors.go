package operation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

var (
	// ErrClosed is returned once Cleanup has been called on a controller.
	ErrClosed = errors.New("operation controller closed")

	// ErrMaxRetries is returned by Retry when the retry budget is spent.
	ErrMaxRetries = errors.New("maximum retry attempts reached")
)

const (
	// DefaultTimeoutDelay is the wait before auto-retrying a timed out attempt.
	DefaultTimeoutDelay = time.Second

	// DefaultTransientDelay is the wait before auto-retrying a transient failure.
	DefaultTransientDelay = time.Second
)

// User-facing messages for common permanent failures, for use with Permanent.
const (
	MessageValidation   = "Please check your input and try again."
	MessageBusinessRule = "This action cannot be completed due to business rules."
	MessageConfig       = "System configuration error. Please contact support."
)

// Kind classifies a failed attempt.
type Kind int

const (
	// KindPermanent failures are not retried.
	KindPermanent Kind = iota
	// KindTransient failures are presumed recoverable.
	KindTransient
	// KindTimeout means the attempt did not settle within the configured timeout.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransient:
		return "transient"
	default:
		return "permanent"
	}
}

// Retryable reports whether failures of this kind may be retried.
func (k Kind) Retryable() bool {
	switch k {
	case KindTimeout, KindTransient:
		return true
	default:
		return false
	}
}

func (k Kind) userMessage() string {
	switch k {
	case KindTimeout:
		return "The operation took too long to complete. Please try again."
	case KindTransient:
		return "Network connection issue. Please check your connection and try again."
	default:
		return "This action could not be completed."
	}
}

func (k Kind) logLevel() slog.Level {
	if k.Retryable() {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// Error is a classified failure of a named operation.
type Error struct {
	Kind      Kind
	Operation string
	// Message is safe to show to an end user.
	Message   string
	Retryable bool
	// Delay is the suggested wait before an automatic retry.
	Delay time.Duration
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("operation %s failed (%s): %v", e.Operation, e.Kind, e.Cause)
	}
	return fmt.Sprintf("operation %s failed (%s)", e.Operation, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(op string, kind Kind, delay time.Duration, cause error) *Error {
	if !kind.Retryable() {
		delay = 0
	}
	return &Error{
		Kind:      kind,
		Operation: op,
		Message:   kind.userMessage(),
		Retryable: kind.Retryable(),
		Delay:     delay,
		Cause:     cause,
	}
}

// NewTimeoutError reports an attempt that exceeded timeout.
func NewTimeoutError(op string, timeout time.Duration) *Error {
	return newError(op, KindTimeout, DefaultTimeoutDelay,
		fmt.Errorf("timed out after %s", timeout))
}

type transientError struct {
	err   error
	delay time.Duration
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

type permanentError struct {
	err     error
	message string
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not retryable and replaces the generic user-facing
// message with message. An empty message keeps the generic one.
func Permanent(err error, message string) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err, message: message}
}

// Transient marks err as recoverable so the controller may retry it.
func Transient(err error) error {
	return TransientAfter(err, DefaultTransientDelay)
}

// TransientAfter marks err as recoverable with a suggested retry delay.
func TransientAfter(err error, delay time.Duration) error {
	if err == nil {
		return nil
	}
	if delay <= 0 {
		delay = DefaultTransientDelay
	}
	return &transientError{err: err, delay: delay}
}

// Classify maps any error returned by operation work onto the taxonomy.
// It never fails; a nil err yields nil.
func Classify(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	var pe *permanentError
	if errors.As(err, &pe) {
		e := newError(op, KindPermanent, 0, err)
		if pe.message != "" {
			e.Message = pe.message
		}
		return e
	}

	var te *transientError
	if errors.As(err, &te) {
		return newError(op, KindTransient, te.delay, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return newError(op, KindTimeout, DefaultTimeoutDelay, err)
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return newError(op, KindTransient, DefaultTransientDelay, err)
	}

	var tmp interface{ Temporary() bool }
	if errors.As(err, &tmp) && tmp.Temporary() {
		return newError(op, KindTransient, DefaultTransientDelay, err)
	}

	return newError(op, KindPermanent, 0, err)
}
