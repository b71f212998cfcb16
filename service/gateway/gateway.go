package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/superpiccell/spen-minter/service/logger"
)

// ErrNetworkInvalid is the failure of a call that was not attempted because the wallet is on the wrong network
var ErrNetworkInvalid = errors.New("network mismatch")

// NetworkValidator is satisfied by *wallet.Session
type NetworkValidator interface {
	ValidateNetwork(ctx context.Context) bool
}

// Result is the outcome of a guarded call: either a value or the reason there is none.
// A zero or false value is a legitimate success, so callers must check OK.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a failure. A nil err is recorded as a generic failure so the result is never OK.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("guarded call failed")
	}
	return Result[T]{err: err}
}

func (r Result[T]) OK() bool {
	return r.err == nil
}

// Value returns the value, which is the zero value on failure
func (r Result[T]) Value() T {
	return r.value
}

// Get returns the value and whether the call succeeded
func (r Result[T]) Get() (T, bool) {
	return r.value, r.err == nil
}

// Err returns the failure, or nil
func (r Result[T]) Err() error {
	return r.err
}

// NetworkInvalid reports whether the call was refused because of the network check
func (r Result[T]) NetworkInvalid() bool {
	return errors.Is(r.err, ErrNetworkInvalid)
}

// ValueOr returns the value, or fallback on failure
func (r Result[T]) ValueOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Call validates the network and then runs fn. Neither a failed validation nor an error or panic
// from fn escapes: both are logged and returned as a failed Result.
func Call[T any](ctx context.Context, validator NetworkValidator, method string, fn func(ctx context.Context) (T, error)) (result Result[T]) {
	log := logger.For(ctx).WithFields(logrus.Fields{"method": method})

	if validator == nil || !validator.ValidateNetwork(ctx) {
		log.Error("Network mismatch. Please switch to the correct network.")
		return Fail[T](ErrNetworkInvalid)
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic calling contract method %s: %v", method, r)
			log.WithError(err).Error("Error calling contract method")
			result = Fail[T](err)
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		log.WithError(err).Errorf("Error calling contract method %s", method)
		return Fail[T](fmt.Errorf("%s: %w", method, err))
	}

	return Ok(v)
}
