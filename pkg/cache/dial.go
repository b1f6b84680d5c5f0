package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNetwork marks a remote backend that did not answer its ping.
	ErrNetwork = errors.New("cache backend unreachable")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// Ping retry schedule. The delay doubles after each failed attempt.
var (
	pingAttempts = 3
	pingDelay    = time.Second
)

// ping checks a freshly created client. A server started together with its
// Redis or MongoDB container may come up before the backend accepts
// connections, so failed pings are retried a few times. The last failure is
// returned wrapped in ErrNetwork.
func ping(ctx context.Context, backend string, fn func(context.Context) error) error {
	delay := pingDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= pingAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrNetwork, backend, err)
}
