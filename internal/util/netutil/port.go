// Package netutil provides network utility functions for port checking.
package netutil

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultAttempts is the number of probes made by a default readiness wait.
	DefaultAttempts = 10
	// DefaultInterval is the delay between probes.
	DefaultInterval = 1 * time.Second
	// DialTimeout bounds a single probe.
	DialTimeout = 2 * time.Second
)

// TimeoutError reports an exhausted readiness wait.
type TimeoutError struct {
	Address  string
	Attempts int
	LastErr  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s not reachable after %d attempts: %v", e.Address, e.Attempts, e.LastErr)
}

func (e *TimeoutError) Unwrap() error {
	return e.LastErr
}

// DialFunc opens a connection to address.
type DialFunc func(ctx context.Context, address string) (net.Conn, error)

// dial is replaced in tests.
var dial DialFunc = func(ctx context.Context, address string) (net.Conn, error) {
	d := net.Dialer{Timeout: DialTimeout}
	return d.DialContext(ctx, "tcp", address)
}

// WaitForPort probes host:port up to attempts times, sleeping interval
// between probes, and returns once a TCP connection succeeds. Exhaustion
// returns a *TimeoutError; cancellation returns the context error.
func WaitForPort(ctx context.Context, host string, port, attempts int, interval time.Duration) error {
	return Poll(ctx, dial, net.JoinHostPort(host, strconv.Itoa(port)), attempts, interval)
}

// Poll is WaitForPort with a caller-supplied dialer, for probing through a
// proxy or tunnel.
func Poll(ctx context.Context, dial DialFunc, address string, attempts int, interval time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		conn, err := dial(ctx, address)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		lastErr = err

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return &TimeoutError{Address: address, Attempts: attempts, LastErr: lastErr}
}
