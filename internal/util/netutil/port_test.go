package netutil

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (*net.TCPListener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln.(*net.TCPListener), ln.Addr().(*net.TCPAddr).Port
}

func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestWaitForPort_Success(t *testing.T) {
	t.Parallel()
	_, port := listen(t)

	err := WaitForPort(context.Background(), "127.0.0.1", port, 3, 10*time.Millisecond)
	assert.NoError(t, err)
}

func TestWaitForPort_Exhausted(t *testing.T) {
	t.Parallel()
	port := closedPort(t)

	start := time.Now()
	err := WaitForPort(context.Background(), "127.0.0.1", port, 3, 20*time.Millisecond)
	require.Error(t, err)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Contains(t, err.Error(), "not reachable after 3 attempts")
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestWaitForPort_CountsAttempts(t *testing.T) {
	orig := dial
	t.Cleanup(func() { dial = orig })

	calls := 0
	dial = func(ctx context.Context, address string) (net.Conn, error) {
		calls++
		assert.Equal(t, "10.0.0.1:6443", address)
		return nil, errors.New("connection refused")
	}

	err := WaitForPort(context.Background(), "10.0.0.1", 6443, DefaultAttempts, time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, DefaultAttempts, calls)
}

func TestWaitForPort_SucceedsOnLaterAttempt(t *testing.T) {
	orig := dial
	t.Cleanup(func() { dial = orig })

	calls := 0
	dial = func(ctx context.Context, address string) (net.Conn, error) {
		calls++
		if calls < 4 {
			return nil, errors.New("connection refused")
		}
		client, server := net.Pipe()
		_ = server.Close()
		return client, nil
	}

	require.NoError(t, WaitForPort(context.Background(), "127.0.0.1", 6443, 10, time.Millisecond))
	assert.Equal(t, 4, calls)
}

func TestWaitForPort_ContextCancelled(t *testing.T) {
	t.Parallel()
	port := closedPort(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := WaitForPort(ctx, "127.0.0.1", port, 100, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoll_CustomDialer(t *testing.T) {
	t.Parallel()
	var addresses []string
	dialer := func(ctx context.Context, address string) (net.Conn, error) {
		addresses = append(addresses, address)
		return nil, errors.New("administratively prohibited")
	}

	err := Poll(context.Background(), dialer, "10.0.1.5:6443", 2, time.Millisecond)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, "10.0.1.5:6443", timeoutErr.Address)
	assert.Equal(t, []string{"10.0.1.5:6443", "10.0.1.5:6443"}, addresses)
}
