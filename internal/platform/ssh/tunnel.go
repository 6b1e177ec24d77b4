package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/ssh"

	"github.com/imamik/kspray/internal/util/netutil"
)

// TunnelTimeoutError reports a tunnel whose local endpoint never became reachable.
type TunnelTimeoutError struct {
	LocalAddress  string
	RemoteAddress string
	Err           error
}

func (e *TunnelTimeoutError) Error() string {
	return fmt.Sprintf("tunnel %s -> %s not ready: %v", e.LocalAddress, e.RemoteAddress, e.Err)
}

func (e *TunnelTimeoutError) Unwrap() error {
	return e.Err
}

// Tunnel forwards connections accepted on a local address to a remote
// address reachable from the SSH host.
type Tunnel struct {
	client   *ssh.Client
	listener net.Listener
	remote   string
	log      logr.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// OpenTunnel connects to the SSH host and starts forwarding local to
// remote. Pass port 0 in local to pick a free port; LocalAddr reports it.
// The tunnel runs until Close.
func (c *Client) OpenTunnel(ctx context.Context, local, remote string) (*Tunnel, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", local)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", local, err)
	}

	t := &Tunnel{
		client:   client,
		listener: listener,
		remote:   remote,
		log:      c.config.Log.WithValues("local", listener.Addr().String(), "remote", remote),
	}

	t.wg.Add(1)
	go t.acceptLoop()

	t.log.V(1).Info("tunnel listening", "via", c.Address())
	return t, nil
}

// LocalAddr returns the address the tunnel listens on.
func (t *Tunnel) LocalAddr() string {
	return t.listener.Addr().String()
}

// LocalPort returns the port the tunnel listens on.
func (t *Tunnel) LocalPort() int {
	return t.listener.Addr().(*net.TCPAddr).Port
}

// RemoteAddr returns the forwarded destination.
func (t *Tunnel) RemoteAddr() string {
	return t.remote
}

// Wait polls the forwarded destination through the SSH connection until it
// accepts a connection. Exhausting the attempts returns a *TunnelTimeoutError.
func (t *Tunnel) Wait(ctx context.Context, attempts int, interval time.Duration) error {
	dial := func(ctx context.Context, address string) (net.Conn, error) {
		return t.client.DialContext(ctx, "tcp", address)
	}

	if err := netutil.Poll(ctx, dial, t.remote, attempts, interval); err != nil {
		var timeoutErr *netutil.TimeoutError
		if errors.As(err, &timeoutErr) {
			return &TunnelTimeoutError{LocalAddress: t.LocalAddr(), RemoteAddress: t.remote, Err: err}
		}
		return err
	}
	return nil
}

// Close stops accepting, closes the SSH connection and waits for the
// forwarding goroutines to finish. It is safe to call more than once.
func (t *Tunnel) Close() error {
	t.closeOnce.Do(func() {
		lerr := t.listener.Close()
		cerr := t.client.Close()
		t.wg.Wait()
		t.closeErr = errors.Join(ignoreClosed(lerr), ignoreClosed(cerr))
	})
	return t.closeErr
}

func (t *Tunnel) acceptLoop() {
	defer t.wg.Done()
	for {
		conn, err := t.listener.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				t.log.Error(err, "tunnel accept failed")
			}
			return
		}

		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			t.forward(conn)
		}()
	}
}

func (t *Tunnel) forward(local net.Conn) {
	defer func() { _ = local.Close() }()

	remote, err := t.client.Dial("tcp", t.remote)
	if err != nil {
		t.log.V(1).Info("remote dial failed", "error", err.Error())
		return
	}
	defer func() { _ = remote.Close() }()

	done := make(chan struct{}, 2)
	go func() {
		_, _ = io.Copy(remote, local)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(local, remote)
		done <- struct{}{}
	}()

	// Either direction ending tears down the pair; the deferred closes
	// unblock the other copier.
	<-done
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}
