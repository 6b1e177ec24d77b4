package orchestration

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/go-logr/logr"

	"github.com/imamik/kspray/internal/config"
	"github.com/imamik/kspray/internal/logging"
	"github.com/imamik/kspray/internal/pipeline"
	"github.com/imamik/kspray/internal/platform/ssh"
)

// TunnelRequest describes the forward to open.
type TunnelRequest struct {
	SSH ssh.Config

	// Local is the listen address, Remote the address dialed from the SSH host.
	Local  string
	Remote string
}

func openSSHTunnel(ctx context.Context, req TunnelRequest) (Tunnel, error) {
	client, err := ssh.NewClient(&req.SSH)
	if err != nil {
		return nil, err
	}
	tun, err := client.OpenTunnel(ctx, req.Local, req.Remote)
	if err != nil {
		return nil, err
	}
	return tun, nil
}

// NewTunnelRequest builds the forward from 127.0.0.1:<local_port> through the
// primary control-plane node's public address to its private API endpoint.
func (i *Installer) NewTunnelRequest(log logr.Logger, timeouts *config.Timeouts) (TunnelRequest, error) {
	topo, err := i.topology()
	if err != nil {
		return TunnelRequest{}, err
	}
	primary := topo.Primary()
	tc := i.config.Tunnel

	// #nosec G304 - path is the configured SSH key
	key, err := os.ReadFile(tc.PrivateKeyPath)
	if err != nil {
		return TunnelRequest{}, fmt.Errorf("failed to read SSH private key: %w", err)
	}

	req := TunnelRequest{
		SSH: ssh.Config{
			Host:       primary.PublicAddress.String(),
			Port:       tc.SSHPort,
			User:       tc.User,
			PrivateKey: key,
			MaxRetries: timeouts.SSHMaxRetries,
			RetryDelay: timeouts.SSHRetryDelay,
			Log:        log,
		},
		Local:  net.JoinHostPort("127.0.0.1", strconv.Itoa(tc.LocalPort)),
		Remote: net.JoinHostPort(primary.PrivateAddress.String(), strconv.Itoa(i.config.Inventory.APIPort)),
	}

	if tc.KnownHostsPath != "" {
		callback, err := ssh.HostKeyCallbackFromFile(tc.KnownHostsPath)
		if err != nil {
			return TunnelRequest{}, err
		}
		req.SSH.HostKeyCallback = callback
	}
	return req, nil
}

// OpenTunnel opens the forward and waits until the API server answers
// through it. The caller closes the returned tunnel.
func (i *Installer) OpenTunnel(ctx context.Context, log logr.Logger, timeouts *config.Timeouts) (Tunnel, error) {
	req, err := i.NewTunnelRequest(log, timeouts)
	if err != nil {
		return nil, err
	}

	log.Info("opening tunnel", logging.KeyHost, req.SSH.Host, "local", req.Local, "remote", req.Remote)
	tun, err := i.deps.OpenTunnel(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := tun.Wait(ctx, timeouts.TunnelWaitAttempts, timeouts.TunnelWaitInterval); err != nil {
		_ = tun.Close()
		return nil, err
	}

	log.Info("tunnel ready", "local", tun.LocalAddr(), "remote", tun.RemoteAddr())
	return tun, nil
}

func (i *Installer) openTunnel(ctx *pipeline.Context) error {
	if !i.config.Tunnel.Enabled {
		return pipeline.Skip("tunnel disabled")
	}
	if i.state.Tunnel != nil {
		return pipeline.Skip("tunnel already open")
	}

	tun, err := i.OpenTunnel(ctx, ctx.Log, timeoutsOf(ctx))
	if err != nil {
		return err
	}
	i.state.Tunnel = tun
	return nil
}
