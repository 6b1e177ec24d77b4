package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/imamik/kspray/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 5
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
)

// Config holds SSH client configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection retry attempts.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used, matching Ansible runs with
	// host key checking disabled.
	HostKeyCallback ssh.HostKeyCallback

	// Log receives retry and forwarding diagnostics.
	Log logr.Logger
}

// Client dials a remote host over SSH.
// It parses the private key once during construction.
type Client struct {
	config *Config
	signer ssh.Signer
}

// NewClient creates a new SSH client and validates the private key.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	// Copy config to avoid mutating caller's struct
	configCopy := *cfg

	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // Same trust model as the Ansible run
	}
	if configCopy.Log.GetSink() == nil {
		configCopy.Log = logr.Discard()
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Client{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Address returns the host:port the client dials.
func (c *Client) Address() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

// connect establishes the SSH connection with retry logic. Authentication
// failures are not retried.
func (c *Client) connect(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: c.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(c.signer),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.DialTimeout,
	}

	addr := c.Address()
	var client *ssh.Client

	err := retry.Do(ctx, func(ctx context.Context) error {
		d := net.Dialer{Timeout: c.config.DialTimeout}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return err
		}

		sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
		if err != nil {
			_ = conn.Close()
			if isPermanent(err) {
				return retry.Fatal(err)
			}
			return err
		}
		client = ssh.NewClient(sshConn, chans, reqs)
		return nil
	},
		retry.WithMaxRetries(c.config.MaxRetries),
		retry.WithInitialDelay(c.config.RetryDelay),
		retry.WithMaxDelay(defaultMaxDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			c.config.Log.V(1).Info("ssh dial failed, retrying", "host", addr, "attempt", attempt, "delay", delay.String(), "error", err.Error())
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	return client, nil
}

// isPermanent reports handshake failures a retry cannot fix.
func isPermanent(err error) bool {
	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		return true
	}
	var revoked *knownhosts.RevokedError
	if errors.As(err, &revoked) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unable to authenticate") || strings.Contains(msg, "knownhosts:")
}

// HostKeyCallbackFromFile verifies host keys against an OpenSSH known_hosts file.
func HostKeyCallbackFromFile(path string) (ssh.HostKeyCallback, error) {
	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts from %s: %w", path, err)
	}
	return callback, nil
}
