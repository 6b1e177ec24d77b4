// Package ssh opens the SSH local port forward kspray uses to reach the
// Kubernetes API of the primary control-plane node when that port is not
// exposed directly.
//
// [Client] dials with key-based authentication and retries transient dial
// failures; [Client.OpenTunnel] listens locally and forwards every accepted
// connection over the SSH session.
package ssh
