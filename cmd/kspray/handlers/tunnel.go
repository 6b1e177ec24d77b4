package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kspray/internal/config"
)

// loadTimeouts is replaced in tests.
var loadTimeouts = config.LoadTimeouts

// Tunnel opens the SSH tunnel to the API server and holds it until ctx is
// cancelled, normally by Ctrl+C.
func Tunnel(ctx context.Context, opts Options) error {
	s, err := newSession(opts)
	if err != nil {
		return err
	}
	defer s.close()

	installer := s.installer()
	tun, err := installer.OpenTunnel(ctx, s.log, loadTimeouts())
	if err != nil {
		return err
	}
	defer func() {
		if err := tun.Close(); err != nil {
			s.log.Error(err, "failed to close tunnel")
		}
	}()

	st := newStyles()
	fmt.Fprintln(stdout, st.title.Render("Tunnel open"))
	fmt.Fprintf(stdout, "  %s -> %s\n", tun.LocalAddr(), tun.RemoteAddr())
	fmt.Fprintln(stdout, st.dim.Render("  Press Ctrl+C to close."))

	<-ctx.Done()
	s.log.Info("closing tunnel")
	return nil
}
