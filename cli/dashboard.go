package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/instrsim/instrsim/dashboard"
)

// dashboard serves the web dashboard, searching for a free port from the
// configured one.
func (a *App) dashboard(ctx *cli.Context) error {
	host := a.cfg.Dashboard.Host
	if ctx.IsSet("host") {
		host = ctx.String("host")
	}
	port := a.cfg.Dashboard.Port
	if ctx.IsSet("port") {
		port = ctx.Int("port")
	}

	srv := dashboard.New(a.logger, a.cfg.ReportsDir)

	l, boundPort, err := dashboard.Listen(host, port, a.cfg.Dashboard.PortAttempts)
	if err != nil {
		return fmt.Errorf("failed to bind dashboard: %w", err)
	}
	if boundPort != port {
		a.logger.Warn().Int("requested", port).Int("bound", boundPort).Msg("Requested port occupied, using fallback")
	}

	a.logger.Info().Str("url", fmt.Sprintf("http://%s:%d/", host, boundPort)).Msg("Dashboard listening")
	fmt.Printf("Dashboard running at http://%s:%d/ (Ctrl+C to stop)\n", host, boundPort)
	return srv.Serve(l)
}
