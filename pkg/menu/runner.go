package menu

import (
	"context"
	"net/http"

	"github.com/mchmarny/agrodash/pkg/server"
)

// Run serves the menu endpoints, /healthz and any extra server options, and
// blocks until the context is canceled or the server fails.
func (m *Model) Run(ctx context.Context, opt ...server.Option) error {
	m.logger.Info("starting menu service",
		"default_section", m.cfg.DefaultSection,
		"base_entries", len(m.cfg.Base),
		"admin_entries", len(m.cfg.Admin))

	opts := []server.Option{server.WithSimpleHealth()}
	m.RegisterHandlers(func(pattern string, h http.Handler) {
		opts = append(opts, server.WithHandler(pattern, h))
	})
	opts = append(opts, opt...)

	return server.New(opts...).Serve(ctx)
}
