package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mchmarny/agrodash/pkg/menu"
	"github.com/mchmarny/agrodash/pkg/operation"
	"github.com/mchmarny/agrodash/pkg/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyPort        = "port"
	keyLoadTimeout = "load-timeout"
	keyLoadRetries = "load-retries"
	keyTLSCert     = "tls-cert"
	keyTLSKey      = "tls-key"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the menu API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.Int(keyPort, server.DefaultPort, "port to run the server on")
	f.Duration(keyLoadTimeout, 10*time.Second, "timeout for loading the menu configuration")
	f.Int(keyLoadRetries, operation.DefaultMaxRetries, "retries for loading the menu configuration")
	f.String(keyTLSCert, "", "TLS certificate file")
	f.String(keyTLSKey, "", "TLS key file")

	for _, k := range []string{keyPort, keyLoadTimeout, keyLoadRetries, keyTLSCert, keyTLSKey} {
		mustBind(f.Lookup(k))
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting agrodash", "commit", commit, "date", date)

	reg := prometheus.NewRegistry()

	cfg, err := loadMenuConfig(ctx, viper.GetString(keyMenuConfig),
		operation.WithTimeout(viper.GetDuration(keyLoadTimeout)),
		operation.WithMaxRetries(viper.GetInt(keyLoadRetries)),
		operation.WithAutoRetry(true),
		operation.WithRegisterer(reg),
	)
	if err != nil {
		return fmt.Errorf("loading menu configuration: %w", err)
	}

	model, err := menu.NewModel(cfg, menu.WithRegisterer(reg))
	if err != nil {
		return fmt.Errorf("creating menu model: %w", err)
	}

	opts := []server.Option{
		server.WithPort(viper.GetInt(keyPort)),
		server.WithMetrics(reg),
	}
	if cert, key := viper.GetString(keyTLSCert), viper.GetString(keyTLSKey); cert != "" || key != "" {
		opts = append(opts, server.WithTLS(server.TLSConfig{CertFile: cert, KeyFile: key}))
	}

	return model.Run(ctx, opts...)
}
