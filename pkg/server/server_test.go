package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	s := New().(*server)
	assert.Equal(t, DefaultPort, s.port)
	assert.Equal(t, DefaultReadTimeout, s.readTimeout)
	assert.Equal(t, DefaultShutdownTimeout, s.shutdownTimeout)
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.Addr())
}

func TestServeLifecycle(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	srv := New(
		WithPort(0),
		WithShutdownTimeout(time.Second),
		WithSimpleHealth(),
		WithMetrics(reg),
		WithHandler("GET /ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("pong"))
		})),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	require.Eventually(t, srv.IsRunning, 2*time.Second, 5*time.Millisecond)
	base := fmt.Sprintf("http://%s", srv.Addr().String())

	for path, want := range map[string]string{"/healthz": "ok", "/ping": "pong"} {
		resp, err := http.Get(base + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, want, string(body))
	}

	resp, err := http.Get(base + MetricsPath)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, srv.IsRunning())
}

func TestServeTLSMissingCertificate(t *testing.T) {
	t.Parallel()

	srv := New(WithPort(0), WithTLS(TLSConfig{CertFile: "missing.pem", KeyFile: "missing.key"}))
	err := srv.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load TLS certificate")
}
