package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/pageza/recipefinder/backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func testServerConfig(port int) config.ServerConfig {
	return config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            port,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestNew(t *testing.T) {
	srv := New(testServerConfig(8081), http.NotFoundHandler())
	assert.Equal(t, "127.0.0.1:8081", srv.Addr())
	assert.Equal(t, time.Second, srv.http.ReadTimeout)
}

func TestRunServesUntilCancelled(t *testing.T) {
	port := freePort(t)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New(testServerConfig(port), handler)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunReportsListenErrors(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := New(testServerConfig(l.Addr().(*net.TCPAddr).Port), http.NotFoundHandler())
	assert.Error(t, srv.Run(context.Background()))
}
