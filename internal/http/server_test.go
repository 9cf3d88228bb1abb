package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/tokenmeter/internal/config"
	httpapi "github.com/davidbz/tokenmeter/internal/http"
)

func TestServer_ShutdownBeforeStart(t *testing.T) {
	server := httpapi.NewServer(&config.ServerConfig{Port: 0}, httpapi.NewHandler(nil, nil), nil, nil)

	require.NoError(t, server.Shutdown(context.Background()))

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start kept serving after Shutdown")
	}
}

func TestServer_StartThenShutdown(t *testing.T) {
	server := httpapi.NewServer(&config.ServerConfig{Port: 0}, httpapi.NewHandler(nil, nil), nil, nil)

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	require.Eventually(t, func() bool {
		return server.Shutdown(context.Background()) == nil
	}, 5*time.Second, 10*time.Millisecond)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}
