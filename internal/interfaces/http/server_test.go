package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_Defaults(t *testing.T) {
	server := NewServer(ServerConfig{Port: 8080}, http.NewServeMux(), nil)
	assert.Equal(t, ":8080", server.srv.Addr)
	assert.Equal(t, 15*time.Second, server.srv.ReadTimeout)
	assert.Equal(t, 30*time.Second, server.cfg.ShutdownTimeout)
}

func TestServer_StartStop(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })
	server := NewServer(ServerConfig{Port: 0}, mux, nil)

	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	addr, err := server.Addr(ctx)
	require.NoError(t, err)

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", addr.String()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	require.NoError(t, server.Stop(ctx))
	assert.NoError(t, <-done)
}

//Personal.AI order the ending
