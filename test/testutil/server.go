// Package testutil provides helpers shared by integration-style tests: a
// file-serving HTTP server and a modpack archive builder.
package testutil

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"
)

// TestServer serves a directory tree over HTTP for integration-style tests.
type TestServer struct {
	Server   *http.Server
	URL      string
	listener net.Listener
}

// NewTestServer starts a server on an ephemeral localhost port serving files
// from dir. It is stopped automatically when the test finishes.
func NewTestServer(t *testing.T, dir string) *TestServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen for test server: %v", err)
	}

	ts := &TestServer{
		Server:   &http.Server{Handler: http.FileServer(http.Dir(dir))},
		URL:      "http://" + ln.Addr().String(),
		listener: ln,
	}
	go func() {
		if err := ts.Server.Serve(ln); err != nil && err != http.ErrServerClosed {
			t.Logf("Test server error: %v", err)
		}
	}()
	t.Cleanup(func() { ts.Stop(t) })

	return ts
}

// Stop stops the test server
func (ts *TestServer) Stop(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ts.Server.Shutdown(ctx); err != nil {
		t.Logf("Error shutting down test server: %v", err)
	}
}
