package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Server serves a generated report directory over HTTP on loopback
type Server struct {
	listener net.Listener
	server   *http.Server
	dir      string
}

// Start serves dir on 127.0.0.1 using a free port. Pass port 0 to pick one.
func Start(dir string, port int) (*Server, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open report dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	srv := &Server{
		listener: listener,
		dir:      dir,
		server: &http.Server{
			Handler:           http.FileServer(http.Dir(dir)),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	go srv.server.Serve(listener)

	return srv, nil
}

// URL returns the address of a file inside the served directory
func (s *Server) URL(filename string) string {
	u := url.URL{Scheme: "http", Host: s.listener.Addr().String(), Path: "/" + filename}
	return u.String()
}

// Stop shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
