// Package server owns the listener lifecycle: synchronous bind with a
// friendly port-in-use diagnostic, the serve loop, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/jbuehler23/webgpu-demo-server/pkg/config"
)

// BindError reports a failure to claim the listen address.
type BindError struct {
	Port  string
	InUse bool
	Err   error
}

func (e *BindError) Error() string {
	if e.InUse {
		return fmt.Sprintf("port %s is already in use", e.Port)
	}
	return fmt.Sprintf("failed to bind port %s: %v", e.Port, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Hint returns a remediation command for a port conflict, empty otherwise.
func (e *BindError) Hint() string {
	if !e.InUse {
		return ""
	}
	return fmt.Sprintf("lsof -ti:%s | xargs kill", e.Port)
}

// Server serves the composed handler on the configured address.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     *slog.Logger
	port       string
}

// New builds a server from explicit configuration; nothing is read from
// package state. Per-request timeouts are deliberately left unset: the
// server is a localhost tool and a slow wasm download must not be cut off.
func New(cfg config.ServerConfig, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Addr(),
			Handler: handler,
		},
		logger: logger,
		port:   cfg.Port,
	}
}

// Listen claims the TCP address on all interfaces. Binding is separate from
// serving so a port conflict surfaces synchronously at startup.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return &BindError{
			Port:  s.port,
			InUse: errors.Is(err, syscall.EADDRINUSE),
			Err:   err,
		}
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address. Valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve blocks accepting connections until Shutdown. A clean shutdown
// returns nil.
func (s *Server) Serve() error {
	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
