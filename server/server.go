package server

import (
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/tliron/commonlog"

	"github.com/chazu/parley/compiler"
)

var log = commonlog.GetLogger("parley.server")

// ParleyServer serves the compile service over Connect, gRPC and gRPC-Web
// on one port.
type ParleyServer struct {
	results *ResultStore
	mux     *http.ServeMux

	stopSweeper func()
}

// ServerOption configures a ParleyServer.
type ServerOption func(*serverConfig)

type serverConfig struct {
	compileOptions compiler.Options
	resultTTL      time.Duration
	sweepInterval  time.Duration
}

// WithCompileOptions sets the options used for requests that don't ask for
// strict compilation.
func WithCompileOptions(opts compiler.Options) ServerOption {
	return func(c *serverConfig) { c.compileOptions = opts }
}

// WithResultTTL sets how long compile results stay available to
// Disassemble after their last use.
func WithResultTTL(ttl time.Duration) ServerOption {
	return func(c *serverConfig) { c.resultTTL = ttl }
}

// New creates a ParleyServer.
func New(opts ...ServerOption) *ParleyServer {
	cfg := &serverConfig{
		resultTTL:     30 * time.Minute,
		sweepInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &ParleyServer{
		results: NewResultStore(),
		mux:     http.NewServeMux(),
	}

	svc := NewCompileService(cfg.compileOptions, s.results)
	s.mux.Handle(CompileProcedure, connect.NewUnaryHandler(CompileProcedure, svc.Compile))
	s.mux.Handle(DisassembleProcedure, connect.NewUnaryHandler(DisassembleProcedure, svc.Disassemble))

	s.stopSweeper = s.results.StartSweeper(cfg.sweepInterval, cfg.resultTTL)

	return s
}

// Handler returns the HTTP handler serving all procedures.
func (s *ParleyServer) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server on the given address.
// The address should be in the form "host:port" or ":port".
func (s *ParleyServer) ListenAndServe(addr string) error {
	fmt.Printf("parley compile server listening on %s\n", addr)
	fmt.Printf("  Connect (HTTP/JSON): http://%s%s\n", addr, CompileProcedure)
	log.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

// Stop shuts down background work.
func (s *ParleyServer) Stop() {
	if s.stopSweeper != nil {
		s.stopSweeper()
	}
}
