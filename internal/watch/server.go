package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/scc/internal/foundation/errors"
	"git.home.luguber.info/inful/scc/internal/logfields"
	"git.home.luguber.info/inful/scc/internal/render"
)

// StatusResponse is the payload of GET /status.
type StatusResponse struct {
	Source      string    `json:"source"`
	Target      string    `json:"target"`
	Builds      int       `json:"builds"`
	OK          bool      `json:"ok"`
	Error       string    `json:"error,omitempty"`
	RunID       string    `json:"run_id,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	CacheHit    bool      `json:"cache_hit"`
	Bytes       int       `json:"bytes"`
	Updated     time.Time `json:"updated,omitzero"`
}

// Handler serves the latest output at /, build status at /status and, when
// metricsHandler is non-nil, metrics at metricsPath.
func (w *Watcher) Handler(metricsPath string, metricsHandler http.Handler) http.Handler {
	adapter := errors.NewHTTPErrorAdapter(w.opts.Logger)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(rw http.ResponseWriter, r *http.Request) {
		w.serveOutput(rw, r, adapter)
	})
	mux.HandleFunc("GET /status", w.serveStatus)
	if metricsHandler != nil {
		mux.Handle("GET "+metricsPath, metricsHandler)
	}
	return chain(w.opts.Logger, adapter)(mux)
}

func (w *Watcher) serveOutput(rw http.ResponseWriter, r *http.Request, adapter *errors.HTTPErrorAdapter) {
	s := w.status.snapshot()
	if s.err != nil {
		adapter.WriteErrorResponse(rw, r, s.err)
		return
	}
	if s.result == nil {
		adapter.WriteErrorResponse(rw, r, errors.RuntimeError("no successful build yet").
			WithContext("path", w.source).
			Build())
		return
	}
	rw.Header().Set("Content-Type", contentType(w.compiler.Target()))
	rw.Header().Set("X-Scc-Run-Id", s.result.RunID)
	_, _ = rw.Write([]byte(s.result.Output))
}

func (w *Watcher) serveStatus(rw http.ResponseWriter, _ *http.Request) {
	s := w.status.snapshot()
	resp := StatusResponse{
		Source:  w.source,
		Target:  w.compiler.Target(),
		Builds:  s.builds,
		OK:      s.err == nil && s.result != nil,
		Updated: s.updated,
	}
	if s.err != nil {
		resp.Error = s.err.Error()
	}
	if s.result != nil {
		resp.RunID = s.result.RunID
		resp.Fingerprint = s.result.Fingerprint
		resp.CacheHit = s.result.CacheHit
		resp.Bytes = len(s.result.Output)
	}
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(resp)
}

func contentType(target string) string {
	switch target {
	case render.NameHTML:
		return "text/html; charset=utf-8"
	case render.NameMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Server is a running preview server.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *slog.Logger
}

// Listen binds addr and serves h in the background. Binding happens before
// Listen returns so an address in use fails fast.
func Listen(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, fmt.Sprintf("listen on %s", addr)).
			WithContext("addr", addr).
			Build()
	}
	s := &Server{
		srv: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		ln:     ln,
		logger: logger,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("preview server error", logfields.Error(err))
		}
	}()
	logger.Info("preview server listening", logfields.Addr(s.Addr()))
	return s, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
