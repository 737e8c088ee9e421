// Package server serves an HTTP preview API over the combinations of one
// document.
//
// The export plan is computed once when the server is created; combination
// images are rendered on request through the export runner and its render
// cache.
//
// # Routes
//
//	GET /healthz                                 liveness probe
//	GET /version                                 build information
//	GET /groups                                  groups with axis sizes
//	GET /groups/{group}/combos                   planned combinations of a group
//	GET /groups/{group}/combos/{index}.png       rendered combination
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/layercombos/pkg/buildinfo"
	"github.com/matzehuels/layercombos/pkg/errors"
	"github.com/matzehuels/layercombos/pkg/export"
	"github.com/matzehuels/layercombos/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// Server is the preview API.
type Server struct {
	runner *export.Runner
	opts   export.Options
	plan   *export.Plan
	logger *log.Logger
	router chi.Router
}

// New plans the combinations of runner's document and builds the router.
func New(runner *export.Runner, opts export.Options, logger *log.Logger) (*Server, error) {
	h, err := runner.Document.Hierarchy()
	if err != nil {
		return nil, err
	}
	plan, err := export.BuildPlan(h, opts)
	if err != nil {
		return nil, err
	}

	s := &Server{runner: runner, opts: opts, plan: plan, logger: logger}
	s.router = s.routes()
	return s, nil
}

// Plan returns the plan the server answers from.
func (s *Server) Plan() *export.Plan {
	return s.plan
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", s.listGroups)
		r.Route("/{group}/combos", func(r chi.Router) {
			r.Get("/", s.listCombos)
			r.Get("/{index}.png", s.renderCombo)
		})
	})
	return r
}

// observe reports every request to the server hooks, keyed by route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Server().OnRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type groupResponse struct {
	Name         string `json:"name"`
	Axes         []int  `json:"axes"`
	Combinations int    `json:"combinations"`
}

type comboResponse struct {
	Index     int      `json:"index"`
	Label     string   `json:"label"`
	Filename  string   `json:"filename"`
	Show      []string `json:"show"`
	Hide      []string `json:"hide"`
	Fragments []string `json:"fragments"`
}

func (s *Server) listGroups(w http.ResponseWriter, _ *http.Request) {
	resp := make([]groupResponse, len(s.plan.Groups))
	for i, g := range s.plan.Groups {
		resp[i] = groupResponse{Name: g.Name, Axes: g.Axes, Combinations: len(g.Items)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listCombos(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}
	resp := make([]comboResponse, len(g.Items))
	for i, item := range g.Items {
		resp[i] = comboResponse{
			Index:     item.Index,
			Label:     item.Label,
			Filename:  item.Filename,
			Show:      nonNil(item.Show),
			Hide:      nonNil(item.Hide),
			Fragments: nonNil(item.Fragments),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) renderCombo(w http.ResponseWriter, r *http.Request) {
	g, ok := s.group(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(g.Items) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "group %q has no combination %q", g.Name, chi.URLParam(r, "index")))
		return
	}

	data, err := s.runner.Preview(r.Context(), g.Items[index], s.opts)
	if err != nil {
		s.logger.Error("preview failed", "group", g.Name, "index", index, "error", err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) group(w http.ResponseWriter, r *http.Request) (*export.GroupPlan, bool) {
	name := chi.URLParam(r, "group")
	g, ok := s.plan.Group(name)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "group %q not found", name))
	}
	return g, ok
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if errors.IsToolError(err) {
		code = errors.ErrCodeExternalTool
	}
	writeJSON(w, statusFor(code), errorResponse{Code: string(code), Error: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeExternalTool:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
