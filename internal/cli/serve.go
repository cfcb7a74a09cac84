package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dijkstraviz/pkg/config"
	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/graph"
	"github.com/matzehuels/dijkstraviz/pkg/render/nodelink"
	"github.com/matzehuels/dijkstraviz/pkg/session"
	"github.com/matzehuels/dijkstraviz/pkg/state"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, which exposes one shared session
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		gopts graphOpts
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a visualization session over HTTP",
		Long: `Serve generates a graph and exposes it through a small JSON API. Playback
advances on the server at the configured rate; clients poll /state or fetch
/render.svg to follow the search.

  POST /graph              generate a new graph {"nodes": N, "probability": P}
  GET  /graph              current graph as JSON
  POST /select/{id}        advance the source/target pick cycle
  POST /search/start       start or resume the search
  POST /search/pause       pause playback
  POST /search/reset       cancel the run and clear the selection
  PUT  /playback/rate      set the rate {"rate": R}
  GET  /state              replayed state and status
  GET  /render.svg         snapshot as SVG
  GET  /render.dot         snapshot as DOT`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			gopts.apply(cmd, cfg)
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return c.runServe(ctx, cfg, &gopts)
		},
	}

	gopts.register(cmd, true)
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, gopts *graphOpts) error {
	store, release := c.openGraphs(ctx, cfg)
	defer release()

	g, cached, err := gopts.graphFor(ctx, cfg, store)
	if err != nil {
		return err
	}
	s := newSession(ctx, cfg, store)
	defer s.Close()
	s.Load(g)

	srv := newServer(s, cfg, c.Logger)
	srv.setStatus(generatedText(g.Len(), cfg.Generate.Probability))
	go srv.tick(ctx, cfg.Playback.FrameInterval())

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	printSuccess("Serving on %s", styleHighlight.Render("http://"+cfg.Server.Addr))
	printStats(g.Len(), g.EdgeCount(), cached)

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	printInfo("Server stopped")
	return nil
}

// =============================================================================
// Server
// =============================================================================

// server adapts a session to HTTP.
type server struct {
	session *session.Session
	cfg     *config.Config
	logger  *log.Logger

	mu     sync.Mutex
	status string // last action message, see statusText
}

func newServer(s *session.Session, cfg *config.Config, logger *log.Logger) *server {
	return &server{session: s, cfg: cfg, logger: logger, status: statusReady}
}

func (sv *server) setStatus(msg string) {
	sv.mu.Lock()
	sv.status = msg
	sv.mu.Unlock()
}

func (sv *server) lastStatus() string {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.status
}

// tick drives playback until ctx is done.
func (sv *server) tick(ctx context.Context, frame time.Duration) {
	t := time.NewTicker(frame)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			sv.session.Tick(now)
		}
	}
}

func (sv *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(sv.logRequests)

	r.Get("/graph", sv.getGraph)
	r.Post("/graph", sv.postGraph)
	r.Post("/select/{id}", sv.postSelect)
	r.Route("/search", func(r chi.Router) {
		r.Post("/start", sv.postStart)
		r.Post("/pause", sv.postPause)
		r.Post("/reset", sv.postReset)
	})
	r.Put("/playback/rate", sv.putRate)
	r.Get("/state", sv.getState)
	r.Get("/render.svg", sv.getRender(nodelink.FormatSVG))
	r.Get("/render.dot", sv.getRender(nodelink.FormatDOT))

	return r
}

func (sv *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		sv.logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start).Round(time.Microsecond))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type generateRequest struct {
	Nodes       int     `json:"nodes"`
	Probability float64 `json:"probability"`
}

type rateRequest struct {
	Rate float64 `json:"rate"`
}

type startResponse struct {
	RunID string `json:"run_id"`
}

type stateResponse struct {
	session.Info
	Status    string          `json:"status"`
	Visited   []int           `json:"visited"`
	Distances map[int]float64 `json:"distances"`
	Path      []int           `json:"path,omitempty"`
}

func (sv *server) getGraph(w http.ResponseWriter, r *http.Request) {
	var (
		data []byte
		err  error
	)
	sv.session.View(func(g *graph.Graph, _ *state.State, _ session.Selection) {
		data, err = graph.Marshal(g)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (sv *server) postGraph(w http.ResponseWriter, r *http.Request) {
	req := generateRequest{Nodes: sv.cfg.Generate.Nodes, Probability: sv.cfg.Generate.Probability}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := sv.session.Generate(r.Context(), req.Nodes, req.Probability); err != nil {
		writeError(w, err)
		return
	}
	sv.setStatus(generatedText(req.Nodes, req.Probability))
	writeJSON(w, http.StatusCreated, sv.session.Info())
}

func (sv *server) postSelect(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidNode, "node id %q is not a number", chi.URLParam(r, "id")))
		return
	}
	sel, err := sv.session.Select(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (sv *server) postStart(w http.ResponseWriter, r *http.Request) {
	runID, err := sv.session.Start()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startResponse{RunID: runID})
}

func (sv *server) postPause(w http.ResponseWriter, r *http.Request) {
	sv.session.Pause()
	writeJSON(w, http.StatusOK, sv.session.Info())
}

func (sv *server) postReset(w http.ResponseWriter, r *http.Request) {
	sv.session.Reset()
	sv.setStatus(statusReady)
	writeJSON(w, http.StatusOK, sv.session.Info())
}

func (sv *server) putRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if math.IsNaN(req.Rate) || req.Rate <= 0 {
		writeError(w, errors.New(errors.ErrCodeInvalidRate, "rate must be positive, got %g", req.Rate))
		return
	}
	writeJSON(w, http.StatusOK, rateRequest{Rate: sv.session.SetRate(req.Rate)})
}

func (sv *server) getState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{Info: sv.session.Info()}
	last := sv.lastStatus()
	sv.session.View(func(_ *graph.Graph, st *state.State, sel session.Selection) {
		resp.Status = statusText(st, sel, resp.Paused, last)
		resp.Visited = slices.Sorted(maps.Keys(st.VisitedSet()))
		resp.Distances = st.Distances()
		if sel.Target != graph.NoNode {
			if path, ok := st.ReconstructPath(sel.Target); ok {
				resp.Path = path
			}
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

func (sv *server) getRender(format nodelink.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		weights, _ := strconv.ParseBool(r.URL.Query().Get("weights"))
		var dot string
		sv.session.View(func(g *graph.Graph, st *state.State, sel session.Selection) {
			dot = nodelink.ToDOT(g, st, nodelink.Options{
				Source:      sel.Source,
				Target:      sel.Target,
				ShowWeights: weights,
				Size:        nodelink.DefaultSize,
			})
		})

		data, err := nodelink.Render(r.Context(), dot, format)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType(format))
		_, _ = w.Write(data)
	}
}

func contentType(f nodelink.Format) string {
	switch f {
	case nodelink.FormatSVG:
		return "image/svg+xml"
	case nodelink.FormatPNG:
		return "image/png"
	default:
		return "text/vnd.graphviz; charset=utf-8"
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, httpStatus(code), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// httpStatus maps an error code to a response status.
func httpStatus(code errors.Code) int {
	switch code.Category() {
	case errors.CategoryInput:
		return http.StatusBadRequest
	case errors.CategoryNotReady:
		return http.StatusConflict
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
