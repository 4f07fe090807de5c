package sheet

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/movement"
)

// Server exposes a Sheet over the gateway HTTP protocol.
type Server struct {
	Sheet   *Sheet
	Metrics *Metrics
	Log     log.Logger

	// Path is where the protocol is served, "/exec" by default.
	Path string
	// AccessLog receives combined-format request logs when set.
	AccessLog io.Writer
}

type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	if s.Metrics == nil {
		s.Metrics = NewMetrics()
	}
	if s.Log == nil {
		s.Log = log.NewNop()
	}
	s.refreshGauges()

	r := mux.NewRouter()
	r.HandleFunc(s.path(), s.handleGet).Methods(http.MethodGet)
	r.HandleFunc(s.path(), s.handlePost).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	h := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
	if s.AccessLog != nil {
		h = handlers.LoggingHandler(s.AccessLog, h)
	}
	return h
}

func (s *Server) path() string {
	p := s.Path
	if p == "" {
		p = "/exec"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	start := time.Now()

	var (
		data any
		err  error
	)
	switch action {
	case gateway.ActionLists:
		data = s.Sheet.Lists()
	case gateway.ActionHistory:
		data, err = s.Sheet.Rows()
	default:
		err = errors.New("unknown action")
	}
	s.reply(w, action, start, data, err)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req gateway.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reply(w, "invalid", start, nil, errors.New("invalid request"))
		return
	}

	var (
		data any
		err  error
	)
	switch req.Action {
	case gateway.ActionInit:
		data = s.Sheet.Lists()
	case gateway.ActionSave:
		var row movement.Wire
		if err = json.Unmarshal(req.Data, &row); err != nil {
			err = errors.New("invalid record")
			break
		}
		data, err = s.Sheet.Save(row)
	case gateway.ActionClear:
		err = s.Sheet.Clear()
	default:
		err = errors.New("unknown action")
	}
	if err == nil && req.Action != gateway.ActionInit {
		s.refreshGauges()
	}
	s.reply(w, req.Action, start, data, err)
}

// reply answers 200 either way; rejections travel in the envelope.
func (s *Server) reply(w http.ResponseWriter, action string, start time.Time, data any, err error) {
	if action == "" {
		action = "none"
	}
	result := "success"
	res := response{Success: true, Data: data}
	if err != nil {
		result = "rejected"
		res = response{Error: err.Error()}
		s.Log.Warn("action rejected", "action", action, "error", err.Error())
	} else {
		s.Log.Debug("action served", "action", action)
	}
	s.Metrics.ActionsTotal.WithLabelValues(action, result).Inc()
	s.Metrics.ActionLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		s.Log.Error(err, "write response", "action", action)
	}
}

func (s *Server) refreshGauges() {
	rows, err := s.Sheet.Rows()
	if err != nil {
		s.Log.Error(err, "count rows")
		return
	}
	out := 0
	for _, row := range rows {
		if row.Status == movement.StatusOut {
			out++
		}
	}
	s.Metrics.Rows.Set(float64(len(rows)))
	s.Metrics.VehiclesOut.Set(float64(out))
}

// Serve listens on addr until ctx is done. onListening, when set, receives
// the bound address.
func (s *Server) Serve(ctx context.Context, addr string, onListening func(net.Addr)) error {
	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if onListening != nil {
		onListening(ln.Addr())
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	err = httpSrv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
