package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/airfield-userpoints-etl/internal/adapter/skydemon"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/domain"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/observability"
	"github.com/couchcryptid/airfield-userpoints-etl/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion request outcomes, the "outcome" label of ConvertRequests.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Response headers carrying the run summary.
const (
	headerRecordsRead    = "X-Records-Read"
	headerRecordsWritten = "X-Records-Written"
	headerRecordsSkipped = "X-Records-Skipped"
)

// Converter turns a SkyDemon document into a userpoints CSV.
type Converter interface {
	Convert(ctx context.Context, src io.Reader, dst io.Writer) (pipeline.Summary, error)
}

// Server exposes the conversion endpoint alongside health, readiness, and
// metrics routes.
type Server struct {
	httpServer     *http.Server
	converter      Converter
	maxUploadBytes int64
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/convert routes. Request bodies over maxUploadBytes are rejected.
func NewServer(addr string, conv Converter, ready sharedobs.ReadinessChecker, maxUploadBytes int64, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		converter:      conv,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		metrics:        metrics,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/convert", s.handleConvert)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Token string `json:"token,omitempty"`
}

// handleConvert buffers the whole CSV so that a failure part way through can
// still be reported with an error status.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var out bytes.Buffer
	sum, err := s.converter.Convert(r.Context(), body, &out)
	if err != nil {
		s.writeConvertError(w, err)
		return
	}

	s.metrics.ConvertRequests.WithLabelValues(outcomeSuccess).Inc()
	s.logger.Info("conversion served",
		"read", sum.Read,
		"written", sum.Written,
		"skipped", sum.Skipped,
		"duration", sum.Duration,
	)

	h := w.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set(headerRecordsRead, strconv.Itoa(sum.Read))
	h.Set(headerRecordsWritten, strconv.Itoa(sum.Written))
	h.Set(headerRecordsSkipped, strconv.Itoa(sum.Skipped))
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) writeConvertError(w http.ResponseWriter, err error) {
	status, resp := classify(err)
	if status >= http.StatusInternalServerError {
		s.metrics.ConvertRequests.WithLabelValues(outcomeError).Inc()
		s.logger.Error("conversion failed", "error", err)
	} else {
		s.metrics.ConvertRequests.WithLabelValues(outcomeRejected).Inc()
		s.logger.Warn("conversion rejected", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

// classify maps a conversion error to its response status and body.
func classify(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var tooLarge *http.MaxBytesError
	var recErr *pipeline.RecordError
	switch {
	case errors.As(err, &tooLarge):
		resp.Error = "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes"
		return http.StatusRequestEntityTooLarge, resp
	case errors.As(err, &recErr):
		var cerr *domain.CoordinateFormatError
		var perr *domain.PositionFormatError
		if errors.As(err, &cerr) {
			resp.Field = cerr.Field
			resp.Token = cerr.Token
		} else if errors.As(err, &perr) {
			resp.Token = perr.Token
		}
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, skydemon.ErrDecode):
		return http.StatusBadRequest, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort error response
}
