package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"callscribe/internal/history"
	"callscribe/internal/logging"
	"callscribe/internal/summary"
	"callscribe/internal/topics"
)

const defaultRequestTimeout = 5 * time.Minute

// Summarizer produces one summary per transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) summary.Outcome
}

// Classifier assigns topics to one summary against its catalog.
type Classifier interface {
	Classify(ctx context.Context, summaryText string) topics.Outcome
	Catalog() *topics.Catalog
}

// RunLister reads recent batch runs.
type RunLister interface {
	List(ctx context.Context, limit int) ([]*history.Run, error)
}

// Deps are the services behind the routes. Classifier and Runs are optional.
type Deps struct {
	Summarizer     Summarizer
	Classifier     Classifier
	Runs           RunLister
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with standard middleware (RequestID, RealIP,
// Timeout, Recoverer, request logging) and the callscribe routes.
func NewRouter(deps Deps) *chi.Mux {
	logger := logging.NewComponentLogger(deps.Logger, "api")
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestContext)
	r.Use(middleware.Timeout(timeout))
	r.Use(Recoverer(logger))
	r.Use(RequestLogger(logger))

	h := &handlers{deps: deps, logger: logger}
	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/summaries", h.summarize)
		r.Post("/classifications", h.classify)
		r.Get("/catalog", h.catalog)
		r.Get("/runs", h.runs)
	})
	return r
}

// requestContext copies chi's request id onto the context so service
// loggers tag their lines with it.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(logging.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger is a lightweight HTTP logger that uses slog.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logging.WithContext(r.Context(), log).Info("request",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", ww.Status()),
				logging.Int("bytes", ww.BytesWritten()),
				logging.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recoverer logs panics via slog while preserving chi's Recoverer behavior.
func Recoverer(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logging.WithContext(r.Context(), log).Error("panic recovered",
						logging.Any("panic", rec),
						logging.String("path", r.URL.Path),
						logging.String("method", r.Method),
						logging.String(logging.FieldEventType, "api_panic"),
					)
					WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteJSON writes a JSON response with proper headers.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}
