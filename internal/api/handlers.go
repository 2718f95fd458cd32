package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"callscribe/internal/logging"
)

const (
	maxBodyBytes    = 1 << 20
	defaultRunLimit = 20
	maxRunLimit     = 500
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

type handlers struct {
	deps   Deps
	logger *slog.Logger
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		h.logger.Warn("healthz write failed", logging.Error(err))
	}
}

func (h *handlers) summarize(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if !h.decode(w, r, &req) {
		return
	}
	outcome := h.deps.Summarizer.Summarize(r.Context(), *req.Transcript)
	WriteJSON(w, http.StatusOK, SummaryResponse{Summary: outcome.Text, Status: string(outcome.Status)})
}

func (h *handlers) classify(w http.ResponseWriter, r *http.Request) {
	if h.deps.Classifier == nil {
		WriteError(w, http.StatusServiceUnavailable, "no category catalog configured")
		return
	}
	var req ClassificationRequest
	if !h.decode(w, r, &req) {
		return
	}
	outcome := h.deps.Classifier.Classify(r.Context(), *req.Summary)
	WriteJSON(w, http.StatusOK, FromClassification(outcome))
}

func (h *handlers) catalog(w http.ResponseWriter, _ *http.Request) {
	if h.deps.Classifier == nil {
		WriteError(w, http.StatusServiceUnavailable, "no category catalog configured")
		return
	}
	WriteJSON(w, http.StatusOK, FromCatalog(h.deps.Classifier.Catalog()))
}

func (h *handlers) runs(w http.ResponseWriter, r *http.Request) {
	if h.deps.Runs == nil {
		WriteError(w, http.StatusServiceUnavailable, "run history unavailable")
		return
	}
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRunLimit {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxRunLimit))
			return
		}
		limit = parsed
	}
	runs, err := h.deps.Runs.List(r.Context(), limit)
	if err != nil {
		logging.WithContext(r.Context(), h.logger).Error("list runs failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "api_runs_failed"),
		)
		WriteError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	WriteJSON(w, http.StatusOK, FromRuns(runs))
}

// decode reads a JSON body into dst and validates it. It writes the 400
// response itself and reports whether the handler should continue.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		WriteError(w, http.StatusBadRequest, "malformed JSON body: "+err.Error())
		return false
	}
	if err := requestValidator().Struct(dst); err != nil {
		WriteError(w, http.StatusBadRequest, describeValidationError(err))
		return false
	}
	return true
}

func describeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "max":
			parts = append(parts, fmt.Sprintf("%s exceeds %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
