// Package v1handler implements the version 1 JSON API of TumoTrack. Routes
// follow the OpenAPI document served at /specs/v1.yaml.
package v1handler

import (
	"context"
	"errors"
	"net/http"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/form"
	"tumotrack/pkg/logger"
	"tumotrack/pkg/serrors"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// Deps are the services the API handlers depend on.
type Deps struct {
	Predictor predictor.Predictor
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Routes returns the v1 routes relative to the /v1 prefix.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /features", h.ListFeatures)
	mux.HandleFunc("GET /samples", h.ListSamples)
	mux.HandleFunc("POST /predictions", h.CreatePrediction)
	mux.HandleFunc("GET /predictions", h.ListPredictions)
	mux.HandleFunc("GET /predictions/{id}", h.GetPrediction)

	return mux
}

// Error is the body of every failed request.
type Error struct {
	Code    string
	Message string
	// Fields lists the offending input fields of a BAD_REQUEST, if any.
	Fields []string
}

// Encode writes the error as a JSON object.
func (e *Error) Encode(enc *jx.Encoder) {
	enc.ObjStart()
	enc.FieldStart("code")
	enc.Str(e.Code)
	enc.FieldStart("message")
	enc.Str(e.Message)
	if len(e.Fields) > 0 {
		enc.FieldStart("fields")
		enc.ArrStart()
		for _, f := range e.Fields {
			enc.Str(f)
		}
		enc.ArrEnd()
	}
	enc.ObjEnd()
}

// ErrorStatusCode pairs an Error with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   Error
}

// NewError maps err to a response. Semantic kinds from serrors select the
// status code; anything else is reported as an internal error and logged.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	res := &ErrorStatusCode{Response: Error{Code: kind.Error()}}

	var semErr *serrors.Error
	hasMessage := errors.As(err, &semErr) && semErr.Message() != ""

	switch kind {
	case serrors.ErrBadRequest:
		res.StatusCode = http.StatusBadRequest
		res.Response.Message = "bad request"
		var inputErr *form.InputError
		if errors.As(err, &inputErr) {
			res.Response.Message = inputErr.Message
			res.Response.Fields = inputErr.Fields
		}
	case serrors.ErrNotFound:
		res.StatusCode = http.StatusNotFound
		res.Response.Message = "resource not found"
	case serrors.ErrUnavailable:
		res.StatusCode = http.StatusServiceUnavailable
		res.Response.Message = "service unavailable"
	case serrors.ErrTimeout:
		res.StatusCode = http.StatusGatewayTimeout
		res.Response.Message = "request timed out"
	default:
		logger.Error(ctx, "internal error", zap.Error(err))
		res.StatusCode = http.StatusInternalServerError
		res.Response.Message = "internal error"

		return res
	}

	if hasMessage && res.Response.Fields == nil {
		res.Response.Message = semErr.Message()
	}
	logger.Debug(ctx, "request failed", zap.Int("status", res.StatusCode), zap.Error(err))

	return res
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	writeJSON(w, res.StatusCode, res.Response.Encode)
}

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	encode(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
