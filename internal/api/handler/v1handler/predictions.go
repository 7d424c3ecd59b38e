package v1handler

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/form"
	"tumotrack/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100

	maxBodyBytes = 64 << 10
)

// decodeFeatures reads {"features":{"<key>":<number>,...}} into a record over
// features. Missing, unknown, non-numeric and non-finite fields are all
// reported in a single form.InputError.
func decodeFeatures(body []byte, features []domain.Feature) (domain.Record, error) {
	index := make(map[string]int, len(features))
	for i, f := range features {
		index[f.Key] = i
	}

	values := make([]float64, len(features))
	seen := make([]bool, len(features))
	var unknown []string

	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "features" {
			return d.Skip()
		}

		return d.Obj(func(d *jx.Decoder, key string) error {
			i, ok := index[key]
			if !ok {
				unknown = append(unknown, key)

				return d.Skip()
			}
			if d.Next() != jx.Number {
				return d.Skip()
			}
			v, err := d.Float64()
			if err != nil {
				return errors.Wrapf(err, "decode %q", key)
			}
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				values[i] = v
				seen[i] = true
			}

			return nil
		})
	})
	if err != nil {
		return domain.Record{}, serrors.Wrap(serrors.ErrBadRequest, err, "request body is not valid JSON")
	}

	var invalid []string
	for i, f := range features {
		if !seen[i] {
			invalid = append(invalid, f.Key)
		}
	}
	invalid = append(invalid, unknown...)
	if len(invalid) > 0 {
		return domain.Record{}, &form.InputError{Fields: invalid, Message: form.InvalidMessage}
	}

	return domain.NewRecord(features, values) //nolint: wrapcheck
}

func encodePrediction(e *jx.Encoder, p *domain.Prediction) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID.String())
	e.FieldStart("source")
	e.Str(string(p.Source))
	e.FieldStart("model")
	e.Str(p.Model)
	e.FieldStart("label")
	e.Str(p.Label.String())
	e.FieldStart("benignProbability")
	e.Float64(p.BenignProbability)
	e.FieldStart("malignantProbability")
	e.Float64(p.MalignantProbability)
	if features := domain.Features(); len(p.Values) == len(features) {
		e.FieldStart("features")
		encodeValues(e, features, p.Values)
	} else {
		e.FieldStart("values")
		e.ArrStart()
		for _, v := range p.Values {
			e.Float64(v)
		}
		e.ArrEnd()
	}
	e.FieldStart("createdAt")
	e.Str(p.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()
}

// CreatePrediction classifies the record in the request body.
func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.deps.Predictor.Ready(); err != nil {
		h.writeError(w, r, err)

		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body"))

		return
	}

	record, err := decodeFeatures(body, h.deps.Predictor.Features())
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	pred, err := h.deps.Predictor.Predict(ctx, domain.SourceAPI, record)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodePrediction(e, pred) })
}

// ListPredictions returns a page of journaled predictions, newest first.
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := uint(DefaultLimit)
	if s := q.Get("limit"); s != "" {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil || n < 1 || n > MaxLimit {
			h.writeError(w, r, serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", MaxLimit))

			return
		}
		limit = uint(n)
	}

	preds, next, err := h.deps.Predictor.Recent(r.Context(), q.Get("cursor"), limit)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		e.ArrStart()
		for i := range preds {
			encodePrediction(e, &preds[i])
		}
		e.ArrEnd()
		e.FieldStart("nextCursor")
		if next == "" {
			e.Null()
		} else {
			e.Str(next)
		}
		e.ObjEnd()
	})
}

// GetPrediction returns a journaled prediction by ID.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid prediction id"))

		return
	}

	pred, err := h.deps.Predictor.Get(r.Context(), domain.PredictionID(id))
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodePrediction(e, pred) })
}
