package v1handler

import (
	"net/http"
	"tumotrack/pkg/domain"

	"github.com/go-faster/jx"
)

// Health reports whether the model artifacts are loaded.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Predictor.Ready(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, func(e *jx.Encoder) {
			e.ObjStart()
			e.FieldStart("ready")
			e.Bool(false)
			e.FieldStart("error")
			e.Str(err.Error())
			e.ObjEnd()
		})

		return
	}

	model := h.deps.Predictor.Model()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("ready")
		e.Bool(true)
		e.FieldStart("model")
		e.Str(model)
		e.ObjEnd()
	})
}

// ListFeatures returns the feature catalogue in record order.
func (h *Handler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	features := domain.Features()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		e.ArrStart()
		for _, f := range features {
			e.ObjStart()
			e.FieldStart("key")
			e.Str(f.Key)
			e.FieldStart("label")
			e.Str(f.Label)
			e.FieldStart("group")
			e.Str(string(f.Group))
			e.FieldStart("measurement")
			e.Str(f.Measurement)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// ListSamples returns the built-in reference records.
func (h *Handler) ListSamples(w http.ResponseWriter, r *http.Request) {
	samples := domain.Samples()
	features := domain.Features()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		e.ArrStart()
		for _, s := range samples {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(s.Name)
			e.FieldStart("features")
			encodeValues(e, features, s.Values)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// encodeValues writes values as an object keyed by feature key.
func encodeValues(e *jx.Encoder, features []domain.Feature, values []float64) {
	e.ObjStart()
	for i, f := range features {
		if i >= len(values) {
			break
		}
		e.FieldStart(f.Key)
		e.Float64(values[i])
	}
	e.ObjEnd()
}
