// Package form turns the raw text typed into a front-end into a validated
// feature record.
package form

import (
	"math"
	"strconv"
	"strings"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/serrors"
)

// Messages shown to the user when a record cannot be parsed.
const (
	InvalidMessage    = "Please enter valid numeric values for all fields."
	InvalidToyMessage = "Please enter valid numerical values for all features."
)

// InputError reports the fields of a record that are not finite real numbers.
// It matches serrors.ErrBadRequest.
type InputError struct {
	// Fields lists the offending feature keys in feature order.
	Fields []string
	// Message is the notice displayed to the user.
	Message string
}

func (e *InputError) Error() string {
	return e.Message + " (invalid: " + strings.Join(e.Fields, ", ") + ")"
}

// Is makes InputError match serrors.ErrBadRequest.
func (e *InputError) Is(target error) bool {
	return target == serrors.ErrBadRequest
}

// ParseValue parses a single value. Surrounding whitespace is ignored; empty
// text, NaN and infinities are rejected.
func ParseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// Parse builds a record from text values keyed by feature key. Missing keys
// count as invalid. All invalid fields are reported at once.
func Parse(features []domain.Feature, values map[string]string, message string) (domain.Record, error) {
	out := make([]float64, len(features))
	var invalid []string
	for i, f := range features {
		v, ok := ParseValue(values[f.Key])
		if !ok {
			invalid = append(invalid, f.Key)

			continue
		}
		out[i] = v
	}

	if len(invalid) > 0 {
		return domain.Record{}, &InputError{Fields: invalid, Message: message}
	}

	return domain.NewRecord(features, out) //nolint: wrapcheck
}

// Format renders a value the way the web form displays it.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Values renders every value of a sample keyed by feature key, using the
// shortest representation so the text round-trips exactly.
func Values(features []domain.Feature, values []float64) map[string]string {
	out := make(map[string]string, len(features))
	for i, f := range features {
		if i < len(values) {
			out[f.Key] = strconv.FormatFloat(values[i], 'g', -1, 64)
		}
	}

	return out
}

// Defaults returns the initial text of every field of the web form.
func Defaults(features []domain.Feature) map[string]string {
	out := make(map[string]string, len(features))
	for _, f := range features {
		out[f.Key] = Format(0)
	}

	return out
}
