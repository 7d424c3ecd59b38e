package domain

import "strings"

// Group is the statistic a feature was computed with over the cell nuclei of
// one digitized sample.
type Group string

const (
	// GroupMean is the average value of a measurement.
	GroupMean Group = "mean"
	// GroupSE is the standard error of a measurement.
	GroupSE Group = "se"
	// GroupWorst is the mean of the three largest values of a measurement.
	GroupWorst Group = "worst"
	// GroupToy marks the inputs of the toy dialog.
	GroupToy Group = "toy"
)

// Title returns the heading used by the front-ends for the group.
func (g Group) Title() string {
	switch g {
	case GroupMean:
		return "Mean Values"
	case GroupSE:
		return "Standard Error Values"
	case GroupWorst:
		return "Worst Values"
	default:
		return "Features"
	}
}

// Groups lists the measurement groups in artifact order.
func Groups() []Group {
	return []Group{GroupMean, GroupSE, GroupWorst}
}

// Measurements are the ten cell-nuclei characteristics, in artifact order.
var Measurements = []string{ //nolint: gochecknoglobals
	"radius",
	"texture",
	"perimeter",
	"area",
	"smoothness",
	"compactness",
	"concavity",
	"concave points",
	"symmetry",
	"fractal_dimension",
}

// Feature describes one numeric input of a feature record.
type Feature struct {
	// Key is the column name the scaler was fitted with, e.g. "concave points_se".
	Key string `json:"key"`
	// Label is the human readable name, e.g. "Concave Points SE".
	Label string `json:"label"`
	// Group is the statistic of the feature.
	Group Group `json:"group"`
	// Measurement is the measured characteristic, e.g. "concave points".
	Measurement string `json:"measurement"`
}

// MeasurementTitle returns the measurement in title case, e.g. "Concave Points".
func (f Feature) MeasurementTitle() string {
	return measurementTitle(f.Measurement)
}

func measurementTitle(m string) string {
	words := strings.Fields(strings.ReplaceAll(m, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}

	return strings.Join(words, " ")
}

func groupSuffix(g Group) string {
	if g == GroupSE {
		return "SE"
	}

	return measurementTitle(string(g))
}

// Features returns the 30 features of a record in the order the artifacts
// expect them: ten mean values, then ten standard errors, then ten worst values.
func Features() []Feature {
	out := make([]Feature, 0, len(Groups())*len(Measurements))
	for _, g := range Groups() {
		for _, m := range Measurements {
			out = append(out, Feature{
				Key:         m + "_" + string(g),
				Label:       measurementTitle(m) + " " + groupSuffix(g),
				Group:       g,
				Measurement: m,
			})
		}
	}

	return out
}

// ToyFeatureCount is the number of inputs of the toy dialog.
const ToyFeatureCount = 5

// ToyFeatures returns the inputs of the toy dialog: the first five
// measurements, without a statistic.
func ToyFeatures() []Feature {
	out := make([]Feature, ToyFeatureCount)
	for i, m := range Measurements[:ToyFeatureCount] {
		out[i] = Feature{
			Key:         m,
			Label:       measurementTitle(m),
			Group:       GroupToy,
			Measurement: m,
		}
	}

	return out
}

// FeatureKeys returns the keys of the given features preserving order.
func FeatureKeys(features []Feature) []string {
	keys := make([]string, len(features))
	for i, f := range features {
		keys[i] = f.Key
	}

	return keys
}

// ByGroup returns the features belonging to g preserving order.
func ByGroup(features []Feature, g Group) []Feature {
	var out []Feature
	for _, f := range features {
		if f.Group == g {
			out = append(out, f)
		}
	}

	return out
}
