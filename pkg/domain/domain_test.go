package domain_test

import (
	"testing"
	"tumotrack/pkg/domain"

	"github.com/stretchr/testify/require"
)

func TestFeatures_OrderAndNames(t *testing.T) {
	features := domain.Features()
	require.Len(t, features, 30)

	require.Equal(t, "radius_mean", features[0].Key)
	require.Equal(t, "Radius Mean", features[0].Label)
	require.Equal(t, "concave points_mean", features[7].Key)
	require.Equal(t, "Concave Points Mean", features[7].Label)
	require.Equal(t, "fractal_dimension_mean", features[9].Key)
	require.Equal(t, "Fractal Dimension Mean", features[9].Label)
	require.Equal(t, "radius_se", features[10].Key)
	require.Equal(t, "Radius SE", features[10].Label)
	require.Equal(t, "concave points_se", features[17].Key)
	require.Equal(t, "fractal_dimension_worst", features[29].Key)
	require.Equal(t, "Fractal Dimension Worst", features[29].Label)
	require.Equal(t, "Concave Points", features[17].MeasurementTitle())
	require.Equal(t, "Fractal Dimension", features[29].MeasurementTitle())

	seen := map[string]bool{}
	for _, f := range features {
		require.False(t, seen[f.Key], "duplicate key %q", f.Key)
		seen[f.Key] = true
	}

	for _, g := range domain.Groups() {
		require.Len(t, domain.ByGroup(features, g), 10)
	}
}

func TestToyFeatures(t *testing.T) {
	features := domain.ToyFeatures()
	require.Len(t, features, domain.ToyFeatureCount)
	require.Equal(t, "Radius", features[0].Label)
	require.Equal(t, "smoothness", features[4].Key)
	require.Equal(t, []string{"radius", "texture", "perimeter", "area", "smoothness"}, domain.FeatureKeys(features))
}

func TestLabel_Strings(t *testing.T) {
	require.Equal(t, "BENIGN", domain.LabelBenign.String())
	require.Equal(t, "MALIGNANT", domain.LabelMalignant.String())
	require.Equal(t, "Cancerous", domain.LabelMalignant.ToyString())
	require.Equal(t, "Non-Cancerous", domain.LabelBenign.ToyString())

	l, ok := domain.ParseLabel("MALIGNANT")
	require.True(t, ok)
	require.Equal(t, domain.LabelMalignant, l)

	_, ok = domain.ParseLabel("maybe")
	require.False(t, ok)
}

func TestRecord(t *testing.T) {
	_, err := domain.NewRecord(domain.Features(), []float64{1, 2})
	require.Error(t, err)

	r := domain.MalignantSample.Record()
	require.Equal(t, 30, r.Len())

	v, ok := r.Value("area_worst")
	require.True(t, ok)
	require.InDelta(t, 2019.0, v, 0)

	_, ok = r.Value("unknown")
	require.False(t, ok)

	values := r.Values()
	values[0] = -1
	first, _ := r.Value("radius_mean")
	require.InDelta(t, 17.99, first, 0, "Values must return a copy")

	require.Len(t, r.Map(), 30)
}

func TestSampleByName(t *testing.T) {
	s, err := domain.SampleByName("benign")
	require.NoError(t, err)
	require.Len(t, s.Values, 30)
	require.InDelta(t, 13.54, s.Values[0], 0)

	_, err = domain.SampleByName("other")
	require.Error(t, err)
}

func TestPrediction_Confidence(t *testing.T) {
	p := domain.Prediction{Label: domain.LabelMalignant, BenignProbability: 0.2, MalignantProbability: 0.8}
	require.InDelta(t, 0.8, p.Confidence(), 0)
	require.InDelta(t, 0.2, p.Probability(domain.LabelBenign), 0)
}
