package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/form"
	"tumotrack/pkg/logger"
	"tumotrack/pkg/model"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func TestReadRecord(t *testing.T) {
	values, err := readRecord(strings.NewReader(`{"features":{"radius_mean":17.99,"texture_mean":"10.38"}}`))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"radius_mean": "17.99", "texture_mean": "10.38"}, values)

	values, err = readRecord(strings.NewReader(`{"radius": 3, "texture": 4e0}`))
	require.NoError(t, err)
	require.Equal(t, "3", values["radius"])
	require.Equal(t, "4e0", values["texture"])

	_, err = readRecord(strings.NewReader(`{"radius_mean": [1]}`))
	require.Error(t, err)

	_, err = readRecord(strings.NewReader(`{"radius_mean": {"x": 1}}`))
	require.Error(t, err)
}

func TestRecordValues_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"radius_mean": 20, "texture_mean": 11}`), 0o600))

	values, err := recordValues(domain.Features(), "malignant", path, map[string]string{"radius_mean": "21"})
	require.NoError(t, err)
	require.Equal(t, "21", values["radius_mean"])
	require.Equal(t, "11", values["texture_mean"])
	require.Equal(t, "122.8", values["perimeter_mean"])

	_, err = recordValues(domain.Features(), "unknown", "", nil)
	require.Error(t, err)

	_, err = recordValues(domain.Features(), "", filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)
}

func newCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())

	return cmd
}

func newPredictor(t *testing.T, options predictor.Options) predictor.Predictor {
	t.Helper()

	p, err := predictor.New(context.Background(), options, predictor.Deps{
		Meter:  noop.NewMeterProvider().Meter("test"),
		Tracer: tracenoop.NewTracerProvider().Tracer("test"),
	})
	require.NoError(t, err)

	return p
}

func TestRunPredict_Toy(t *testing.T) {
	p := newPredictor(t, predictor.ToyOptions())
	out := &bytes.Buffer{}

	err := runPredict(newCommand(out), p, "", "", map[string]string{
		"radius": "5", "texture": "5", "perimeter": "5", "area": "1", "smoothness": "0",
	})
	require.NoError(t, err)
	require.Equal(t, "Prediction: MALIGNANT\nBenign Probability: 13.00%\nMalignant Probability: 87.00%\n", out.String())
}

func TestRunPredict_InvalidInput(t *testing.T) {
	p := newPredictor(t, predictor.ToyOptions())
	out := &bytes.Buffer{}

	err := runPredict(newCommand(out), p, "", "", map[string]string{"radius": "abc"})
	var inputErr *form.InputError
	require.ErrorAs(t, err, &inputErr)
	require.Equal(t, []string{"radius", "texture", "perimeter", "area", "smoothness"}, inputErr.Fields)
	require.Empty(t, out.String())
}

func TestRunPredict_UnknownKeys(t *testing.T) {
	p := newPredictor(t, predictor.ToyOptions())
	valid := map[string]string{"radius": "1", "texture": "1", "perimeter": "1", "area": "1", "smoothness": "1"}

	t.Run("set", func(t *testing.T) {
		set := map[string]string{"radius_mean": "1", "area_worst": "2"}
		for k, v := range valid {
			set[k] = v
		}
		out := &bytes.Buffer{}

		err := runPredict(newCommand(out), p, "", "", set)
		var inputErr *form.InputError
		require.ErrorAs(t, err, &inputErr)
		require.Equal(t, []string{"area_worst", "radius_mean"}, inputErr.Fields)
		require.Equal(t, form.InvalidMessage, inputErr.Message)
		require.Empty(t, out.String())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "record.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"features":{"radious":2}}`), 0o600))

		err := runPredict(newCommand(&bytes.Buffer{}), p, "", path, map[string]string{"texture": "x"})
		var inputErr *form.InputError
		require.ErrorAs(t, err, &inputErr)
		require.Equal(t, []string{"radius", "texture", "perimeter", "area", "smoothness", "radious"}, inputErr.Fields)
	})
}

func TestRunPredict_ModelMissing(t *testing.T) {
	dir := t.TempDir()
	p := newPredictor(t, predictor.Options{Loader: func() (*model.Pipeline, error) {
		return model.Load(filepath.Join(dir, "scaler.json"), filepath.Join(dir, "breast_cancer.json"), domain.Features())
	}})

	err := runPredict(newCommand(&bytes.Buffer{}), p, "benign", "", nil)
	require.ErrorContains(t, err, "model files not found")
}
