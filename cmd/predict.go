package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"tumotrack/internal/config"
	"tumotrack/internal/desktop"
	"tumotrack/internal/predictor"
	"tumotrack/pkg/domain"
	"tumotrack/pkg/form"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
)

func predictCommand(cfg *config.Config) *cobra.Command {
	var (
		sample string
		file   string
		set    map[string]string
	)

	cmd := &cobra.Command{
		Use:          "predict",
		Short:        "Classifies a single record from a sample, a JSON file or flags",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			journal, closeJournal := getJournal(ctx, cfg)
			defer closeJournal()

			p := getPredictor(ctx, predictor.NewOptions(cfg), journal)

			return runPredict(cmd, p, sample, file, set)
		},
	}

	cmd.Flags().StringVar(&sample, "sample", "", "Built-in sample to start from (benign or malignant)")
	cmd.Flags().StringVar(&file, "file", "", "JSON file with feature values keyed by feature name")
	cmd.Flags().StringToStringVar(&set, "set", nil, "Feature values as key=value, applied last")

	return cmd
}

// runPredict classifies the record assembled from sample, file and set, in
// that order of precedence, and prints the result lines.
func runPredict(cmd *cobra.Command, p predictor.Predictor, sample, file string, set map[string]string) error {
	if err := p.Ready(); err != nil {
		return errors.Wrap(err, "model files not found")
	}

	values, err := recordValues(p.Features(), sample, file, set)
	if err != nil {
		return err
	}

	record, err := form.Parse(p.Features(), values, form.InvalidMessage)
	if unknown := unknownKeys(p.Features(), values); len(unknown) > 0 {
		var fields []string
		var inputErr *form.InputError
		if errors.As(err, &inputErr) {
			fields = inputErr.Fields
		} else if err != nil {
			return err //nolint: wrapcheck
		}

		return &form.InputError{Fields: append(fields, unknown...), Message: form.InvalidMessage}
	}
	if err != nil {
		return err //nolint: wrapcheck
	}

	pred, err := p.Predict(cmd.Context(), domain.SourceCLI, record)
	if err != nil {
		return errors.Wrap(err, "predict")
	}

	result, benign, malignant := desktop.FormatResult(pred)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n%s\n", result, benign, malignant)

	return err //nolint: wrapcheck
}

func recordValues(features []domain.Feature, sample, file string, set map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(features))

	if sample != "" {
		s, err := domain.SampleByName(sample)
		if err != nil {
			return nil, err //nolint: wrapcheck
		}
		values = form.Values(features, s.Values)
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, errors.Wrap(err, "open record file")
		}
		defer f.Close()

		fromFile, err := readRecord(f)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", file)
		}
		for k, v := range fromFile {
			values[k] = v
		}
	}

	for k, v := range set {
		values[k] = v
	}

	return values, nil
}

// unknownKeys returns the keys of values that name no feature, sorted.
func unknownKeys(features []domain.Feature, values map[string]string) []string {
	known := make(map[string]bool, len(features))
	for _, f := range features {
		known[f.Key] = true
	}

	var unknown []string
	for k := range values {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)

	return unknown
}

// readRecord decodes a JSON object of feature values. The object may also be
// wrapped as {"features": {...}}, the body accepted by the JSON API.
func readRecord(r io.Reader) (map[string]string, error) {
	d := jx.Decode(r, 4096)
	values := map[string]string{}

	var decodeObject func(d *jx.Decoder) error
	decodeObject = func(d *jx.Decoder) error {
		return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			switch d.Next() {
			case jx.Number:
				n, err := d.Num()
				if err != nil {
					return errors.Wrapf(err, "field %q", key)
				}
				values[string(key)] = n.String()
			case jx.String:
				s, err := d.Str()
				if err != nil {
					return errors.Wrapf(err, "field %q", key)
				}
				values[string(key)] = s
			case jx.Object:
				if string(key) != "features" {
					return errors.Errorf("field %q: unexpected object", key)
				}

				return decodeObject(d)
			default:
				return errors.Errorf("field %q: expected a number", key)
			}

			return nil
		})
	}

	if err := decodeObject(d); err != nil {
		return nil, err
	}

	return values, nil
}
