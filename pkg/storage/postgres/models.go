package postgres

import (
	"encoding/json"
	"fmt"
	"time"
	"tumotrack/pkg/domain"

	"github.com/google/uuid"
)

// PgPrediction is the row layout of the predictions table.
type PgPrediction struct {
	ID     uuid.UUID `db:"id"`
	Source string    `db:"source"`
	Model  string    `db:"model"`

	Label                string  `db:"label"`
	BenignProbability    float64 `db:"benign_probability"`
	MalignantProbability float64 `db:"malignant_probability"`

	Values json.RawMessage `db:"inputs"`

	CreatedAt time.Time `db:"created_at"`
}

func (p *PgPrediction) ToDomain() (*domain.Prediction, error) {
	var values []float64
	if err := json.Unmarshal(p.Values, &values); err != nil {
		return nil, fmt.Errorf("could not unmarshal prediction values: %w", err)
	}

	label, ok := domain.ParseLabel(p.Label)
	if !ok {
		return nil, fmt.Errorf("unknown label %q", p.Label)
	}

	return &domain.Prediction{
		ID:                   domain.PredictionID(p.ID),
		Source:               domain.Source(p.Source),
		Model:                p.Model,
		Label:                label,
		BenignProbability:    p.BenignProbability,
		MalignantProbability: p.MalignantProbability,
		Values:               values,
		CreatedAt:            p.CreatedAt,
	}, nil
}

func (p *PgPrediction) FromDomain(prediction domain.Prediction) error {
	values, err := json.Marshal(prediction.Values)
	if err != nil {
		return fmt.Errorf("could not marshal prediction values: %w", err)
	}

	id := uuid.UUID(prediction.ID)
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := prediction.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	*p = PgPrediction{
		ID:                   id,
		Source:               string(prediction.Source),
		Model:                prediction.Model,
		Label:                prediction.Label.String(),
		BenignProbability:    prediction.BenignProbability,
		MalignantProbability: prediction.MalignantProbability,
		Values:               values,
		CreatedAt:            createdAt.UTC(),
	}

	return nil
}

func pgPredictionsToDomain(rows []PgPrediction) ([]domain.Prediction, error) {
	out := make([]domain.Prediction, 0, len(rows))
	for _, row := range rows {
		d, err := row.ToDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, *d)
	}

	return out, nil
}
