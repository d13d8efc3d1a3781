// Package workouts serves /api/workouts/, the standalone workout catalog.
package workouts

import (
	"context"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/idcodec"
	"github.com/dalemusser/fittrack/internal/app/system/restapi"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.uber.org/zap"
)

const Resource = "workouts"

// Workout is the wire form of a catalog entry.
type Workout struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
}

type input struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Difficulty  *string `json:"difficulty"`
}

type Serializer struct{}

func (Serializer) Represent(_ context.Context, rows []models.Workout) ([]Workout, error) {
	out := make([]Workout, 0, len(rows))
	for _, w := range rows {
		out = append(out, Workout{
			ID:          idcodec.Encode(w.ID),
			Name:        w.Name,
			Description: w.Description,
			Difficulty:  w.Difficulty,
		})
	}
	return out, nil
}

func (Serializer) Decode(body []byte, rec *models.Workout, partial bool) error {
	var in input
	if err := restapi.DecodeBody(body, &in); err != nil {
		return err
	}
	f := restapi.NewFields(partial)
	f.String("name", in.Name, &rec.Name, true)
	f.String("description", in.Description, &rec.Description, false)
	f.String("difficulty", in.Difficulty, &rec.Difficulty, true)
	return f.Err()
}

func (Serializer) Filters() []string { return nil }

func New(store *entities.Store, logger *zap.Logger) *restapi.Controller[models.Workout, Workout] {
	return restapi.NewController[models.Workout, Workout](Resource, store.Workouts, Serializer{}, logger)
}
