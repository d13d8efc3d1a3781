// Package teams serves /api/teams/.
package teams

import (
	"context"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/idcodec"
	"github.com/dalemusser/fittrack/internal/app/system/restapi"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.uber.org/zap"
)

// Resource is the path segment under /api/.
const Resource = "teams"

// Team is the wire form of a team.
type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type input struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Serializer maps models.Team to and from the wire.
type Serializer struct{}

func (Serializer) Represent(_ context.Context, rows []models.Team) ([]Team, error) {
	out := make([]Team, 0, len(rows))
	for _, t := range rows {
		out = append(out, Team{
			ID:          idcodec.Encode(t.ID),
			Name:        t.Name,
			Description: t.Description,
		})
	}
	return out, nil
}

func (Serializer) Decode(body []byte, rec *models.Team, partial bool) error {
	var in input
	if err := restapi.DecodeBody(body, &in); err != nil {
		return err
	}
	f := restapi.NewFields(partial)
	f.String("name", in.Name, &rec.Name, true)
	f.String("description", in.Description, &rec.Description, false)
	return f.Err()
}

func (Serializer) Filters() []string { return nil }

// New builds the teams controller.
func New(store *entities.Store, logger *zap.Logger) *restapi.Controller[models.Team, Team] {
	return restapi.NewController[models.Team, Team](Resource, store.Teams, Serializer{}, logger)
}
