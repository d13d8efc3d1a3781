// Package users serves /api/users/.
package users

import (
	"context"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/idcodec"
	"github.com/dalemusser/fittrack/internal/app/system/restapi"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const Resource = "users"

// User is the wire form of a user. Team and TeamID both carry the team id;
// TeamID and TeamName are read-only and TeamName is null when the team no
// longer resolves.
type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Team     string  `json:"team"`
	TeamID   string  `json:"team_id"`
	TeamName *string `json:"team_name"`
}

type input struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Team  *string `json:"team"`
}

// TeamNames resolves team display names in one lookup.
type TeamNames interface {
	NamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type Serializer struct {
	Teams TeamNames
}

func (s Serializer) Represent(ctx context.Context, rows []models.User) ([]User, error) {
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, u := range rows {
		ids = append(ids, u.TeamID)
	}
	names, err := s.Teams.NamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]User, 0, len(rows))
	for _, u := range rows {
		w := User{
			ID:     idcodec.Encode(u.ID),
			Name:   u.Name,
			Email:  u.Email,
			Team:   idcodec.Encode(u.TeamID),
			TeamID: idcodec.Encode(u.TeamID),
		}
		if name, ok := names[u.TeamID]; ok {
			w.TeamName = &name
		}
		out = append(out, w)
	}
	return out, nil
}

func (Serializer) Decode(body []byte, rec *models.User, partial bool) error {
	var in input
	if err := restapi.DecodeBody(body, &in); err != nil {
		return err
	}
	f := restapi.NewFields(partial)
	f.String("name", in.Name, &rec.Name, true)
	f.String("email", in.Email, &rec.Email, true)
	f.Ref("team", in.Team, &rec.TeamID)
	return f.Err()
}

// Filters: ?team=<id>.
func (Serializer) Filters() []string { return []string{"team"} }

func New(store *entities.Store, logger *zap.Logger) *restapi.Controller[models.User, User] {
	return restapi.NewController[models.User, User](Resource, store.Users, Serializer{Teams: store.Teams}, logger)
}
