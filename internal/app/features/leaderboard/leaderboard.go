// Package leaderboard serves /api/leaderboard/.
package leaderboard

import (
	"context"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/idcodec"
	"github.com/dalemusser/fittrack/internal/app/system/restapi"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const Resource = "leaderboard"

// Entry is the wire form of a leaderboard row.
type Entry struct {
	ID       string  `json:"id"`
	Team     string  `json:"team"`
	TeamID   string  `json:"team_id"`
	TeamName *string `json:"team_name"`
	Points   int     `json:"points"`
	Rank     int     `json:"rank"`
}

type input struct {
	Team   *string `json:"team"`
	Points *int    `json:"points"`
	Rank   *int    `json:"rank"`
}

type TeamNames interface {
	NamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type Serializer struct {
	Teams TeamNames
}

func (s Serializer) Represent(ctx context.Context, rows []models.LeaderboardEntry) ([]Entry, error) {
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, e := range rows {
		ids = append(ids, e.TeamID)
	}
	names, err := s.Teams.NamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(rows))
	for _, e := range rows {
		w := Entry{
			ID:     idcodec.Encode(e.ID),
			Team:   idcodec.Encode(e.TeamID),
			TeamID: idcodec.Encode(e.TeamID),
			Points: e.Points,
			Rank:   e.Rank,
		}
		if name, ok := names[e.TeamID]; ok {
			w.TeamName = &name
		}
		out = append(out, w)
	}
	return out, nil
}

func (Serializer) Decode(body []byte, rec *models.LeaderboardEntry, partial bool) error {
	var in input
	if err := restapi.DecodeBody(body, &in); err != nil {
		return err
	}
	f := restapi.NewFields(partial)
	f.Ref("team", in.Team, &rec.TeamID)
	f.Int("points", in.Points, &rec.Points)
	f.Int("rank", in.Rank, &rec.Rank)
	return f.Err()
}

// Filters: ?team=<id>.
func (Serializer) Filters() []string { return []string{"team"} }

func New(store *entities.Store, logger *zap.Logger) *restapi.Controller[models.LeaderboardEntry, Entry] {
	return restapi.NewController[models.LeaderboardEntry, Entry](Resource, store.Leaderboard, Serializer{Teams: store.Teams}, logger)
}
