package leaderboard

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeTeams map[primitive.ObjectID]string

func (f fakeTeams) NamesByID(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	out := map[primitive.ObjectID]string{}
	for _, id := range ids {
		if n, ok := f[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func TestSerializer_Represent(t *testing.T) {
	marvel, dc := primitive.NewObjectID(), primitive.NewObjectID()
	s := Serializer{Teams: fakeTeams{marvel: "Marvel", dc: "DC"}}

	out, err := s.Represent(context.Background(), []models.LeaderboardEntry{
		{ID: primitive.NewObjectID(), TeamID: marvel, Points: 750, Rank: 1},
		{ID: primitive.NewObjectID(), TeamID: dc, Points: 800, Rank: 2},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Marvel", *out[0].TeamName)
	assert.Equal(t, "DC", *out[1].TeamName)
	assert.Equal(t, dc.Hex(), out[1].TeamID)
	assert.Equal(t, 800, out[1].Points)
}

func TestSerializer_Decode(t *testing.T) {
	team := primitive.NewObjectID()
	var rec models.LeaderboardEntry
	require.NoError(t, Serializer{}.Decode([]byte(`{"team":"`+team.Hex()+`","points":750,"rank":1}`), &rec, false))
	assert.Equal(t, models.LeaderboardEntry{TeamID: team, Points: 750, Rank: 1}, rec)

	err := Serializer{}.Decode([]byte(`{"team":"`+team.Hex()+`","points":750}`), &models.LeaderboardEntry{}, false)
	var ve *apierr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "rank")

	rec = models.LeaderboardEntry{TeamID: team, Points: 1, Rank: 5}
	require.NoError(t, Serializer{}.Decode([]byte(`{"rank":2}`), &rec, true))
	assert.Equal(t, 2, rec.Rank)
	assert.Equal(t, team, rec.TeamID)
}
