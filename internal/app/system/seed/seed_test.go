package seed_test

import (
	"testing"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/seed"
	"github.com/dalemusser/fittrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestDemo(t *testing.T) {
	d, err := seed.Demo()
	require.NoError(t, err)

	require.Len(t, d.Teams, 2)
	assert.Equal(t, "Marvel", d.Teams[0].Name)
	assert.Len(t, d.Teams[0].Users, 2)
	assert.Len(t, d.Workouts, 2)
	require.Len(t, d.Leaderboard, 2)
	assert.Equal(t, seed.Standing{Team: "DC", Points: 800, Rank: 2}, d.Leaderboard[1])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "teams:\n  - name: X\n    colour: red\n"},
		{"unknown leaderboard team", "leaderboard:\n  - {team: Nope, points: 1, rank: 1}\n"},
		{"bad date", "teams:\n  - name: X\n    users:\n      - name: A\n        email: a@x.com\n        activities:\n          - {type: Run, duration: 1, calories: 1, date: 18/11/2025}\n"},
		{"not yaml", "teams: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := seed.Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := entities.New(db, zap.NewNop())
	d, err := seed.Demo()
	require.NoError(t, err)

	n, err := seed.Run(ctx, store, d, seed.Options{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, seed.Counts{Teams: 2, Users: 4, Activities: 4, Workouts: 2, Leaderboard: 2}, n)

	// A second run without reset collides with the unique team names.
	_, err = seed.Run(ctx, store, d, seed.Options{}, zap.NewNop())
	assert.Error(t, err)

	// With reset it replaces everything.
	_, err = seed.Run(ctx, store, d, seed.Options{Reset: true}, zap.NewNop())
	require.NoError(t, err)

	teams, err := store.Teams.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, teams, 2)
	users, err := store.Users.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, users, 4)
	board, err := store.Leaderboard.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 750, board[0].Points)
}

func TestRun_ResetClearsOrphans(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	ghostTeam := fx.CreateTeam(ctx, "Ghosts")
	orphan := fx.CreateUser(ctx, "Orphan", "orphan@example.com", primitive.NilObjectID)
	fx.CreateActivity(ctx, orphan.ID, "Walking", "2025-01-01")
	fx.CreateWorkout(ctx, "Old Workout", "Easy")
	fx.CreateLeaderboardEntry(ctx, ghostTeam.ID, 1, 9)

	store := entities.New(db, zap.NewNop())
	_, err := seed.Run(ctx, store, seed.Dataset{}, seed.Options{Reset: true}, zap.NewNop())
	require.NoError(t, err)

	for _, coll := range []string{"teams", "users", "activities", "workouts", "leaderboard"} {
		n, err := db.Collection(coll).CountDocuments(ctx, map[string]any{})
		require.NoError(t, err)
		assert.Zero(t, n, coll)
	}
}
