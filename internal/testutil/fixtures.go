package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/fittrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts documents directly, bypassing the entity store checks.
// Use it to arrange state (including orphans) that the API would refuse.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

func (f *Fixtures) CreateTeam(ctx context.Context, name string) models.Team {
	f.t.Helper()
	now := time.Now().UTC()
	team := models.Team{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: name + " description",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "teams", team)
	return team
}

func (f *Fixtures) CreateUser(ctx context.Context, name, email string, teamID primitive.ObjectID) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		TeamID:    teamID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "users", user)
	return user
}

// CreateActivity logs a 30 minute activity for userID on date (YYYY-MM-DD).
func (f *Fixtures) CreateActivity(ctx context.Context, userID primitive.ObjectID, kind, date string) models.Activity {
	f.t.Helper()
	d, err := time.ParseInLocation(models.DateLayout, date, time.UTC)
	if err != nil {
		f.t.Fatalf("bad fixture date %q: %v", date, err)
	}
	now := time.Now().UTC()
	act := models.Activity{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      kind,
		Duration:  30,
		Calories:  300,
		Date:      d,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "activities", act)
	return act
}

func (f *Fixtures) CreateWorkout(ctx context.Context, name, difficulty string) models.Workout {
	f.t.Helper()
	now := time.Now().UTC()
	w := models.Workout{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test workout",
		Difficulty:  difficulty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "workouts", w)
	return w
}

func (f *Fixtures) CreateLeaderboardEntry(ctx context.Context, teamID primitive.ObjectID, points, rank int) models.LeaderboardEntry {
	f.t.Helper()
	now := time.Now().UTC()
	e := models.LeaderboardEntry{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Points:    points,
		Rank:      rank,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "leaderboard", e)
	return e
}
