package entities_test

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"github.com/dalemusser/fittrack/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newStore(t *testing.T) (*entities.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return entities.New(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func date(s string) time.Time {
	d, _ := time.ParseInLocation(models.DateLayout, s, time.UTC)
	return d
}

func TestTeams_Create(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Teams.Create(ctx, models.Team{Name: "  Marvel  Heroes ", Description: "Marvel & friends, a < b"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if created.Name != "Marvel  Heroes" {
		t.Errorf("Name = %q, want trimmed with interior spacing kept", created.Name)
	}
	if created.Description != "Marvel & friends, a < b" {
		t.Errorf("Description = %q, want stored as submitted", created.Description)
	}
	if created.NameCI == "" || created.CreatedAt.IsZero() {
		t.Error("expected NameCI and timestamps to be set")
	}
}

func TestTeams_Create_DuplicateName(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Teams.Create(ctx, models.Team{Name: "Marvel"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Teams.Create(ctx, models.Team{Name: " Marvel "})
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["name"]; !ok {
		t.Errorf("expected name field error, got %v", ve.Fields)
	}
}

func TestTeams_Create_NameDifferingInCase(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Teams.Create(ctx, models.Team{Name: "Marvel"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	second, err := store.Teams.Create(ctx, models.Team{Name: "marvel"})
	if err != nil {
		t.Fatalf("expected a name differing only in case to be accepted, got %v", err)
	}
	if second.Name != "marvel" {
		t.Errorf("Name = %q, want stored as submitted", second.Name)
	}
}

func TestTeams_Create_RejectsMarkup(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Teams.Create(ctx, models.Team{Name: "Team a<b", Description: "I love <Marvel> comics"})
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["name"] != "Markup is not allowed." {
		t.Errorf("name error = %q", ve.Fields["name"])
	}
	if ve.Fields["description"] != "Markup is not allowed." {
		t.Errorf("description error = %q", ve.Fields["description"])
	}

	n, err := fx.DB().Collection("teams").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no teams persisted, got %d", n)
	}
}

func TestTeams_Create_BlankName(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Teams.Create(ctx, models.Team{Name: "   "})
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTeams_Update_KeepsOwnName(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "DC")
	team.Description = "DC Superheroes"
	updated, err := store.Teams.Update(ctx, team)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Description != "DC Superheroes" {
		t.Errorf("Description = %q", updated.Description)
	}

	other := fx.CreateTeam(ctx, "Marvel")
	other.Name = "DC"
	if _, err := store.Teams.Update(ctx, other); !errors.As(err, new(*apierr.ValidationError)) {
		t.Errorf("expected ValidationError renaming onto an existing name, got %v", err)
	}
}

func TestTeams_Update_NotFound(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Teams.Update(ctx, models.Team{ID: primitive.NewObjectID(), Name: "Ghosts"})
	if !errors.Is(err, apierr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsers_Create_MissingTeam(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Users.Create(ctx, models.User{
		Name:   "Spider-Man",
		Email:  "spiderman@marvel.com",
		TeamID: primitive.NewObjectID(),
	})
	if !errors.Is(err, apierr.ErrReferenceNotFound) {
		t.Fatalf("expected ErrReferenceNotFound, got %v", err)
	}

	n, err := fx.DB().Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no users persisted, got %d", n)
	}
}

func TestUsers_Create_RequiresTeam(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Users.Create(ctx, models.User{Name: "Nobody", Email: "nobody@example.com"})
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["team"]; !ok {
		t.Errorf("expected team field error, got %v", ve.Fields)
	}
}

func TestUsers_Create_DuplicateEmail(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "Marvel")
	if _, err := store.Users.Create(ctx, models.User{Name: "Spider-Man", Email: "spiderman@marvel.com", TeamID: team.ID}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Users.Create(ctx, models.User{Name: "Imposter", Email: " spiderman@marvel.com ", TeamID: team.ID})
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["email"]; !ok {
		t.Errorf("expected email field error, got %v", ve.Fields)
	}

	other, err := store.Users.Create(ctx, models.User{Name: "Peter", Email: "SpiderMan@Marvel.com", TeamID: team.ID})
	if err != nil {
		t.Fatalf("expected an email differing in case to be accepted, got %v", err)
	}
	if other.Email != "SpiderMan@Marvel.com" {
		t.Errorf("Email = %q, want stored as submitted", other.Email)
	}
}

func TestUsers_Create_InvalidEmail(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "Marvel")
	_, err := store.Users.Create(ctx, models.User{Name: "Bad", Email: "not-an-email", TeamID: team.ID})
	if !errors.As(err, new(*apierr.ValidationError)) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestUsers_List_FilterByTeam(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	marvel := fx.CreateTeam(ctx, "Marvel")
	dc := fx.CreateTeam(ctx, "DC")
	fx.CreateUser(ctx, "Spider-Man", "spiderman@marvel.com", marvel.ID)
	fx.CreateUser(ctx, "Iron Man", "ironman@marvel.com", marvel.ID)
	fx.CreateUser(ctx, "Batman", "batman@dc.com", dc.ID)

	all, err := store.Users.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"Batman", "Iron Man", "Spider-Man"}
	if len(all) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(all))
	}
	for i, u := range all {
		if u.Name != want[i] {
			t.Errorf("users[%d] = %q, want %q", i, u.Name, want[i])
		}
	}

	onlyMarvel, err := store.Users.List(ctx, entities.Filter{"team": marvel.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(onlyMarvel) != 2 {
		t.Errorf("expected 2 Marvel users, got %d", len(onlyMarvel))
	}
}

func TestActivities_List_DateDescending(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "Marvel")
	user := fx.CreateUser(ctx, "Spider-Man", "spiderman@marvel.com", team.ID)
	for _, d := range []string{"2025-11-16", "2025-11-18", "2025-01-02", "2025-11-17"} {
		if _, err := store.Activities.Create(ctx, models.Activity{
			UserID: user.ID, Type: "Running", Duration: 30, Calories: 300, Date: date(d),
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	got, err := store.Activities.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"2025-11-18", "2025-11-17", "2025-11-16", "2025-01-02"}
	if len(got) != len(want) {
		t.Fatalf("expected %d activities, got %d", len(want), len(got))
	}
	for i, a := range got {
		if d := a.Date.Format(models.DateLayout); d != want[i] {
			t.Errorf("activities[%d].date = %s, want %s", i, d, want[i])
		}
	}
}

func TestActivities_Create_Validation(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "Marvel")
	user := fx.CreateUser(ctx, "Spider-Man", "spiderman@marvel.com", team.ID)

	_, err := store.Activities.Create(ctx, models.Activity{UserID: user.ID, Type: "Running", Duration: -1, Calories: -5})
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"duration", "calories", "date"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Errorf("expected %s field error, got %v", f, ve.Fields)
		}
	}

	_, err = store.Activities.Create(ctx, models.Activity{
		UserID: primitive.NewObjectID(), Type: "Running", Date: date("2025-11-18"),
	})
	if !errors.Is(err, apierr.ErrReferenceNotFound) {
		t.Errorf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestTeams_Delete_Cascades(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	marvel := fx.CreateTeam(ctx, "Marvel")
	dc := fx.CreateTeam(ctx, "DC")

	spidey := fx.CreateUser(ctx, "Spider-Man", "spiderman@marvel.com", marvel.ID)
	iron := fx.CreateUser(ctx, "Iron Man", "ironman@marvel.com", marvel.ID)
	batman := fx.CreateUser(ctx, "Batman", "batman@dc.com", dc.ID)
	fx.CreateActivity(ctx, spidey.ID, "Running", "2025-11-18")
	fx.CreateActivity(ctx, spidey.ID, "Climbing", "2025-11-17")
	fx.CreateActivity(ctx, iron.ID, "Cycling", "2025-11-18")
	keep := fx.CreateActivity(ctx, batman.ID, "Yoga", "2025-11-18")
	fx.CreateLeaderboardEntry(ctx, marvel.ID, 750, 1)
	fx.CreateLeaderboardEntry(ctx, marvel.ID, 10, 3)
	dcEntry := fx.CreateLeaderboardEntry(ctx, dc.ID, 800, 2)

	if err := store.Teams.Delete(ctx, marvel.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Teams.Get(ctx, marvel.ID); !errors.Is(err, apierr.ErrNotFound) {
		t.Errorf("expected team gone, got %v", err)
	}
	if _, err := store.Users.Get(ctx, spidey.ID); !errors.Is(err, apierr.ErrNotFound) {
		t.Errorf("expected Spider-Man gone, got %v", err)
	}

	users, err := store.Users.List(ctx, nil)
	if err != nil {
		t.Fatalf("List users failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != batman.ID {
		t.Errorf("expected only Batman to remain, got %+v", users)
	}

	acts, err := store.Activities.List(ctx, nil)
	if err != nil {
		t.Fatalf("List activities failed: %v", err)
	}
	if len(acts) != 1 || acts[0].ID != keep.ID {
		t.Errorf("expected only Batman's activity to remain, got %+v", acts)
	}

	board, err := store.Leaderboard.List(ctx, nil)
	if err != nil {
		t.Fatalf("List leaderboard failed: %v", err)
	}
	if len(board) != 1 || board[0].ID != dcEntry.ID {
		t.Errorf("expected only the DC entry to remain, got %+v", board)
	}
}

func TestTeams_Delete_NotFound(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Teams.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, apierr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUsers_Delete_CascadesActivities(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fx.CreateTeam(ctx, "Marvel")
	spidey := fx.CreateUser(ctx, "Spider-Man", "spiderman@marvel.com", team.ID)
	iron := fx.CreateUser(ctx, "Iron Man", "ironman@marvel.com", team.ID)
	fx.CreateActivity(ctx, spidey.ID, "Running", "2025-11-18")
	fx.CreateActivity(ctx, iron.ID, "Cycling", "2025-11-18")

	if err := store.Users.Delete(ctx, spidey.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	acts, err := store.Activities.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(acts) != 1 || acts[0].UserID != iron.ID {
		t.Errorf("expected only Iron Man's activity, got %+v", acts)
	}
	if _, err := store.Teams.Get(ctx, team.ID); err != nil {
		t.Errorf("team must survive user deletion: %v", err)
	}
}

func TestLeaderboard_List_ByRank(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	marvel := fx.CreateTeam(ctx, "Marvel")
	dc := fx.CreateTeam(ctx, "DC")
	fx.CreateLeaderboardEntry(ctx, dc.ID, 800, 2)
	fx.CreateLeaderboardEntry(ctx, marvel.ID, 750, 1)

	rows, err := store.Leaderboard.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Rank != 1 || rows[1].Rank != 2 {
		t.Errorf("expected rank ascending, got %+v", rows)
	}

	_, err = store.Leaderboard.Create(ctx, models.LeaderboardEntry{TeamID: primitive.NewObjectID(), Points: 1, Rank: 3})
	if !errors.Is(err, apierr.ErrReferenceNotFound) {
		t.Errorf("expected ErrReferenceNotFound, got %v", err)
	}
}

func TestWorkouts_CRUD(t *testing.T) {
	store, _ := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	w, err := store.Workouts.Create(ctx, models.Workout{Name: "Power Yoga", Description: "Strength and flexibility", Difficulty: "medium"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if w.Difficulty != "medium" {
		t.Errorf("Difficulty = %q, want stored as submitted", w.Difficulty)
	}
	if _, err := store.Workouts.Create(ctx, models.Workout{Name: "Hero HIIT", Difficulty: "Hard"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rows, err := store.Workouts.List(ctx, nil)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Hero HIIT" {
		t.Errorf("expected name order, got %+v", rows)
	}

	if err := store.Workouts.Delete(ctx, w.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Workouts.Delete(ctx, w.ID); !errors.Is(err, apierr.ErrNotFound) {
		t.Errorf("second Delete: expected ErrNotFound, got %v", err)
	}
}

func TestNamesByID(t *testing.T) {
	store, fx := newStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	marvel := fx.CreateTeam(ctx, "Marvel")
	missing := primitive.NewObjectID()

	names, err := store.Teams.NamesByID(ctx, []primitive.ObjectID{marvel.ID, marvel.ID, missing})
	if err != nil {
		t.Fatalf("NamesByID failed: %v", err)
	}
	if names[marvel.ID] != "Marvel" {
		t.Errorf("names[marvel] = %q", names[marvel.ID])
	}
	if _, ok := names[missing]; ok {
		t.Error("unknown id should be absent")
	}
}
