// Package entities is the integrity layer over the five collections.
//
// MongoDB enforces nothing across documents, so this package does it in
// application code:
//
//   - required fields and value ranges
//   - uniqueness of team names and user emails (read-before-write, with the
//     unique indexes as a backstop for concurrent writers)
//   - reference existence on every write that carries a team or user id
//   - cascades: team -> users -> activities, team -> leaderboard entries
//   - default list ordering
//
// Reference checks are a separate read before the write. A referenced
// record deleted between the two can leave an orphan; that race is
// accepted.
package entities

import (
	"fmt"
	"unicode/utf8"

	activitystore "github.com/dalemusser/fittrack/internal/app/store/activities"
	leaderboardstore "github.com/dalemusser/fittrack/internal/app/store/leaderboard"
	teamstore "github.com/dalemusser/fittrack/internal/app/store/teams"
	userstore "github.com/dalemusser/fittrack/internal/app/store/users"
	workoutstore "github.com/dalemusser/fittrack/internal/app/store/workouts"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/app/system/htmlsanitize"
	"github.com/dalemusser/fittrack/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store bundles the per-entity collections.
type Store struct {
	Teams       *Teams
	Users       *Users
	Activities  *Activities
	Workouts    *Workouts
	Leaderboard *Leaderboard
}

// New wires the entity collections over db.
func New(db *mongo.Database, logger *zap.Logger) *Store {
	teams := teamstore.New(db)
	users := userstore.New(db)
	activities := activitystore.New(db)
	workouts := workoutstore.New(db)
	board := leaderboardstore.New(db)

	return &Store{
		Teams:       &Teams{teams: teams, users: users, activities: activities, board: board, log: logger},
		Users:       &Users{users: users, teams: teams, activities: activities, log: logger},
		Activities:  &Activities{activities: activities, users: users},
		Workouts:    &Workouts{workouts: workouts},
		Leaderboard: &Leaderboard{board: board, teams: teams},
	}
}

// Filter restricts a list by reference field. Keys are wire field names
// ("team", "user"); a key an entity does not know is ignored.
type Filter map[string]primitive.ObjectID

// ID returns the id for key, or NilObjectID when absent.
func (f Filter) ID(key string) primitive.ObjectID {
	if f == nil {
		return primitive.NilObjectID
	}
	return f[key]
}

// storeErr classifies err and prefixes it with the operation name.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, apierr.Classify(err))
}

// requireRef validates that a reference field is set and resolves.
func requireRef(ve *apierr.ValidationError, field string, id primitive.ObjectID) bool {
	if id.IsZero() {
		ve.Add(field, "This field is required.")
		return false
	}
	return true
}

const msgMarkup = "Markup is not allowed."

// checkText trims *s and checks it as plain text of at most maxChars
// characters (0 means unbounded). A blank value fails only when required.
// It reports whether the value passed.
func checkText(ve *apierr.ValidationError, field string, s *string, maxChars int, required bool) bool {
	*s = normalize.Text(*s)
	switch {
	case *s == "":
		if !required {
			return true
		}
		ve.Add(field, "This field may not be blank.")
	case htmlsanitize.HasMarkup(*s):
		ve.Add(field, msgMarkup)
	case maxChars > 0 && utf8.RuneCountInString(*s) > maxChars:
		ve.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", maxChars))
	default:
		return true
	}
	return false
}

func checkNonNegative(ve *apierr.ValidationError, field string, v int) {
	if v < 0 {
		ve.Add(field, "Ensure this value is greater than or equal to 0.")
	}
}

// namesByID turns a slice of records into an id -> name map.
func namesByID[T any](rows []T, key func(T) (primitive.ObjectID, string)) map[primitive.ObjectID]string {
	out := make(map[primitive.ObjectID]string, len(rows))
	for _, r := range rows {
		id, name := key(r)
		out[id] = name
	}
	return out
}

// uniqueIDs drops zero and repeated ids, keeping first-seen order.
func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
