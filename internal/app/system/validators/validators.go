// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	activitystore "github.com/dalemusser/fittrack/internal/app/store/activities"
	leaderboardstore "github.com/dalemusser/fittrack/internal/app/store/leaderboard"
	teamstore "github.com/dalemusser/fittrack/internal/app/store/teams"
	userstore "github.com/dalemusser/fittrack/internal/app/store/users"
	workoutstore "github.com/dalemusser/fittrack/internal/app/store/workouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the five collections (if missing) and tries to attach
// JSON-Schema validators. The schemas repeat the shape rules the entity
// store enforces, so a write that bypasses the store still cannot store a
// malformed document. Cross-document rules (uniqueness, references) are not
// expressible here.
//
// On servers that don't support collMod/validators (e.g. some DocumentDB
// versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema, logger); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure(teamstore.Collection, teamsSchema())
	ensure(userstore.Collection, usersSchema())
	ensure(activitystore.Collection, activitiesSchema())
	ensure(workoutstore.Collection, workoutsSchema())
	ensure(leaderboardstore.Collection, leaderboardSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		logger.Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	logger.Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M, logger *zap.Logger) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	logger.Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	integer  = bson.M{"bsonType": bson.A{"int", "long"}}
	countNN  = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0}
	objectID = bson.M{"bsonType": "objectId"}
)

func maxLen(n int) bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "maxLength": n, "pattern": ".*\\S.*"}
}

func schema(required bson.A, props bson.M) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   required,
			"properties": props,
		},
	}
}

func teamsSchema() bson.M {
	return schema(bson.A{"name", "name_ci"}, bson.M{
		"name":        maxLen(100),
		"name_ci":     nonBlank,
		"description": bson.M{"bsonType": "string"},
	})
}

func usersSchema() bson.M {
	return schema(bson.A{"name", "email", "team_id"}, bson.M{
		"name":    maxLen(100),
		"email":   bson.M{"bsonType": "string", "pattern": "^[^@\\s]+@[^@\\s]+$"},
		"team_id": objectID,
	})
}

func activitiesSchema() bson.M {
	return schema(bson.A{"user_id", "type", "duration", "calories", "date"}, bson.M{
		"user_id":  objectID,
		"type":     maxLen(50),
		"duration": countNN,
		"calories": countNN,
		"date":     bson.M{"bsonType": "date"},
	})
}

func workoutsSchema() bson.M {
	return schema(bson.A{"name", "difficulty"}, bson.M{
		"name":        maxLen(100),
		"description": bson.M{"bsonType": "string"},
		"difficulty":  maxLen(50),
	})
}

func leaderboardSchema() bson.M {
	return schema(bson.A{"team_id", "points", "rank"}, bson.M{
		"team_id": objectID,
		"points":  integer,
		"rank":    integer,
	})
}
