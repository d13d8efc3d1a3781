// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	activitystore "github.com/dalemusser/fittrack/internal/app/store/activities"
	leaderboardstore "github.com/dalemusser/fittrack/internal/app/store/leaderboard"
	teamstore "github.com/dalemusser/fittrack/internal/app/store/teams"
	userstore "github.com/dalemusser/fittrack/internal/app/store/users"
	workoutstore "github.com/dalemusser/fittrack/internal/app/store/workouts"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's set is reconciled
idempotently. Errors are aggregated so every problem is visible and startup
can fail fast.

The unique indexes on teams.name and users.email back up the
read-before-write uniqueness checks in the entity store.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string
	for _, c := range Desired() {
		if err := ensureIndexSet(ctx, db.Collection(c.Collection), c.Models, logger); err != nil {
			problems = append(problems, c.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// CollectionIndexes is the desired index set for one collection.
type CollectionIndexes struct {
	Collection string
	Models     []mongo.IndexModel
}

// Desired lists every index the service relies on.
func Desired() []CollectionIndexes {
	return []CollectionIndexes{
		{teamstore.Collection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetName("uniq_teams_name").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_teams_nameci_id"),
			},
		}},
		{userstore.Collection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_users_email").SetUnique(true),
			},
			{
				// list order, and the team filter
				Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_users_team_nameci_id"),
			},
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_users_nameci_id"),
			},
		}},
		{activitystore.Collection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_activities_user_date_id"),
			},
			{
				Keys:    bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
				Options: options.Index().SetName("idx_activities_date_id"),
			},
		}},
		{workoutstore.Collection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_workouts_nameci_id"),
			},
		}},
		{leaderboardstore.Collection, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "team_id", Value: 1}},
				Options: options.Index().SetName("idx_leaderboard_team"),
			},
			{
				Keys:    bson.D{{Key: "rank", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_leaderboard_rank_id"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                       */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection, logger *zap.Logger) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			logger.Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet creates missing indexes and replaces ones whose name or
// uniqueness differs from the desired model.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listExisting(ctx, coll, logger)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique))

		if ex, ok := existing[sig]; ok {
			if ex.Name == name && isUnique(ex.Unique) == unique {
				log.Debug("reusing existing index")
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
			log.Info("dropped index to realign name or options", zap.String("old_name", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && (wafflemongo.IsDup(err) || strings.Contains(err.Error(), "E11000")) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present on %s)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
