// internal/app/store/leaderboard/leaderboardstore.go
package leaderboardstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "leaderboard"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Insert(ctx context.Context, e models.LeaderboardEntry) (models.LeaderboardEntry, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.LeaderboardEntry{}, err
	}
	return e, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.LeaderboardEntry, error) {
	var e models.LeaderboardEntry
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LeaderboardEntry{}, apierr.ErrNotFound
		}
		return models.LeaderboardEntry{}, err
	}
	return e, nil
}

// List returns entries by rank ascending (ties by id). A non-zero teamID
// restricts the result to that team.
func (s *Store) List(ctx context.Context, teamID primitive.ObjectID) ([]models.LeaderboardEntry, error) {
	filter := bson.M{}
	if !teamID.IsZero() {
		filter["team_id"] = teamID
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "rank", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.LeaderboardEntry{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, e models.LeaderboardEntry) (models.LeaderboardEntry, error) {
	e.UpdatedAt = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, e.ID, bson.M{"$set": bson.M{
		"team_id":    e.TeamID,
		"points":     e.Points,
		"rank":       e.Rank,
		"updated_at": e.UpdatedAt,
	}})
	if err != nil {
		return models.LeaderboardEntry{}, err
	}
	if res.MatchedCount == 0 {
		return models.LeaderboardEntry{}, apierr.ErrNotFound
	}
	return e, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByTeam removes every entry for the team.
func (s *Store) DeleteByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
