// internal/app/store/activities/activitystore.go
package activitystore

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

const Collection = "activities"

// Store manages logged activities.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Insert(ctx context.Context, a models.Activity) (models.Activity, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activity{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Activity, error) {
	var a models.Activity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Activity{}, apierr.ErrNotFound
		}
		return models.Activity{}, err
	}
	return a, nil
}

// List returns activities most recent first; same-day entries are ordered
// by id (newest first) so repeated queries agree. A non-zero userID
// restricts the result to that user.
func (s *Store) List(ctx context.Context, userID primitive.ObjectID) ([]models.Activity, error) {
	filter := bson.M{}
	if !userID.IsZero() {
		filter["user_id"] = userID
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "_id", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Activity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, a models.Activity) (models.Activity, error) {
	a.UpdatedAt = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, a.ID, bson.M{"$set": bson.M{
		"user_id":    a.UserID,
		"type":       a.Type,
		"duration":   a.Duration,
		"calories":   a.Calories,
		"date":       a.Date,
		"updated_at": a.UpdatedAt,
	}})
	if err != nil {
		return models.Activity{}, err
	}
	if res.MatchedCount == 0 {
		return models.Activity{}, apierr.ErrNotFound
	}
	return a, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUsers removes every activity logged by any of the users.
func (s *Store) DeleteByUsers(ctx context.Context, userIDs []primitive.ObjectID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
