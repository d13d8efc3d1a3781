// internal/app/store/workouts/workoutstore.go
package workoutstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "workouts"

// Store manages the workout catalog. Workouts reference nothing and are
// referenced by nothing.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

func (s *Store) Insert(ctx context.Context, w models.Workout) (models.Workout, error) {
	now := time.Now().UTC()
	w.ID = primitive.NewObjectID()
	w.NameCI = text.Fold(w.Name)
	w.CreatedAt = now
	w.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.Workout{}, err
	}
	return w, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Workout, error) {
	var w models.Workout
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Workout{}, apierr.ErrNotFound
		}
		return models.Workout{}, err
	}
	return w, nil
}

// List returns the catalog ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Workout, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "name_ci", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Workout{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, w models.Workout) (models.Workout, error) {
	w.NameCI = text.Fold(w.Name)
	w.UpdatedAt = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, w.ID, bson.M{"$set": bson.M{
		"name":        w.Name,
		"name_ci":     w.NameCI,
		"description": w.Description,
		"difficulty":  w.Difficulty,
		"updated_at":  w.UpdatedAt,
	}})
	if err != nil {
		return models.Workout{}, err
	}
	if res.MatchedCount == 0 {
		return models.Workout{}, apierr.ErrNotFound
	}
	return w, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
