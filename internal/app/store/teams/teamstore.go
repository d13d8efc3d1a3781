// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the MongoDB collection name for teams.
const Collection = "teams"

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateName = errors.New("a team with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Insert assigns an ID and timestamps and stores t.
// A unique-index violation on name is reported as ErrDuplicateName.
func (s *Store) Insert(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateName
		}
		return models.Team{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Team{}, apierr.ErrNotFound
		}
		return models.Team{}, err
	}
	return t, nil
}

// GetByIDs loads the teams with the given ids, in no particular order.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Exists reports whether a team with id is stored.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NameExistsForOther checks whether another team (not excludeID) already
// uses exactly this name. Pass primitive.NilObjectID when creating.
func (s *Store) NameExistsForOther(ctx context.Context, name string, excludeID primitive.ObjectID) (bool, error) {
	filter := bson.M{"name": name}
	if !excludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	err := s.c.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all teams ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Team, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "name_ci", Value: 1},
		{Key: "_id", Value: 1},
	}))
}

// Update writes the mutable fields of t and refreshes UpdatedAt.
func (s *Store) Update(ctx context.Context, t models.Team) (models.Team, error) {
	t.NameCI = text.Fold(t.Name)
	t.UpdatedAt = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, t.ID, bson.M{"$set": bson.M{
		"name":        t.Name,
		"name_ci":     t.NameCI,
		"description": t.Description,
		"updated_at":  t.UpdatedAt,
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateName
		}
		return models.Team{}, err
	}
	if res.MatchedCount == 0 {
		return models.Team{}, apierr.ErrNotFound
	}
	return t, nil
}

// Delete removes a team by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Team, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	teams := []models.Team{}
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}
