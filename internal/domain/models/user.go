// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a tracked athlete. TeamID is a reference, not ownership.
type User struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	NameCI    string             `bson:"name_ci"`
	Email     string             `bson:"email"` // unique, exact match
	TeamID    primitive.ObjectID `bson:"team_id"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
