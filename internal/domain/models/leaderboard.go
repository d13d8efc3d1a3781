// internal/domain/models/leaderboard.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LeaderboardEntry ranks a team. Stored in the "leaderboard" collection.
type LeaderboardEntry struct {
	ID        primitive.ObjectID `bson:"_id"`
	TeamID    primitive.ObjectID `bson:"team_id"`
	Points    int                `bson:"points"`
	Rank      int                `bson:"rank"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
