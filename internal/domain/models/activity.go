// internal/domain/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the wire form of calendar dates.
const DateLayout = "2006-01-02"

// Activity is one logged exercise session.
//
// Date is a calendar date stored as midnight UTC.
type Activity struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Type      string             `bson:"type"`
	Duration  int                `bson:"duration"` // minutes
	Calories  int                `bson:"calories"`
	Date      time.Time          `bson:"date"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
