// Package activities serves /api/activities/, the per-user activity log.
package activities

import (
	"context"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/idcodec"
	"github.com/dalemusser/fittrack/internal/app/system/restapi"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const Resource = "activities"

// Activity is the wire form of a logged activity. Date is YYYY-MM-DD and
// Duration is in minutes.
type Activity struct {
	ID       string  `json:"id"`
	User     string  `json:"user"`
	UserID   string  `json:"user_id"`
	UserName *string `json:"user_name"`
	Type     string  `json:"type"`
	Duration int     `json:"duration"`
	Calories int     `json:"calories"`
	Date     string  `json:"date"`
}

type input struct {
	User     *string `json:"user"`
	Type     *string `json:"type"`
	Duration *int    `json:"duration"`
	Calories *int    `json:"calories"`
	Date     *string `json:"date"`
}

// UserNames resolves user display names in one lookup.
type UserNames interface {
	NamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type Serializer struct {
	Users UserNames
}

func (s Serializer) Represent(ctx context.Context, rows []models.Activity) ([]Activity, error) {
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.UserID)
	}
	names, err := s.Users.NamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Activity, 0, len(rows))
	for _, a := range rows {
		w := Activity{
			ID:       idcodec.Encode(a.ID),
			User:     idcodec.Encode(a.UserID),
			UserID:   idcodec.Encode(a.UserID),
			Type:     a.Type,
			Duration: a.Duration,
			Calories: a.Calories,
			Date:     a.Date.UTC().Format(models.DateLayout),
		}
		if name, ok := names[a.UserID]; ok {
			w.UserName = &name
		}
		out = append(out, w)
	}
	return out, nil
}

func (Serializer) Decode(body []byte, rec *models.Activity, partial bool) error {
	var in input
	if err := restapi.DecodeBody(body, &in); err != nil {
		return err
	}
	f := restapi.NewFields(partial)
	f.Ref("user", in.User, &rec.UserID)
	f.String("type", in.Type, &rec.Type, true)
	f.Int("duration", in.Duration, &rec.Duration)
	f.Int("calories", in.Calories, &rec.Calories)
	f.Date("date", in.Date, &rec.Date)
	return f.Err()
}

// Filters: ?user=<id>.
func (Serializer) Filters() []string { return []string{"user"} }

func New(store *entities.Store, logger *zap.Logger) *restapi.Controller[models.Activity, Activity] {
	return restapi.NewController[models.Activity, Activity](Resource, store.Activities, Serializer{Users: store.Users}, logger)
}
