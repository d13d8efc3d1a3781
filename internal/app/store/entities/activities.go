package entities

import (
	"context"

	activitystore "github.com/dalemusser/fittrack/internal/app/store/activities"
	userstore "github.com/dalemusser/fittrack/internal/app/store/users"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activities requires an existing user on every write.
type Activities struct {
	activities *activitystore.Store
	users      *userstore.Store
}

// List honors the "user" filter; results are most recent first.
func (a *Activities) List(ctx context.Context, f Filter) ([]models.Activity, error) {
	rows, err := a.activities.List(ctx, f.ID("user"))
	return rows, storeErr("list activities", err)
}

func (a *Activities) Get(ctx context.Context, id primitive.ObjectID) (models.Activity, error) {
	row, err := a.activities.GetByID(ctx, id)
	return row, storeErr("get activity", err)
}

func (a *Activities) Create(ctx context.Context, act models.Activity) (models.Activity, error) {
	act.ID = primitive.NilObjectID
	if err := a.validate(ctx, &act); err != nil {
		return models.Activity{}, err
	}
	created, err := a.activities.Insert(ctx, act)
	return created, storeErr("create activity", err)
}

func (a *Activities) Update(ctx context.Context, act models.Activity) (models.Activity, error) {
	if err := a.validate(ctx, &act); err != nil {
		return models.Activity{}, err
	}
	updated, err := a.activities.Update(ctx, act)
	return updated, storeErr("update activity", err)
}

func (a *Activities) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := a.activities.Delete(ctx, id)
	if err != nil {
		return storeErr("delete activity", err)
	}
	if n == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

func (a *Activities) validate(ctx context.Context, act *models.Activity) error {
	ve := &apierr.ValidationError{}
	checkText(ve, "type", &act.Type, 50, true)
	checkNonNegative(ve, "duration", act.Duration)
	checkNonNegative(ve, "calories", act.Calories)
	if act.Date.IsZero() {
		ve.Add("date", "This field is required.")
	}
	requireRef(ve, "user", act.UserID)
	if err := ve.OrNil(); err != nil {
		return err
	}

	ok, err := a.users.Exists(ctx, act.UserID)
	if err != nil {
		return storeErr("check user reference", err)
	}
	if !ok {
		return apierr.MissingReference("user", act.UserID.Hex())
	}
	return nil
}
