package entities

import (
	"context"
	"errors"

	activitystore "github.com/dalemusser/fittrack/internal/app/store/activities"
	teamstore "github.com/dalemusser/fittrack/internal/app/store/teams"
	userstore "github.com/dalemusser/fittrack/internal/app/store/users"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/app/system/inputval"
	"github.com/dalemusser/fittrack/internal/app/system/metrics"
	"github.com/dalemusser/fittrack/internal/app/system/normalize"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgEmailTaken = "user with this email already exists."

// Users enforces unique emails, requires an existing team, and cascades
// deletes to activities.
type Users struct {
	users      *userstore.Store
	teams      *teamstore.Store
	activities *activitystore.Store
	log        *zap.Logger
}

// List honors the "team" filter.
func (u *Users) List(ctx context.Context, f Filter) ([]models.User, error) {
	rows, err := u.users.List(ctx, f.ID("team"))
	return rows, storeErr("list users", err)
}

func (u *Users) Get(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	row, err := u.users.GetByID(ctx, id)
	return row, storeErr("get user", err)
}

func (u *Users) NamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	rows, err := u.users.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, storeErr("resolve users", err)
	}
	return namesByID(rows, func(r models.User) (primitive.ObjectID, string) { return r.ID, r.Name }), nil
}

func (u *Users) Create(ctx context.Context, user models.User) (models.User, error) {
	user.ID = primitive.NilObjectID
	if err := u.validate(ctx, &user); err != nil {
		return models.User{}, err
	}
	created, err := u.users.Insert(ctx, user)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, apierr.Invalid("email", msgEmailTaken)
	}
	return created, storeErr("create user", err)
}

func (u *Users) Update(ctx context.Context, user models.User) (models.User, error) {
	if err := u.validate(ctx, &user); err != nil {
		return models.User{}, err
	}
	updated, err := u.users.Update(ctx, user)
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, apierr.Invalid("email", msgEmailTaken)
	}
	return updated, storeErr("update user", err)
}

// Delete removes the user's activities, then the user.
func (u *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := u.users.GetByID(ctx, id); err != nil {
		return storeErr("delete user", err)
	}
	nAct, err := u.activities.DeleteByUsers(ctx, []primitive.ObjectID{id})
	if err != nil {
		return storeErr("delete user: activities", err)
	}
	n, err := u.users.Delete(ctx, id)
	if err != nil {
		return storeErr("delete user", err)
	}
	if n == 0 {
		return apierr.ErrNotFound
	}
	metrics.RecordCascade(activitystore.Collection, nAct)
	u.log.Info("user deleted", zap.String("user_id", id.Hex()), zap.Int64("activities", nAct))
	return nil
}

func (u *Users) validate(ctx context.Context, user *models.User) error {
	user.Email = normalize.Text(user.Email)

	ve := &apierr.ValidationError{}
	checkText(ve, "name", &user.Name, 100, true)

	switch {
	case user.Email == "":
		ve.Add("email", "This field may not be blank.")
	case !inputval.IsValidEmail(user.Email):
		ve.Add("email", "Enter a valid email address.")
	default:
		taken, err := u.users.EmailExistsForOther(ctx, user.Email, user.ID)
		if err != nil {
			return storeErr("check user email", err)
		}
		if taken {
			ve.Add("email", msgEmailTaken)
		}
	}

	requireRef(ve, "team", user.TeamID)
	if err := ve.OrNil(); err != nil {
		return err
	}

	ok, err := u.teams.Exists(ctx, user.TeamID)
	if err != nil {
		return storeErr("check team reference", err)
	}
	if !ok {
		return apierr.MissingReference("team", user.TeamID.Hex())
	}
	return nil
}
