package entities

import (
	"context"

	workoutstore "github.com/dalemusser/fittrack/internal/app/store/workouts"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workouts is the standalone catalog.
type Workouts struct {
	workouts *workoutstore.Store
}

func (w *Workouts) List(ctx context.Context, _ Filter) ([]models.Workout, error) {
	rows, err := w.workouts.List(ctx)
	return rows, storeErr("list workouts", err)
}

func (w *Workouts) Get(ctx context.Context, id primitive.ObjectID) (models.Workout, error) {
	row, err := w.workouts.GetByID(ctx, id)
	return row, storeErr("get workout", err)
}

func (w *Workouts) Create(ctx context.Context, wo models.Workout) (models.Workout, error) {
	wo.ID = primitive.NilObjectID
	if err := validateWorkout(&wo); err != nil {
		return models.Workout{}, err
	}
	created, err := w.workouts.Insert(ctx, wo)
	return created, storeErr("create workout", err)
}

func (w *Workouts) Update(ctx context.Context, wo models.Workout) (models.Workout, error) {
	if err := validateWorkout(&wo); err != nil {
		return models.Workout{}, err
	}
	updated, err := w.workouts.Update(ctx, wo)
	return updated, storeErr("update workout", err)
}

func (w *Workouts) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := w.workouts.Delete(ctx, id)
	if err != nil {
		return storeErr("delete workout", err)
	}
	if n == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

func validateWorkout(wo *models.Workout) error {
	ve := &apierr.ValidationError{}
	checkText(ve, "name", &wo.Name, 100, true)
	checkText(ve, "description", &wo.Description, 0, false)
	checkText(ve, "difficulty", &wo.Difficulty, 50, true)
	return ve.OrNil()
}
