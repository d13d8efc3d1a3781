package entities

import (
	"context"
	"errors"

	activitystore "github.com/dalemusser/fittrack/internal/app/store/activities"
	leaderboardstore "github.com/dalemusser/fittrack/internal/app/store/leaderboard"
	teamstore "github.com/dalemusser/fittrack/internal/app/store/teams"
	userstore "github.com/dalemusser/fittrack/internal/app/store/users"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/app/system/metrics"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgTeamNameTaken = "team with this name already exists."

// Teams enforces unique names and cascades deletes to users, their
// activities, and leaderboard entries.
type Teams struct {
	teams      *teamstore.Store
	users      *userstore.Store
	activities *activitystore.Store
	board      *leaderboardstore.Store
	log        *zap.Logger
}

func (t *Teams) List(ctx context.Context, _ Filter) ([]models.Team, error) {
	rows, err := t.teams.List(ctx)
	return rows, storeErr("list teams", err)
}

func (t *Teams) Get(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	row, err := t.teams.GetByID(ctx, id)
	return row, storeErr("get team", err)
}

// NamesByID returns display names for the given team ids. Unknown ids are
// absent from the map.
func (t *Teams) NamesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	rows, err := t.teams.GetByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, storeErr("resolve teams", err)
	}
	return namesByID(rows, func(r models.Team) (primitive.ObjectID, string) { return r.ID, r.Name }), nil
}

func (t *Teams) Create(ctx context.Context, team models.Team) (models.Team, error) {
	team.ID = primitive.NilObjectID
	if err := t.validate(ctx, &team); err != nil {
		return models.Team{}, err
	}
	created, err := t.teams.Insert(ctx, team)
	if errors.Is(err, teamstore.ErrDuplicateName) {
		return models.Team{}, apierr.Invalid("name", msgTeamNameTaken)
	}
	return created, storeErr("create team", err)
}

func (t *Teams) Update(ctx context.Context, team models.Team) (models.Team, error) {
	if err := t.validate(ctx, &team); err != nil {
		return models.Team{}, err
	}
	updated, err := t.teams.Update(ctx, team)
	if errors.Is(err, teamstore.ErrDuplicateName) {
		return models.Team{}, apierr.Invalid("name", msgTeamNameTaken)
	}
	return updated, storeErr("update team", err)
}

// Delete removes the team after its dependents: activities of its users,
// the users, then its leaderboard entries.
func (t *Teams) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := t.teams.GetByID(ctx, id); err != nil {
		return storeErr("delete team", err)
	}

	userIDs, err := t.users.IDsByTeam(ctx, id)
	if err != nil {
		return storeErr("delete team: list users", err)
	}
	nAct, err := t.activities.DeleteByUsers(ctx, userIDs)
	if err != nil {
		return storeErr("delete team: activities", err)
	}
	nUsers, err := t.users.DeleteByTeam(ctx, id)
	if err != nil {
		return storeErr("delete team: users", err)
	}
	nBoard, err := t.board.DeleteByTeam(ctx, id)
	if err != nil {
		return storeErr("delete team: leaderboard", err)
	}
	n, err := t.teams.Delete(ctx, id)
	if err != nil {
		return storeErr("delete team", err)
	}
	if n == 0 {
		return apierr.ErrNotFound
	}

	metrics.RecordCascade(activitystore.Collection, nAct)
	metrics.RecordCascade(userstore.Collection, nUsers)
	metrics.RecordCascade(leaderboardstore.Collection, nBoard)
	t.log.Info("team deleted",
		zap.String("team_id", id.Hex()),
		zap.Int64("users", nUsers),
		zap.Int64("activities", nAct),
		zap.Int64("leaderboard_entries", nBoard))
	return nil
}

func (t *Teams) validate(ctx context.Context, team *models.Team) error {
	ve := &apierr.ValidationError{}
	checkText(ve, "description", &team.Description, 0, false)
	if checkText(ve, "name", &team.Name, 100, true) {
		taken, err := t.teams.NameExistsForOther(ctx, team.Name, team.ID)
		if err != nil {
			return storeErr("check team name", err)
		}
		if taken {
			ve.Add("name", msgTeamNameTaken)
		}
	}
	return ve.OrNil()
}
