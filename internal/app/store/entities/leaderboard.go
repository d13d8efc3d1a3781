package entities

import (
	"context"

	leaderboardstore "github.com/dalemusser/fittrack/internal/app/store/leaderboard"
	teamstore "github.com/dalemusser/fittrack/internal/app/store/teams"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leaderboard requires an existing team on every write.
type Leaderboard struct {
	board *leaderboardstore.Store
	teams *teamstore.Store
}

// List honors the "team" filter; results are by rank ascending.
func (l *Leaderboard) List(ctx context.Context, f Filter) ([]models.LeaderboardEntry, error) {
	rows, err := l.board.List(ctx, f.ID("team"))
	return rows, storeErr("list leaderboard", err)
}

func (l *Leaderboard) Get(ctx context.Context, id primitive.ObjectID) (models.LeaderboardEntry, error) {
	row, err := l.board.GetByID(ctx, id)
	return row, storeErr("get leaderboard entry", err)
}

func (l *Leaderboard) Create(ctx context.Context, e models.LeaderboardEntry) (models.LeaderboardEntry, error) {
	e.ID = primitive.NilObjectID
	if err := l.validate(ctx, e); err != nil {
		return models.LeaderboardEntry{}, err
	}
	created, err := l.board.Insert(ctx, e)
	return created, storeErr("create leaderboard entry", err)
}

func (l *Leaderboard) Update(ctx context.Context, e models.LeaderboardEntry) (models.LeaderboardEntry, error) {
	if err := l.validate(ctx, e); err != nil {
		return models.LeaderboardEntry{}, err
	}
	updated, err := l.board.Update(ctx, e)
	return updated, storeErr("update leaderboard entry", err)
}

func (l *Leaderboard) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := l.board.Delete(ctx, id)
	if err != nil {
		return storeErr("delete leaderboard entry", err)
	}
	if n == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

func (l *Leaderboard) validate(ctx context.Context, e models.LeaderboardEntry) error {
	ve := &apierr.ValidationError{}
	requireRef(ve, "team", e.TeamID)
	if err := ve.OrNil(); err != nil {
		return err
	}
	ok, err := l.teams.Exists(ctx, e.TeamID)
	if err != nil {
		return storeErr("check team reference", err)
	}
	if !ok {
		return apierr.MissingReference("team", e.TeamID.Hex())
	}
	return nil
}
