// Package seed loads the demo dataset. Every record goes through the entity
// store, so seeded data obeys the same rules as API writes.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/dalemusser/fittrack/internal/app/store/entities"
	"github.com/dalemusser/fittrack/internal/app/system/apierr"
	"github.com/dalemusser/fittrack/internal/app/system/inputval"
	"github.com/dalemusser/fittrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demoYAML []byte

type Dataset struct {
	Teams       []Team     `yaml:"teams"`
	Workouts    []Workout  `yaml:"workouts"`
	Leaderboard []Standing `yaml:"leaderboard"`
}

type Team struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Users       []User `yaml:"users"`
}

type User struct {
	Name       string     `yaml:"name"`
	Email      string     `yaml:"email"`
	Activities []Activity `yaml:"activities"`
}

type Activity struct {
	Type     string `yaml:"type"`
	Duration int    `yaml:"duration"`
	Calories int    `yaml:"calories"`
	Date     string `yaml:"date"`
}

type Workout struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Difficulty  string `yaml:"difficulty"`
}

// Standing is a leaderboard row; Team names a team in the same dataset.
type Standing struct {
	Team   string `yaml:"team"`
	Points int    `yaml:"points"`
	Rank   int    `yaml:"rank"`
}

// Demo returns the embedded demo dataset.
func Demo() (Dataset, error) {
	return Parse(demoYAML)
}

// Parse decodes a dataset, rejecting unknown keys, and checks that dates
// parse and leaderboard rows name a team in the dataset.
func Parse(b []byte) (Dataset, error) {
	var d Dataset
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("seed: decode: %w", err)
	}

	teams := map[string]bool{}
	for _, t := range d.Teams {
		teams[t.Name] = true
		for _, u := range t.Users {
			for _, a := range u.Activities {
				if _, ok := inputval.ParseDate(a.Date); !ok {
					return Dataset{}, fmt.Errorf("seed: %s: bad activity date %q", u.Email, a.Date)
				}
			}
		}
	}
	for _, s := range d.Leaderboard {
		if !teams[s.Team] {
			return Dataset{}, fmt.Errorf("seed: leaderboard row names unknown team %q", s.Team)
		}
	}
	return d, nil
}

// Options controls a seeding run.
type Options struct {
	// Reset deletes every existing record first, through the store's
	// cascading deletes.
	Reset bool
}

// Counts reports how many records a run created.
type Counts struct {
	Teams, Users, Activities, Workouts, Leaderboard int
}

// Run loads d into store. It stops at the first failed write; records
// created before it remain.
func Run(ctx context.Context, store *entities.Store, d Dataset, opts Options, logger *zap.Logger) (Counts, error) {
	if opts.Reset {
		if err := reset(ctx, store); err != nil {
			return Counts{}, fmt.Errorf("seed: reset: %w", err)
		}
	}

	var n Counts
	teamIDs := map[string]primitive.ObjectID{}
	for _, t := range d.Teams {
		team, err := store.Teams.Create(ctx, models.Team{Name: t.Name, Description: t.Description})
		if err != nil {
			return n, fmt.Errorf("seed: team %q: %w", t.Name, err)
		}
		n.Teams++
		teamIDs[t.Name] = team.ID

		for _, u := range t.Users {
			user, err := store.Users.Create(ctx, models.User{Name: u.Name, Email: u.Email, TeamID: team.ID})
			if err != nil {
				return n, fmt.Errorf("seed: user %q: %w", u.Email, err)
			}
			n.Users++

			for _, a := range u.Activities {
				date, _ := inputval.ParseDate(a.Date)
				_, err := store.Activities.Create(ctx, models.Activity{
					UserID:   user.ID,
					Type:     a.Type,
					Duration: a.Duration,
					Calories: a.Calories,
					Date:     date,
				})
				if err != nil {
					return n, fmt.Errorf("seed: activity for %q: %w", u.Email, err)
				}
				n.Activities++
			}
		}
	}

	for _, w := range d.Workouts {
		if _, err := store.Workouts.Create(ctx, models.Workout{Name: w.Name, Description: w.Description, Difficulty: w.Difficulty}); err != nil {
			return n, fmt.Errorf("seed: workout %q: %w", w.Name, err)
		}
		n.Workouts++
	}

	for _, s := range d.Leaderboard {
		if _, err := store.Leaderboard.Create(ctx, models.LeaderboardEntry{TeamID: teamIDs[s.Team], Points: s.Points, Rank: s.Rank}); err != nil {
			return n, fmt.Errorf("seed: leaderboard %q: %w", s.Team, err)
		}
		n.Leaderboard++
	}

	logger.Info("demo data seeded",
		zap.Int("teams", n.Teams),
		zap.Int("users", n.Users),
		zap.Int("activities", n.Activities),
		zap.Int("workouts", n.Workouts),
		zap.Int("leaderboard", n.Leaderboard))
	return n, nil
}

// reset removes teams first so their cascades do most of the work, then
// whatever is left in the dependent collections.
func reset(ctx context.Context, store *entities.Store) error {
	teams, err := store.Teams.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range teams {
		if err := ignoreNotFound(store.Teams.Delete(ctx, t.ID)); err != nil {
			return err
		}
	}

	users, err := store.Users.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := ignoreNotFound(store.Users.Delete(ctx, u.ID)); err != nil {
			return err
		}
	}

	acts, err := store.Activities.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, a := range acts {
		if err := ignoreNotFound(store.Activities.Delete(ctx, a.ID)); err != nil {
			return err
		}
	}

	rows, err := store.Leaderboard.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := ignoreNotFound(store.Leaderboard.Delete(ctx, r.ID)); err != nil {
			return err
		}
	}

	workouts, err := store.Workouts.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, w := range workouts {
		if err := ignoreNotFound(store.Workouts.Delete(ctx, w.ID)); err != nil {
			return err
		}
	}
	return nil
}

// ignoreNotFound tolerates records removed concurrently or by a cascade.
func ignoreNotFound(err error) error {
	if errors.Is(err, apierr.ErrNotFound) {
		return nil
	}
	return err
}
