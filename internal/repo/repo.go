// Package repo holds the storage contracts shared by every backend.
//
// Every workout and template method takes the caller's user id as its first
// argument after the context and filters on it. A record owned by someone
// else is reported exactly like a missing one (the domain ErrNotFound), and
// so is an id that is not a well-formed UUID.
package repo

import (
	"context"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/geocoder89/worklog/internal/domain/template"
	"github.com/geocoder89/worklog/internal/domain/user"
	"github.com/geocoder89/worklog/internal/domain/workout"
)

type Users interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type Workouts interface {
	List(ctx context.Context, userID string) ([]workout.Workout, error)
	Create(ctx context.Context, userID string, req workout.CreateRequest) (workout.Workout, error)
	GetByID(ctx context.Context, userID, id string) (workout.Workout, error)
	Update(ctx context.Context, userID, id string, req workout.UpdateRequest) (workout.Workout, error)
	ReplaceExercises(ctx context.Context, userID, id string, exercises []exercise.Entry) (workout.Workout, error)
	Delete(ctx context.Context, userID, id string) error
}

type Templates interface {
	List(ctx context.Context, userID string) ([]template.Template, error)
	Create(ctx context.Context, userID string, req template.CreateRequest) (template.Template, error)
	GetByID(ctx context.Context, userID, id string) (template.Template, error)
	Update(ctx context.Context, userID, id string, req template.UpdateRequest) (template.Template, error)
	Delete(ctx context.Context, userID, id string) error
}
