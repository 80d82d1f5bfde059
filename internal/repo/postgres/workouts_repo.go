package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/geocoder89/worklog/internal/domain/workout"
	"github.com/geocoder89/worklog/internal/observability"
	"github.com/geocoder89/worklog/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workoutColumns = `id, owner_id, name, date, exercises, created_at`

type WorkoutsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewWorkoutsRepo(pool *pgxpool.Pool, prom *observability.Prom) *WorkoutsRepo {
	return &WorkoutsRepo{pool: pool, prom: prom}
}

func (r *WorkoutsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *WorkoutsRepo) List(ctx context.Context, userID string) ([]workout.Workout, error) {
	out := make([]workout.Workout, 0)

	err := r.observe("workouts.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+workoutColumns+`
			 FROM workouts
			 WHERE owner_id = $1
			 ORDER BY date DESC, created_at DESC, id DESC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			w, err := scanWorkout(rows)
			if err != nil {
				return err
			}
			out = append(out, w)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WorkoutsRepo) Create(ctx context.Context, userID string, req workout.CreateRequest) (workout.Workout, error) {
	w := workout.NewFromCreateRequest(userID, req, nowUTC())

	raw, err := json.Marshal(w.Exercises)
	if err != nil {
		return workout.Workout{}, err
	}

	err = r.observe("workouts.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO workouts (id, owner_id, name, date, exercises, created_at)
			 VALUES ($1, $2, $3, $4, $5::jsonb, $6)`,
			w.ID, w.UserID, w.Name, w.Date, string(raw), w.CreatedAt,
		)
		return err
	})

	if err != nil {
		return workout.Workout{}, err
	}
	return w, nil
}

func (r *WorkoutsRepo) GetByID(ctx context.Context, userID, id string) (workout.Workout, error) {
	if !utils.IsUUID(id) {
		return workout.Workout{}, workout.ErrNotFound
	}

	var w workout.Workout
	err := r.observe("workouts.get", func() error {
		var err error
		w, err = scanWorkout(r.pool.QueryRow(ctx,
			`SELECT `+workoutColumns+` FROM workouts WHERE id = $1 AND owner_id = $2`,
			id, userID,
		))
		return err
	})

	return w, translateWorkoutErr(err)
}

// Update merges present fields in a single statement; NULL parameters keep
// the stored column.
func (r *WorkoutsRepo) Update(ctx context.Context, userID, id string, req workout.UpdateRequest) (workout.Workout, error) {
	if !utils.IsUUID(id) {
		return workout.Workout{}, workout.ErrNotFound
	}

	var exercisesArg any
	if req.Exercises != nil {
		raw, err := json.Marshal(exercise.Normalize(*req.Exercises))
		if err != nil {
			return workout.Workout{}, err
		}
		exercisesArg = string(raw)
	}

	var w workout.Workout
	err := r.observe("workouts.update", func() error {
		var err error
		w, err = scanWorkout(r.pool.QueryRow(ctx,
			`UPDATE workouts
			 SET name = COALESCE($3, name),
			     date = COALESCE($4, date),
			     exercises = COALESCE($5::jsonb, exercises)
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+workoutColumns,
			id, userID, req.Name, req.Date, exercisesArg,
		))
		return err
	})

	return w, translateWorkoutErr(err)
}

func (r *WorkoutsRepo) ReplaceExercises(ctx context.Context, userID, id string, exercises []exercise.Entry) (workout.Workout, error) {
	if !utils.IsUUID(id) {
		return workout.Workout{}, workout.ErrNotFound
	}

	raw, err := json.Marshal(exercise.Normalize(exercises))
	if err != nil {
		return workout.Workout{}, err
	}

	var w workout.Workout
	err = r.observe("workouts.replace_exercises", func() error {
		var err error
		w, err = scanWorkout(r.pool.QueryRow(ctx,
			`UPDATE workouts
			 SET exercises = $3::jsonb
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+workoutColumns,
			id, userID, string(raw),
		))
		return err
	})

	return w, translateWorkoutErr(err)
}

func (r *WorkoutsRepo) Delete(ctx context.Context, userID, id string) error {
	if !utils.IsUUID(id) {
		return workout.ErrNotFound
	}

	var affected int64
	err := r.observe("workouts.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1 AND owner_id = $2`, id, userID)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return err
	}

	// nothing deleted: absent or someone else's
	if affected == 0 {
		return workout.ErrNotFound
	}
	return nil
}

func scanWorkout(row pgx.Row) (workout.Workout, error) {
	var w workout.Workout
	var raw []byte

	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Date, &raw, &w.CreatedAt)
	if err != nil {
		return workout.Workout{}, err
	}

	w.Exercises, err = decodeExercises(raw)
	if err != nil {
		return workout.Workout{}, err
	}
	return w, nil
}

func translateWorkoutErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return workout.ErrNotFound
	}
	return err
}
