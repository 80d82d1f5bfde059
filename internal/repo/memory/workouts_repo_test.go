package memory

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/geocoder89/worklog/internal/domain/workout"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestWorkoutsCreateThenGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()
	r.now = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }

	created, err := r.Create(ctx, "alice", workout.CreateRequest{
		Name:      "Leg Day",
		Exercises: []exercise.Entry{{Name: "Squat", Sets: 3, Reps: 8, Weight: "135"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "2026-05-01", created.Date)

	got, err := r.GetByID(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "alice", got.UserID)
	assert.Equal(t, []exercise.Entry{{Name: "Squat", Sets: 3, Reps: 8, Weight: "135"}}, got.Exercises)
}

func TestWorkoutsAreInvisibleToOtherUsers(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, "alice", workout.CreateRequest{Name: "Push"})
	require.NoError(t, err)
	missing := uuid.NewString()

	_, errOther := r.GetByID(ctx, "bob", w.ID)
	_, errMissing := r.GetByID(ctx, "bob", missing)
	assert.ErrorIs(t, errOther, workout.ErrNotFound)
	assert.Equal(t, errMissing, errOther, "not owned must look like absent")

	_, err = r.Update(ctx, "bob", w.ID, workout.UpdateRequest{Name: strPtr("hijack")})
	assert.ErrorIs(t, err, workout.ErrNotFound)

	_, err = r.ReplaceExercises(ctx, "bob", w.ID, []exercise.Entry{{Name: "x"}})
	assert.ErrorIs(t, err, workout.ErrNotFound)

	assert.ErrorIs(t, r.Delete(ctx, "bob", w.ID), workout.ErrNotFound)

	list, err := r.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	still, err := r.GetByID(ctx, "alice", w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Push", still.Name)
	assert.Empty(t, still.Exercises)
}

func TestWorkoutsMalformedIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	_, err := r.GetByID(ctx, "alice", "nope")
	assert.ErrorIs(t, err, workout.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "alice", "nope"), workout.ErrNotFound)
}

func TestWorkoutsPartialUpdate(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, "alice", workout.CreateRequest{
		Name:      "Old",
		Date:      "2025-12-24",
		Exercises: []exercise.Entry{{Name: "Bench", Sets: 5, Reps: 5}},
	})
	require.NoError(t, err)

	updated, err := r.Update(ctx, "alice", w.ID, workout.UpdateRequest{Name: strPtr("X")})
	require.NoError(t, err)
	assert.Equal(t, "X", updated.Name)
	assert.Equal(t, "2025-12-24", updated.Date)
	assert.Equal(t, w.Exercises, updated.Exercises)
	assert.Equal(t, w.CreatedAt, updated.CreatedAt)

	got, err := r.GetByID(ctx, "alice", w.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestWorkoutsReplaceExercisesPreservesOrder(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, "alice", workout.CreateRequest{Name: "Pull"})
	require.NoError(t, err)

	order := []exercise.Entry{
		{Name: "e1", Sets: 1},
		{Name: "e2", Sets: 2},
		{Name: "e3", Sets: 3},
	}
	_, err = r.ReplaceExercises(ctx, "alice", w.ID, order)
	require.NoError(t, err)

	got, err := r.GetByID(ctx, "alice", w.ID)
	require.NoError(t, err)
	assert.Equal(t, order, got.Exercises)
	assert.Equal(t, "Pull", got.Name)
}

func TestWorkoutsReturnedSlicesAreCopies(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, "alice", workout.CreateRequest{Name: "A", Exercises: []exercise.Entry{{Name: "a"}}})
	require.NoError(t, err)

	w.Exercises[0].Name = "mutated"

	got, err := r.GetByID(ctx, "alice", w.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Exercises[0].Name)
}

func TestWorkoutsDeleteIsNotFoundTheSecondTime(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	w, err := r.Create(ctx, "alice", workout.CreateRequest{Name: "A"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "alice", w.ID))
	assert.ErrorIs(t, r.Delete(ctx, "alice", w.ID), workout.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "alice", uuid.NewString()), workout.ErrNotFound)

	_, err = r.GetByID(ctx, "alice", w.ID)
	assert.ErrorIs(t, err, workout.ErrNotFound)
}

func TestWorkoutsListSortedByDateDesc(t *testing.T) {
	ctx := context.Background()
	r := NewWorkoutsRepo()

	for _, d := range []string{"2026-01-02", "2026-03-01", "2025-12-31"} {
		_, err := r.Create(ctx, "alice", workout.CreateRequest{Name: d, Date: d})
		require.NoError(t, err)
	}
	_, err := r.Create(ctx, "bob", workout.CreateRequest{Name: "bob", Date: "2030-01-01"})
	require.NoError(t, err)

	list, err := r.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2026-03-01", list[0].Date)
	assert.Equal(t, "2026-01-02", list[1].Date)
	assert.Equal(t, "2025-12-31", list[2].Date)
}
