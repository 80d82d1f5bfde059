package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/geocoder89/worklog/internal/domain/workout"
	"github.com/geocoder89/worklog/internal/utils"
)

type storedWorkout struct {
	w   workout.Workout
	seq uint64
}

type WorkoutsRepo struct {
	mu    sync.RWMutex
	items map[string]storedWorkout
	seq   uint64
	now   func() time.Time
}

func NewWorkoutsRepo() *WorkoutsRepo {
	return &WorkoutsRepo{
		items: make(map[string]storedWorkout),
		now:   time.Now,
	}
}

func (r *WorkoutsRepo) List(_ context.Context, userID string) ([]workout.Workout, error) {
	r.mu.RLock()
	owned := make([]storedWorkout, 0)
	for _, s := range r.items {
		if s.w.UserID == userID {
			owned = append(owned, s)
		}
	}
	r.mu.RUnlock()

	// date desc, newest insert first within a day
	sort.Slice(owned, func(i, j int) bool {
		if owned[i].w.Date != owned[j].w.Date {
			return owned[i].w.Date > owned[j].w.Date
		}
		return owned[i].seq > owned[j].seq
	})

	out := make([]workout.Workout, 0, len(owned))
	for _, s := range owned {
		out = append(out, cloneWorkout(s.w))
	}
	return out, nil
}

func (r *WorkoutsRepo) Create(_ context.Context, userID string, req workout.CreateRequest) (workout.Workout, error) {
	w := workout.NewFromCreateRequest(userID, req, r.now())

	r.mu.Lock()
	r.seq++
	r.items[w.ID] = storedWorkout{w: w, seq: r.seq}
	r.mu.Unlock()

	return cloneWorkout(w), nil
}

func (r *WorkoutsRepo) GetByID(_ context.Context, userID, id string) (workout.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.owned(userID, id)
	if !ok {
		return workout.Workout{}, workout.ErrNotFound
	}
	return cloneWorkout(s.w), nil
}

func (r *WorkoutsRepo) Update(_ context.Context, userID, id string, req workout.UpdateRequest) (workout.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.owned(userID, id)
	if !ok {
		return workout.Workout{}, workout.ErrNotFound
	}

	s.w = workout.Apply(s.w, req)
	r.items[id] = s

	return cloneWorkout(s.w), nil
}

func (r *WorkoutsRepo) ReplaceExercises(_ context.Context, userID, id string, exercises []exercise.Entry) (workout.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.owned(userID, id)
	if !ok {
		return workout.Workout{}, workout.ErrNotFound
	}

	s.w.Exercises = exercise.Normalize(exercises)
	r.items[id] = s

	return cloneWorkout(s.w), nil
}

func (r *WorkoutsRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.owned(userID, id); !ok {
		return workout.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// caller holds the lock
func (r *WorkoutsRepo) owned(userID, id string) (storedWorkout, bool) {
	if !utils.IsUUID(id) {
		return storedWorkout{}, false
	}
	s, ok := r.items[id]
	if !ok || s.w.UserID != userID {
		return storedWorkout{}, false
	}
	return s, true
}

func cloneWorkout(w workout.Workout) workout.Workout {
	w.Exercises = exercise.Normalize(w.Exercises)
	return w
}
