package mongodb

import (
	"context"
	"errors"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/geocoder89/worklog/internal/domain/workout"
	"github.com/geocoder89/worklog/internal/observability"
	"github.com/geocoder89/worklog/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type WorkoutsRepo struct {
	coll *mongo.Collection
	observer
}

func NewWorkoutsRepo(db *mongo.Database, prom *observability.Prom) *WorkoutsRepo {
	return &WorkoutsRepo{coll: db.Collection(workoutsCollection), observer: observer{prom: prom}}
}

func (r *WorkoutsRepo) List(ctx context.Context, userID string) ([]workout.Workout, error) {
	out := make([]workout.Workout, 0)

	err := r.observe("workouts.list", func() error {
		cur, err := r.coll.Find(ctx,
			bson.M{"owner_id": userID},
			options.Find().SetSort(bson.D{
				{Key: "date", Value: -1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			}),
		)
		if err != nil {
			return err
		}
		return cur.All(ctx, &out)
	})

	if err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Exercises = exercise.Normalize(out[i].Exercises)
	}
	return out, nil
}

func (r *WorkoutsRepo) Create(ctx context.Context, userID string, req workout.CreateRequest) (workout.Workout, error) {
	w := workout.NewFromCreateRequest(userID, req, nowUTC())

	err := r.observe("workouts.create", func() error {
		_, err := r.coll.InsertOne(ctx, w)
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
		return r.coll.FindOne(ctx, ownedFilter(userID, id)).Decode(&w)
	})

	return finishWorkout(w, err)
}

func (r *WorkoutsRepo) Update(ctx context.Context, userID, id string, req workout.UpdateRequest) (workout.Workout, error) {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Date != nil {
		set["date"] = *req.Date
	}
	if req.Exercises != nil {
		set["exercises"] = exercise.Normalize(*req.Exercises)
	}

	// $set with an empty document is rejected by the server
	if len(set) == 0 {
		return r.GetByID(ctx, userID, id)
	}

	return r.findAndSet(ctx, "workouts.update", userID, id, set)
}

func (r *WorkoutsRepo) ReplaceExercises(ctx context.Context, userID, id string, exercises []exercise.Entry) (workout.Workout, error) {
	return r.findAndSet(ctx, "workouts.replace_exercises", userID, id, bson.M{
		"exercises": exercise.Normalize(exercises),
	})
}

func (r *WorkoutsRepo) Delete(ctx context.Context, userID, id string) error {
	if !utils.IsUUID(id) {
		return workout.ErrNotFound
	}

	var deleted int64
	err := r.observe("workouts.delete", func() error {
		res, err := r.coll.DeleteOne(ctx, ownedFilter(userID, id))
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})

	if err != nil {
		return err
	}
	if deleted == 0 {
		return workout.ErrNotFound
	}
	return nil
}

func (r *WorkoutsRepo) findAndSet(ctx context.Context, op, userID, id string, set bson.M) (workout.Workout, error) {
	if !utils.IsUUID(id) {
		return workout.Workout{}, workout.ErrNotFound
	}

	var w workout.Workout
	err := r.observe(op, func() error {
		return r.coll.FindOneAndUpdate(ctx,
			ownedFilter(userID, id),
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&w)
	})

	return finishWorkout(w, err)
}

func finishWorkout(w workout.Workout, err error) (workout.Workout, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return workout.Workout{}, workout.ErrNotFound
		}
		return workout.Workout{}, err
	}
	w.Exercises = exercise.Normalize(w.Exercises)
	return w, nil
}
