package workout

import (
	"time"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/google/uuid"
)

func NewFromCreateRequest(userID string, req CreateRequest, now time.Time) Workout {
	date := req.Date
	if date == "" {
		date = now.UTC().Format(DateLayout)
	}

	return Workout{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Date:      date,
		Exercises: exercise.Normalize(req.Exercises),
		CreatedAt: now.UTC(),
	}
}

// Apply merges the present fields of req into w.
func Apply(w Workout, req UpdateRequest) Workout {
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.Date != nil {
		w.Date = *req.Date
	}
	if req.Exercises != nil {
		w.Exercises = exercise.Normalize(*req.Exercises)
	}
	return w
}
