package workout

import (
	"errors"
	"time"

	"github.com/geocoder89/worklog/internal/domain/exercise"
)

// DateLayout is the calendar-date format used when the client omits a date.
const DateLayout = "2006-01-02"

var ErrNotFound = errors.New("workout not found")

type Workout struct {
	ID        string           `json:"id" bson:"_id"`
	UserID    string           `json:"userId" bson:"owner_id"`
	Name      string           `json:"name" bson:"name"`
	Date      string           `json:"date" bson:"date"`
	Exercises []exercise.Entry `json:"exercises" bson:"exercises"`
	CreatedAt time.Time        `json:"createdAt" bson:"created_at"`
}

type CreateRequest struct {
	Name      string           `json:"name" binding:"required"`
	Date      string           `json:"date"`
	Exercises []exercise.Entry `json:"exercises"`
}

// UpdateRequest is a merge: nil fields are left untouched.
type UpdateRequest struct {
	Name      *string           `json:"name"`
	Date      *string           `json:"date"`
	Exercises *[]exercise.Entry `json:"exercises"`
}

func (r UpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Date == nil && r.Exercises == nil
}

type ReplaceExercisesRequest struct {
	Exercises []exercise.Entry `json:"exercises" binding:"required"`
}
