package template

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("template not found")

// Template is a reusable, ordered list of exercise names. Clients
// conventionally send the name uppercased; it is stored as given.
type Template struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"owner_id"`
	Name      string    `json:"name" bson:"name"`
	Exercises []string  `json:"exercises" bson:"exercises"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

type CreateRequest struct {
	Name      string   `json:"name" binding:"required"`
	Exercises []string `json:"exercises"`
}

type UpdateRequest struct {
	Name      *string   `json:"name"`
	Exercises *[]string `json:"exercises"`
}

func (r UpdateRequest) IsEmpty() bool {
	return r.Name == nil && r.Exercises == nil
}

func NewFromCreateRequest(userID string, req CreateRequest, now time.Time) Template {
	return Template{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Exercises: Names(req.Exercises),
		CreatedAt: now.UTC(),
	}
}

func Apply(t Template, req UpdateRequest) Template {
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Exercises != nil {
		t.Exercises = Names(*req.Exercises)
	}
	return t
}

// Names copies the exercise list, never returning nil.
func Names(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
