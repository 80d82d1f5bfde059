package workout

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromCreateRequestDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("x", -5*3600))

	w := NewFromCreateRequest("user-1", CreateRequest{Name: "Leg Day"}, now)

	assert.NotEmpty(t, w.ID)
	assert.Equal(t, "user-1", w.UserID)
	assert.Equal(t, "2026-03-15", w.Date, "date defaults to the UTC day")
	assert.NotNil(t, w.Exercises)
	assert.Empty(t, w.Exercises)
	assert.Equal(t, now.UTC(), w.CreatedAt)
}

func TestNewFromCreateRequestKeepsSuppliedFields(t *testing.T) {
	ex := []exercise.Entry{{Name: "B"}, {Name: "A"}}

	w := NewFromCreateRequest("u", CreateRequest{Name: "Push", Date: "2025-01-02", Exercises: ex}, time.Now())

	assert.Equal(t, "2025-01-02", w.Date)
	assert.Equal(t, ex, w.Exercises)
}

func TestApplyOnlyTouchesPresentFields(t *testing.T) {
	orig := Workout{
		ID:        "id",
		UserID:    "u",
		Name:      "Old",
		Date:      "2025-01-01",
		Exercises: []exercise.Entry{{Name: "Squat", Sets: 3}},
	}

	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"X"}`), &req))

	got := Apply(orig, req)

	assert.Equal(t, "X", got.Name)
	assert.Equal(t, orig.Date, got.Date)
	assert.Equal(t, orig.Exercises, got.Exercises)
	assert.False(t, req.IsEmpty())
}

func TestApplyCanClearExercises(t *testing.T) {
	orig := Workout{Exercises: []exercise.Entry{{Name: "Squat"}}}

	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"exercises":[]}`), &req))

	got := Apply(orig, req)
	assert.NotNil(t, got.Exercises)
	assert.Empty(t, got.Exercises)
}

func TestUpdateRequestIsEmpty(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.True(t, req.IsEmpty())
}
