package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/worklog/internal/config"
	"github.com/geocoder89/worklog/internal/domain/exercise"
	"github.com/geocoder89/worklog/internal/domain/workout"
	"github.com/geocoder89/worklog/internal/http/middlewares"
	"github.com/geocoder89/worklog/internal/utils"
	"github.com/gin-gonic/gin"
)

const storeTimeout = 2 * time.Second

type WorkoutsStore interface {
	List(ctx context.Context, userID string) ([]workout.Workout, error)
	Create(ctx context.Context, userID string, req workout.CreateRequest) (workout.Workout, error)
	GetByID(ctx context.Context, userID, id string) (workout.Workout, error)
	Update(ctx context.Context, userID, id string, req workout.UpdateRequest) (workout.Workout, error)
	ReplaceExercises(ctx context.Context, userID, id string, exercises []exercise.Entry) (workout.Workout, error)
	Delete(ctx context.Context, userID, id string) error
}

type WorkoutsHandler struct {
	repo WorkoutsStore
}

func NewWorkoutsHandler(repo WorkoutsStore) *WorkoutsHandler {
	return &WorkoutsHandler{repo: repo}
}

func (h *WorkoutsHandler) ListWorkouts(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	items, err := h.repo.List(cctx, userID)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	respondVersioned(ctx, "workouts:"+userID, items)
}

func (h *WorkoutsHandler) CreateWorkout(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req workout.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	w, err := h.repo.Create(cctx, userID, req)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, w)
}

func (h *WorkoutsHandler) GetWorkoutByID(ctx *gin.Context) {
	userID, id, ok := workoutTarget(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	w, err := h.repo.GetByID(cctx, userID, id)
	if err != nil {
		respondWorkoutErr(ctx, err)
		return
	}

	respondVersioned(ctx, "workout:"+w.ID, w)
}

func (h *WorkoutsHandler) UpdateWorkout(ctx *gin.Context) {
	userID, id, ok := workoutTarget(ctx)
	if !ok {
		return
	}

	var req workout.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	w, err := h.repo.Update(cctx, userID, id, req)
	if err != nil {
		respondWorkoutErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, w)
}

func (h *WorkoutsHandler) ReplaceExercises(ctx *gin.Context) {
	userID, id, ok := workoutTarget(ctx)
	if !ok {
		return
	}

	var req workout.ReplaceExercisesRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	w, err := h.repo.ReplaceExercises(cctx, userID, id, req.Exercises)
	if err != nil {
		respondWorkoutErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, w)
}

func (h *WorkoutsHandler) DeleteWorkout(ctx *gin.Context) {
	userID, id, ok := workoutTarget(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.repo.Delete(cctx, userID, id); err != nil {
		respondWorkoutErr(ctx, err)
		return
	}

	RespondSuccess(ctx)
}

func workoutTarget(ctx *gin.Context) (string, string, bool) {
	userID, ok := currentUser(ctx)
	if !ok {
		return "", "", false
	}

	id := ctx.Param("id")
	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "Invalid workout ID", nil)
		return "", "", false
	}
	return userID, id, true
}

func respondWorkoutErr(ctx *gin.Context, err error) {
	if errors.Is(err, workout.ErrNotFound) {
		RespondNotFound(ctx, "Workout not found")
		return
	}
	RespondInternal(ctx, err)
}

// currentUser reads the id set by RequireAuth. Reaching a handler without
// one means the route was mounted outside the auth group.
func currentUser(ctx *gin.Context) (string, bool) {
	userID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Unauthorized")
		return "", false
	}
	return userID, true
}
