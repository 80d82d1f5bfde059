package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/geocoder89/worklog/internal/config"
	"github.com/geocoder89/worklog/internal/domain/template"
	"github.com/geocoder89/worklog/internal/utils"
	"github.com/gin-gonic/gin"
)

type TemplatesStore interface {
	List(ctx context.Context, userID string) ([]template.Template, error)
	Create(ctx context.Context, userID string, req template.CreateRequest) (template.Template, error)
	GetByID(ctx context.Context, userID, id string) (template.Template, error)
	Update(ctx context.Context, userID, id string, req template.UpdateRequest) (template.Template, error)
	Delete(ctx context.Context, userID, id string) error
}

type TemplatesHandler struct {
	repo TemplatesStore
}

func NewTemplatesHandler(repo TemplatesStore) *TemplatesHandler {
	return &TemplatesHandler{repo: repo}
}

func (h *TemplatesHandler) ListTemplates(ctx *gin.Context) {
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

	respondVersioned(ctx, "templates:"+userID, items)
}

func (h *TemplatesHandler) CreateTemplate(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req template.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	t, err := h.repo.Create(cctx, userID, req)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, t)
}

func (h *TemplatesHandler) GetTemplateByID(ctx *gin.Context) {
	userID, id, ok := templateTarget(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	t, err := h.repo.GetByID(cctx, userID, id)
	if err != nil {
		respondTemplateErr(ctx, err)
		return
	}

	respondVersioned(ctx, "template:"+t.ID, t)
}

func (h *TemplatesHandler) UpdateTemplate(ctx *gin.Context) {
	userID, id, ok := templateTarget(ctx)
	if !ok {
		return
	}

	var req template.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	t, err := h.repo.Update(cctx, userID, id, req)
	if err != nil {
		respondTemplateErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *TemplatesHandler) DeleteTemplate(ctx *gin.Context) {
	userID, id, ok := templateTarget(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.repo.Delete(cctx, userID, id); err != nil {
		respondTemplateErr(ctx, err)
		return
	}

	RespondSuccess(ctx)
}

func templateTarget(ctx *gin.Context) (string, string, bool) {
	userID, ok := currentUser(ctx)
	if !ok {
		return "", "", false
	}

	id := ctx.Param("id")
	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "Invalid template ID", nil)
		return "", "", false
	}
	return userID, id, true
}

func respondTemplateErr(ctx *gin.Context, err error) {
	if errors.Is(err, template.ErrNotFound) {
		RespondNotFound(ctx, "Template not found")
		return
	}
	RespondInternal(ctx, err)
}
