package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/worklog/internal/config"
	"github.com/geocoder89/worklog/internal/domain/user"
	"github.com/geocoder89/worklog/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type authFailureCounter interface {
	IncAuthFailure(source string)
}

type AuthHandler struct {
	users   UserStore
	hasher  PasswordHasher
	jwt     TokenIssuer
	metrics authFailureCounter
}

func NewAuthHandler(users UserStore, hasher PasswordHasher, jwtManager TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users:  users,
		hasher: hasher,
		jwt:    jwtManager,
	}
}

func (h *AuthHandler) WithMetrics(metrics authFailureCounter) *AuthHandler {
	h.metrics = metrics
	return h
}

type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

const credentialsRequired = "Email and password required"

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.Credentials

	if !BindJSONWithMessage(ctx, &req, credentialsRequired) {
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	u, err := h.users.Create(cctx, req.Email, hash)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.countFailure("register")
			RespondBadRequest(ctx, "User already exists", nil)
			return
		}

		RespondInternal(ctx, err)
		return
	}

	h.respondToken(ctx, http.StatusCreated, u.ID)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.Credentials

	if !BindJSONWithMessage(ctx, &req, credentialsRequired) {
		return
	}

	// short timeout for the lookup
	cctx, cancel := config.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	found, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			h.invalidCredentials(ctx)
			return
		}
		RespondInternal(ctx, err)
		return
	}

	if err := h.hasher.Verify(found.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, security.ErrPasswordMismatch) {
			// a corrupt stored hash is our problem, but the caller still just
			// failed to log in
			slog.Default().ErrorContext(ctx.Request.Context(), "password_verify_failed", "err", err, "user_id", found.ID)
		}
		h.invalidCredentials(ctx)
		return
	}

	h.respondToken(ctx, http.StatusOK, found.ID)
}

func (h *AuthHandler) respondToken(ctx *gin.Context, status int, userID string) {
	token, err := h.jwt.Issue(userID)
	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(status, TokenResponse{Token: token, UserID: userID})
}

func (h *AuthHandler) invalidCredentials(ctx *gin.Context) {
	h.countFailure("login")
	RespondUnAuthorized(ctx, "invalid_credentials", "Invalid credentials")
}

func (h *AuthHandler) countFailure(source string) {
	if h.metrics != nil {
		h.metrics.IncAuthFailure(source)
	}
}
