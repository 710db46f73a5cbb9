package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/sparkmeet-backend/internal/httputil"
	"github.com/sparkmeet/sparkmeet-backend/internal/logging"
)

// Store is the subset of Repository the profile handlers use.
type Store interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*Account, error)
}

// Handler contains the plain CRUD profile endpoints. None of these perform a
// session state transition; they sit behind the auth middleware.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// PublicProfile is the trimmed projection returned by GetUserByID.
type PublicProfile struct {
	ID         string   `json:"id"`
	Avatar     string   `json:"avatar"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	BirthDate  any      `json:"birthDate"`
	About      string   `json:"about"`
	Occupation string   `json:"occupation"`
	Hobbies    []string `json:"hobbies"`
}

// UpdateAboutRequest carries a standalone about-text update.
type UpdateAboutRequest struct {
	UserID       string `json:"userId"`
	AboutContent string `json:"aboutContent"`
}

// FetchProfile returns the full profile for an account
// @Summary      Fetch a profile
// @Tags         profile
// @Produce      json
// @Param        userId path string true "Account ID"
// @Security     BearerAuth
// @Success      200 {object} Account
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Router       /auth/fetchProfile/{userId} [get]
func (h *Handler) FetchProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	account, err := h.store.GetByID(r.Context(), userID)
	if err != nil {
		respondStoreError(w, logger, "fetch profile", err)
		return
	}

	httputil.RespondJSON(w, account, http.StatusOK)
}

// GetUserByID returns the public projection of an account
// @Summary      Get a user's public profile
// @Tags         profile
// @Produce      json
// @Param        userId path string true "Account ID"
// @Security     BearerAuth
// @Success      200 {object} PublicProfile
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Router       /auth/getUserById/{userId} [get]
func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	account, err := h.store.GetByID(r.Context(), userID)
	if err != nil {
		respondStoreError(w, logger, "get user by id", err)
		return
	}

	httputil.RespondJSON(w, publicProfile(account), http.StatusOK)
}

// UpdateAbout replaces the about text
// @Summary      Update the about text
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body UpdateAboutRequest true "Account id and about text"
// @Security     BearerAuth
// @Success      200 {object} PublicProfile
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Router       /auth/updateAbout [post]
func (h *Handler) UpdateAbout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req UpdateAboutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid update about request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	account, err := h.store.UpdateFields(r.Context(), req.UserID, map[string]any{
		"about": req.AboutContent,
	})
	if err != nil {
		respondStoreError(w, logger, "update about", err)
		return
	}

	httputil.RespondJSON(w, publicProfile(account), http.StatusOK)
}

// UpdateProfile applies a partial field update
// @Summary      Update profile fields
// @Description  Set any subset of the editable profile fields. A field sent explicitly empty overwrites; omitted fields are untouched.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        id      path string         true "Account ID"
// @Param        request body map[string]any true "Fields to set"
// @Security     BearerAuth
// @Success      200 {object} Account
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Router       /auth/users/{id} [put]
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID := chi.URLParam(r, "id")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		logger.Warn("invalid update profile request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	account, err := h.store.UpdateFields(r.Context(), userID, fields)
	if err != nil {
		respondStoreError(w, logger, "update profile", err)
		return
	}

	logger.Info("profile fields updated", "user_id", userID)

	httputil.RespondJSON(w, account, http.StatusOK)
}

func publicProfile(a *Account) PublicProfile {
	return PublicProfile{
		ID:         a.ID,
		Avatar:     a.Avatar,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Email:      a.Email,
		BirthDate:  a.BirthDate,
		About:      a.About,
		Occupation: a.Occupation,
		Hobbies:    a.Hobbies,
	}
}

func respondStoreError(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		logger.Warn(op + " failed: account not found")
		httputil.RespondErrorWithCode(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
	case errors.Is(err, ErrStoreUnavailable):
		logger.Error(op+" failed: store unavailable", "error", err.Error())
		httputil.RespondErrorWithCode(w, "service temporarily unavailable", httputil.CodeStoreUnavailable, http.StatusServiceUnavailable)
	default:
		logger.Error(op+" failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
