package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sparkmeet/sparkmeet-backend/internal/httputil"
	"github.com/sparkmeet/sparkmeet-backend/internal/logging"
	"github.com/sparkmeet/sparkmeet-backend/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Avatar         string   `json:"avatar"`
	BirthDate      string   `json:"birthDate"` // DD/MM/YYYY
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	About          string   `json:"about"`
	Occupation     string   `json:"occupation"`
	Gender         string   `json:"gender"`
	GenderInterest string   `json:"genderInterest"`
	Hobbies        []string `json:"hobbies"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GoogleAuthRequest represents the federated sign-in request body. Only the
// ID token is trusted; the rest are profile hints for a first sign-in.
type GoogleAuthRequest struct {
	IDToken   string `json:"idToken"`
	Email     string `json:"email"` // ignored: the verified claim is used
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

// CompleteProfileRequest represents the onboarding completion body.
// Pointer fields tell "absent" apart from "explicitly empty".
type CompleteProfileRequest struct {
	BirthDate      *string   `json:"birthDate"` // DD/MM/YYYY
	Gender         *string   `json:"gender"`
	GenderInterest *string   `json:"genderInterest"`
	About          *string   `json:"about"`
	Occupation     *string   `json:"occupation"`
	Hobbies        *[]string `json:"hobbies"`
}

// RefreshRequest represents the token refresh request body
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RegisterResponse represents the registration response
type RegisterResponse struct {
	ID             string     `json:"id"`
	Avatar         string     `json:"avatar"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	BirthDate      *time.Time `json:"birthDate"`
	About          string     `json:"about"`
	Occupation     string     `json:"occupation"`
	Gender         string     `json:"gender"`
	GenderInterest string     `json:"genderInterest"`
	Hobbies        []string   `json:"hobbies"`
	Token          string     `json:"token"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	ID           string     `json:"id"`
	Avatar       string     `json:"avatar"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	BirthDate    *time.Time `json:"birthDate"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

// GoogleAuthResponse represents the federated sign-in response
type GoogleAuthResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Avatar          string `json:"avatar"`
	AccessToken     string `json:"accessToken"`
	RefreshToken    string `json:"refreshToken"`
	Token           string `json:"token"` // legacy alias for accessToken
	IsNewUser       bool   `json:"isNewUser"`
	NeedsCompletion bool   `json:"needsCompletion"`
}

// CompleteProfileResponse represents the onboarding completion response
type CompleteProfileResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Avatar          string     `json:"avatar"`
	BirthDate       *time.Time `json:"birthDate"`
	Gender          string     `json:"gender"`
	GenderInterest  string     `json:"genderInterest"`
	About           string     `json:"about"`
	Occupation      string     `json:"occupation"`
	Hobbies         []string   `json:"hobbies"`
	AccessToken     string     `json:"accessToken"`
	RefreshToken    string     `json:"refreshToken"`
	Token           string     `json:"token"` // legacy alias for accessToken
	IsNewUser       bool       `json:"isNewUser"`
	NeedsCompletion bool       `json:"needsCompletion"`
}

// Register handles user registration
// @Summary      Register a new account
// @Description  Create an account with email and password. Returns the profile and an access token; the first refresh token is issued at login.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration fields"
// @Success      201 {object} RegisterResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing password or invalid birth date"
// @Failure      409 {object} httputil.ErrorResponse "Email already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	account, accessToken, err := h.service.Register(r.Context(), RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Avatar:         req.Avatar,
		Email:          req.Email,
		Password:       req.Password,
		BirthDate:      req.BirthDate,
		About:          req.About,
		Occupation:     req.Occupation,
		Gender:         req.Gender,
		GenderInterest: req.GenderInterest,
		Hobbies:        req.Hobbies,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordRequired):
			logger.Warn("registration failed: password missing")
			respondError(w, "password must be provided", httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidBirthDate):
			logger.Warn("registration failed: invalid birth date")
			respondError(w, "birth date must be DD/MM/YYYY", httputil.CodeInvalidBirthDate, http.StatusBadRequest)
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("registration failed: email already exists")
			respondError(w, "email already exists", httputil.CodeEmailAlreadyExists, http.StatusConflict)
		default:
			respondInternal(w, logger, "registration", err)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", account.ID)

	respondJSON(w, RegisterResponse{
		ID:             account.ID,
		Avatar:         account.Avatar,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		Email:          account.Email,
		BirthDate:      account.BirthDate,
		About:          account.About,
		Occupation:     account.Occupation,
		Gender:         account.Gender,
		GenderInterest: account.GenderInterest,
		Hobbies:        account.Hobbies,
		Token:          accessToken,
	}, http.StatusCreated)
}

// Login handles user login
// @Summary      Log in with email and password
// @Description  Authenticate and receive a fresh access and refresh token pair. The new refresh token replaces any previously issued one.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body"
// @Failure      401 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	account, tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.Warn("login failed: invalid credentials")
			respondError(w, "invalid email or password", httputil.CodeInvalidCredentials, http.StatusUnauthorized)
			return
		}
		respondInternal(w, logger, "login", err)
		return
	}

	logger.Info("user logged in successfully", "user_id", account.ID)

	respondJSON(w, LoginResponse{
		ID:           account.ID,
		Avatar:       account.Avatar,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Email:        account.Email,
		BirthDate:    account.BirthDate,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, http.StatusOK)
}

// GoogleAuth handles federated sign-in with a Google ID token
// @Summary      Sign in with Google
// @Description  Verify a Google ID token and sign in or create the account for its verified email. New accounts need profile completion.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body GoogleAuthRequest true "ID token plus optional profile hints"
// @Success      200 {object} GoogleAuthResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing ID token"
// @Failure      401 {object} httputil.ErrorResponse "Token verification failed"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/google [post]
func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req GoogleAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid google auth request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.GoogleSignIn(r.Context(), GoogleSignInInput{
		IDToken:   req.IDToken,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrIDTokenRequired):
			logger.Warn("google auth failed: id token missing")
			respondError(w, "id token is required", httputil.CodeIDTokenRequired, http.StatusBadRequest)
		case errors.Is(err, ErrGoogleVerification):
			logger.Warn("google auth failed: token verification failed")
			respondError(w, "invalid google token", httputil.CodeGoogleAuthFailed, http.StatusUnauthorized)
		default:
			respondInternal(w, logger, "google auth", err)
		}
		return
	}

	logger.Info("google sign-in succeeded",
		"user_id", result.Account.ID,
		"is_new_user", result.IsNewUser,
		"needs_completion", result.NeedsCompletion,
	)

	respondJSON(w, GoogleAuthResponse{
		ID:              result.Account.ID,
		Email:           result.Account.Email,
		FirstName:       result.Account.FirstName,
		LastName:        result.Account.LastName,
		Avatar:          result.Account.Avatar,
		AccessToken:     result.Tokens.AccessToken,
		RefreshToken:    result.Tokens.RefreshToken,
		Token:           result.Tokens.AccessToken,
		IsNewUser:       result.IsNewUser,
		NeedsCompletion: result.NeedsCompletion,
	}, http.StatusOK)
}

// CompleteProfile handles the onboarding completion step after a federated
// sign-in created a bare account
// @Summary      Complete a Google-created profile
// @Description  Merge the provided onboarding fields into the profile and mint a fresh token pair. Omitted fields keep their stored values.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        userId  path string                 true "Account ID"
// @Param        request body CompleteProfileRequest true "Fields to merge"
// @Security     BearerAuth
// @Success      200 {object} CompleteProfileResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid birth date"
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/complete-google-profile/{userId} [put]
func (h *Handler) CompleteProfile(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	var req CompleteProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid complete profile request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	result, err := h.service.CompleteProfile(r.Context(), userID, CompleteProfileInput{
		BirthDate:      req.BirthDate,
		Gender:         req.Gender,
		GenderInterest: req.GenderInterest,
		About:          req.About,
		Occupation:     req.Occupation,
		Hobbies:        req.Hobbies,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidBirthDate):
			logger.Warn("complete profile failed: invalid birth date")
			respondError(w, "birth date must be DD/MM/YYYY", httputil.CodeInvalidBirthDate, http.StatusBadRequest)
		case errors.Is(err, user.ErrNotFound):
			logger.Warn("complete profile failed: account not found", "user_id", userID)
			respondError(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
		default:
			respondInternal(w, logger, "complete profile", err)
		}
		return
	}

	logger.Info("profile completed",
		"user_id", result.Account.ID,
		"needs_completion", result.NeedsCompletion,
	)

	respondJSON(w, CompleteProfileResponse{
		ID:              result.Account.ID,
		Email:           result.Account.Email,
		FirstName:       result.Account.FirstName,
		LastName:        result.Account.LastName,
		Avatar:          result.Account.Avatar,
		BirthDate:       result.Account.BirthDate,
		Gender:          result.Account.Gender,
		GenderInterest:  result.Account.GenderInterest,
		About:           result.Account.About,
		Occupation:      result.Account.Occupation,
		Hobbies:         result.Account.Hobbies,
		AccessToken:     result.Tokens.AccessToken,
		RefreshToken:    result.Tokens.RefreshToken,
		Token:           result.Tokens.AccessToken,
		IsNewUser:       false,
		NeedsCompletion: result.NeedsCompletion,
	}, http.StatusOK)
}

// Refresh handles access token refresh
// @Summary      Refresh the access token
// @Description  Exchange the current refresh token for a new token pair. The presented token must match the account's stored one exactly; a superseded token is rejected.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} TokenPair
// @Failure      400 {object} httputil.ErrorResponse "Missing refresh token"
// @Failure      401 {object} httputil.ErrorResponse "Invalid or expired refresh token"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid refresh request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	refreshToken := strings.TrimSpace(req.RefreshToken)
	if refreshToken == "" {
		logger.Warn("refresh token missing")
		respondError(w, "refresh token required", httputil.CodeRefreshTokenRequired, http.StatusBadRequest)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken) {
			logger.Warn("token refresh failed: invalid or expired token")
			respondError(w, "invalid or expired refresh token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}
		respondInternal(w, logger, "token refresh", err)
		return
	}

	logger.Info("access token refreshed successfully")

	respondJSON(w, tokens, http.StatusOK)
}

// DeleteUser handles account deletion
// @Summary      Delete an account
// @Description  Permanently delete the account. Irreversible; the id is never reused.
// @Tags         auth
// @Produce      json
// @Param        userId path string true "Account ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse "Account not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/deleteUser/{userId} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			logger.Warn("delete failed: account not found", "user_id", userID)
			respondError(w, "user not found", httputil.CodeUserNotFound, http.StatusNotFound)
			return
		}
		respondInternal(w, logger, "delete account", err)
		return
	}

	logger.Info("user deleted successfully", "user_id", userID)

	respondJSON(w, map[string]string{
		"message": "User deleted successfully",
		"userId":  userID,
	}, http.StatusOK)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	httputil.RespondJSON(w, data, statusCode)
}

// respondError sends an error response with a machine-readable code
func respondError(w http.ResponseWriter, message string, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}

// respondInternal maps unexpected failures: store outages are reported as
// temporarily unavailable (retryable), everything else as internal.
func respondInternal(w http.ResponseWriter, logger *logging.Logger, op string, err error) {
	if errors.Is(err, user.ErrStoreUnavailable) {
		logger.Error(op+" failed: store unavailable", "error", err.Error())
		respondError(w, "service temporarily unavailable", httputil.CodeStoreUnavailable, http.StatusServiceUnavailable)
		return
	}
	logger.Error(op+" failed: internal error", "error", err.Error())
	respondError(w, "internal server error", httputil.CodeInternalError, http.StatusInternalServerError)
}
