package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"chirper/internal/config"
	"chirper/internal/httputil"
	"chirper/internal/model"
	"chirper/internal/service"
	"chirper/internal/transport/http/middleware"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "jwt"

// AuthHandler groups auth endpoints and their dependencies.
type AuthHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
	config       *config.Config
}

func NewAuthHandler(userService *service.UserService, tokenService *service.TokenService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
		config:       cfg,
	}
}

// Signup handles account creation and logs the new user in.
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMissingFields),
			errors.Is(err, model.ErrInvalidEmail),
			errors.Is(err, model.ErrPasswordTooShort),
			errors.Is(err, model.ErrPasswordTooLong):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUsernameTaken),
			errors.Is(err, model.ErrEmailTaken):
			httputil.WriteConflict(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to create account")
		}
		return
	}

	if err := h.setSessionCookie(w, user.ID); err != nil {
		httputil.WriteInternalError(w, "Failed to create session")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and sets the session cookie.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.WriteBadRequest(w, "Invalid username or password")
			return
		}
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	if err := h.setSessionCookie(w, user.ID); err != nil {
		httputil.WriteInternalError(w, "Failed to create session")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; there is no server-side session state to revoke.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user's own record.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	user, err := h.userService.GetMe(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Token is valid but the account is gone
			httputil.WriteUnauthorized(w, "Not authenticated")
			return
		}
		httputil.WriteInternalError(w, "Failed to get user")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, userID int64) error {
	token, err := h.tokenService.Generate(userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}
