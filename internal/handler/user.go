package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"chirper/internal/httputil"
	"chirper/internal/model"
	"chirper/internal/service"
	"chirper/internal/transport/http/middleware"
)

// UserHandler groups user profile and follow endpoints.
type UserHandler struct {
	userService   *service.UserService
	followService *service.FollowService
}

func NewUserHandler(userService *service.UserService, followService *service.FollowService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
	}
}

// GetProfile returns a user's public profile.
// GET /users/profile/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get profile")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// GetSuggested returns up to three users the viewer doesn't follow.
// GET /users/suggested
func (h *UserHandler) GetSuggested(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	users, err := h.userService.Suggested(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get suggested users")
		return
	}
	if users == nil {
		users = []model.UserSummary{}
	}

	httputil.WriteJSON(w, http.StatusOK, users)
}

// FollowUnfollow toggles the follow edge to the target user.
// POST /users/follow/{id}
func (h *UserHandler) FollowUnfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user id")
		return
	}

	following, err := h.followService.FollowUnfollow(r.Context(), userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCannotFollowSelf):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		default:
			httputil.WriteInternalError(w, "Failed to follow user")
		}
		return
	}

	message := "User followed successfully"
	if !following {
		message = "User unfollowed successfully"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

// UpdateProfile applies partial updates to the viewer's own account.
// POST /users/update
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			httputil.WriteNotFound(w, "User not found")
		case errors.Is(err, model.ErrPasswordPairRequired),
			errors.Is(err, model.ErrPasswordTooShort),
			errors.Is(err, model.ErrPasswordTooLong),
			errors.Is(err, model.ErrInvalidEmail):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrInvalidCredentials):
			httputil.WriteBadRequest(w, "Current password is incorrect")
		case errors.Is(err, model.ErrUsernameTaken),
			errors.Is(err, model.ErrEmailTaken):
			httputil.WriteConflict(w, err.Error())
		case errors.Is(err, model.ErrInvalidImage),
			errors.Is(err, model.ErrImageTooLarge):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to update profile")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}
