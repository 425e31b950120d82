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

// PostHandler groups post, like and comment endpoints.
type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// Create creates a post with text, an image or both.
// POST /posts/create
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyPost),
			errors.Is(err, model.ErrInvalidImage),
			errors.Is(err, model.ErrImageTooLarge):
			httputil.WriteBadRequest(w, err.Error())
		default:
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// Delete removes the viewer's own post.
// DELETE /posts/{id}
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteForbidden(w, "You are not authorized to delete this post")
		default:
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Post deleted successfully",
	})
}

// LikeUnlike toggles the viewer's like on a post and returns the post's
// resulting liker ID list.
// POST /posts/like/{id}
func (h *PostHandler) LikeUnlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}

	likers, err := h.postService.LikeUnlike(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to like post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, likers)
}

// commentRequest is the request body for commenting on a post.
type commentRequest struct {
	Text string `json:"text"`
}

// Comment adds a comment and returns the post with comments hydrated.
// POST /posts/comment/{id}
func (h *PostHandler) Comment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid post id")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Comment(r.Context(), userID, postID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmptyComment):
			httputil.WriteBadRequest(w, err.Error())
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		default:
			httputil.WriteInternalError(w, "Failed to comment on post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

// ListAll returns every post, newest first.
// GET /posts/all
func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListAll(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// ListFollowing returns posts by users the viewer follows.
// GET /posts/following
func (h *PostHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	posts, err := h.postService.ListFollowing(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get feed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// ListByUsername returns the named user's posts.
// GET /posts/user/{username}
func (h *PostHandler) ListByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	posts, err := h.postService.ListByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// ListLiked returns posts the given user has liked.
// GET /posts/likes/{id}
func (h *PostHandler) ListLiked(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid user id")
		return
	}

	posts, err := h.postService.ListLiked(r.Context(), targetID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		httputil.WriteInternalError(w, "Failed to get liked posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}
