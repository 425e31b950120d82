package handler

import (
	"net/http"

	"chirper/internal/httputil"
	"chirper/internal/model"
	"chirper/internal/service"
	"chirper/internal/transport/http/middleware"
)

// NotificationHandler groups notification endpoints.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the viewer's notifications, newest first. Fetching the list
// marks everything read.
// GET /notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	notifications, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		httputil.WriteInternalError(w, "Failed to get notifications")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	httputil.WriteJSON(w, http.StatusOK, notifications)
}

// Clear deletes all of the viewer's notifications.
// DELETE /notifications
func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Not authenticated")
		return
	}

	if err := h.notificationService.Clear(r.Context(), userID); err != nil {
		httputil.WriteInternalError(w, "Failed to delete notifications")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Notifications deleted successfully",
	})
}
