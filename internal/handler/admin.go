package handler

import (
	"net/http"

	"gamevault-api/internal/middleware"
	"gamevault-api/internal/service"
	"gamevault-api/pkg/response"
)

// AdminHandler handles back-office HTTP requests.
type AdminHandler struct {
	admin *service.AdminService
	feed  *service.FeedService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin *service.AdminService, feed *service.FeedService) *AdminHandler {
	return &AdminHandler{admin: admin, feed: feed}
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.admin.Dashboard(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, summaries)
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.GetStats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, stats)
}

// DeletePost handles DELETE /api/v1/admin/posts/{id} for moderation.
func (h *AdminHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	if err := h.feed.DeletePost(r.Context(), middleware.GetUserID(r.Context()), id, true); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Post deleted"})
}

// DeleteComment handles DELETE /api/v1/admin/comments/{id} for moderation.
func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	if err := h.feed.DeleteComment(r.Context(), middleware.GetUserID(r.Context()), id, true); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Comment deleted"})
}
