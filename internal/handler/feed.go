package handler

import (
	"encoding/json"
	"net/http"

	"gamevault-api/internal/middleware"
	"gamevault-api/internal/service"
	"gamevault-api/pkg/apierror"
	"gamevault-api/pkg/response"
)

// FeedHandler handles community feed HTTP requests.
type FeedHandler struct {
	feed *service.FeedService
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feed *service.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// List handles GET /api/v1/posts
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.feed.GetFeed(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, posts)
}

// Create handles POST /api/v1/posts
func (h *FeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	post, err := h.feed.CreatePost(r.Context(), middleware.GetUserID(r.Context()), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, post)
}

// Update handles PUT /api/v1/posts/{id}
func (h *FeedHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var in service.PostInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	post, err := h.feed.UpdatePost(r.Context(), middleware.GetUserID(r.Context()), id, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, post)
}

// Delete handles DELETE /api/v1/posts/{id}
func (h *FeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	if err := h.feed.DeletePost(r.Context(), middleware.GetUserID(r.Context()), id, false); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Post deleted"})
}

// ToggleLike handles POST /api/v1/posts/{id}/like
func (h *FeedHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	result, err := h.feed.ToggleLike(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// ListComments handles GET /api/v1/posts/{id}/comments
func (h *FeedHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	comments, err := h.feed.ListComments(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, comments)
}

// CommentRequest represents the request body for a comment.
type CommentRequest struct {
	Text string `json:"text"`
}

// AddComment handles POST /api/v1/posts/{id}/comments
func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	comment, err := h.feed.AddComment(r.Context(), middleware.GetUserID(r.Context()), id, req.Text)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, comment)
}

// UpdateComment handles PUT /api/v1/comments/{id}
func (h *FeedHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	comment, err := h.feed.UpdateComment(r.Context(), middleware.GetUserID(r.Context()), id, req.Text)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, comment)
}

// DeleteComment handles DELETE /api/v1/comments/{id}
func (h *FeedHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, apiErr := pathID(r, "id")
	if apiErr != nil {
		response.Error(w, apiErr)
		return
	}

	if err := h.feed.DeleteComment(r.Context(), middleware.GetUserID(r.Context()), id, false); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "Comment deleted"})
}
