package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rulzi/instaapp-go/internal/models"
)

// CommentHandler handles comment creation and listing.
type CommentHandler struct {
	store *Store
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(store *Store) *CommentHandler {
	return &CommentHandler{store: store}
}

// RegisterCommentRoutes registers comment-related routes.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comment", h.CreateComment)
	g.GET("/posts/:post_id/comment", h.ListComments)
}

// CreateComment adds a comment to a post and returns the stored record.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid post id")
	}

	var req models.CreateCommentRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	comment, err := h.store.CreateComment(postID, currentUserID(c), req.Content)
	if errors.Is(err, ErrNotFound) {
		return respondError(c, http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create comment")
	}
	return respondData(c, http.StatusCreated, comment)
}

// ListComments returns all comments of a post in creation order.
func (h *CommentHandler) ListComments(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid post id")
	}

	comments, err := h.store.CommentsByPost(postID)
	if errors.Is(err, ErrNotFound) {
		return respondError(c, http.StatusNotFound, "Post not found")
	}
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to list comments")
	}
	return respondData(c, http.StatusOK, comments)
}
