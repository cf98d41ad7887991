package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rulzi/instaapp-go/internal/models"
)

// PostHandler handles the post feed: listing, creation, likes.
type PostHandler struct {
	store *Store
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(store *Store) *PostHandler {
	return &PostHandler{store: store}
}

// RegisterPostRoutes registers post-related routes.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.POST("/posts", h.CreatePost)
	g.POST("/posts/:post_id/like", h.LikePost)
	g.DELETE("/posts/:post_id/like", h.UnlikePost)
}

// ListPosts returns one page of the feed, newest first.
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	return respondData(c, http.StatusOK, h.store.ListPosts(page, perPage, currentUserID(c)))
}

// CreatePost accepts either a JSON body or multipart form data with an
// optional image file.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	var image string

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		req.Content = c.FormValue("content")
		if file, err := c.FormFile("image"); err == nil {
			// The devserver does not keep file bytes; it assigns the URL the
			// real backend would.
			image = "/uploads/" + uuid.NewString() + filepath.Ext(file.Filename)
		}
		if err := c.Validate(&req); err != nil {
			var verr *validationError
			if errors.As(err, &verr) {
				return respondValidation(c, http.StatusUnprocessableEntity, verr.Error(), verr.fields)
			}
			return respondError(c, http.StatusUnprocessableEntity, err.Error())
		}
	} else {
		if ok, err := bindAndValidate(c, &req); !ok {
			return err
		}
	}

	post, err := h.store.CreatePost(currentUserID(c), req.Content, image)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create post")
	}
	return respondData(c, http.StatusCreated, post)
}

// LikePost records a like by the current user.
func (h *PostHandler) LikePost(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid post id")
	}

	switch err := h.store.LikePost(postID, currentUserID(c)); {
	case errors.Is(err, ErrNotFound):
		return respondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, ErrAlreadyLiked):
		return respondError(c, http.StatusConflict, "Post already liked")
	case err != nil:
		return respondError(c, http.StatusInternalServerError, "Failed to like post")
	}
	return respondMessage(c, http.StatusCreated, "Post liked")
}

// UnlikePost removes the current user's like.
func (h *PostHandler) UnlikePost(c echo.Context) error {
	postID, err := parsePostID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid post id")
	}

	switch err := h.store.UnlikePost(postID, currentUserID(c)); {
	case errors.Is(err, ErrNotFound):
		return respondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, ErrNotLiked):
		return respondError(c, http.StatusConflict, "Post not liked")
	case err != nil:
		return respondError(c, http.StatusInternalServerError, "Failed to unlike post")
	}
	return respondMessage(c, http.StatusOK, "Like removed")
}

func parsePostID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("post_id"), 10, 64)
}
