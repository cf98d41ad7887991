// Package api is the typed facade over the transport and session store, one
// method per endpoint. Every call is attempt-once; no retries happen here.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rulzi/instaapp-go/internal/models"
	"github.com/rulzi/instaapp-go/internal/session"
	"github.com/rulzi/instaapp-go/internal/transport"
)

// Client exposes the API operations the app relies on. Construct one
// explicitly and inject it into callers.
type Client struct {
	transport *transport.Client
	session   *session.Store
	validate  *validator.Validate
}

// New creates a Client over the given transport and session store.
func New(tr *transport.Client, sess *session.Store) *Client {
	return &Client{transport: tr, session: sess, validate: newValidator()}
}

// Session returns the session store backing this client.
func (c *Client) Session() *session.Store {
	return c.session
}

// Login authenticates with email and password. The returned token is
// persisted in the session store.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	res := c.transport.Send(ctx, http.MethodPost, "/login", req, nil)
	return c.decodeAuth(res)
}

// Register creates a new account and persists the returned token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	res := c.transport.Send(ctx, http.MethodPost, "/register", req, nil)
	return c.decodeAuth(res)
}

// Logout invalidates the server-side session. The local credential is cleared
// regardless of the remote outcome: a locally cached token the server may
// already have revoked is a worse failure mode than an extra login prompt.
func (c *Client) Logout(ctx context.Context) error {
	res := c.transport.Send(ctx, http.MethodPost, "/logout", nil, nil)
	if err := c.session.Remove(); err != nil {
		return &Error{Kind: transport.KindTransport, Message: "Failed to clear session: " + err.Error()}
	}
	if !res.Success {
		return resultError(res)
	}
	return nil
}

// GetProfile fetches the authenticated user.
func (c *Client) GetProfile(ctx context.Context) (*models.User, error) {
	res := c.transport.Send(ctx, http.MethodGet, "/me", nil, nil)
	var user models.User
	if err := decode(res, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetPosts fetches one page of the feed.
func (c *Client) GetPosts(ctx context.Context, page, perPage int) (*models.PostsPage, error) {
	endpoint := fmt.Sprintf("/posts?page=%d&per_page=%d", page, perPage)
	res := c.transport.Send(ctx, http.MethodGet, endpoint, nil, nil)
	var posts models.PostsPage
	if err := decode(res, &posts); err != nil {
		return nil, err
	}
	return &posts, nil
}

// CreatePost publishes a text-only post.
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	res := c.transport.Send(ctx, http.MethodPost, "/posts", req, nil)
	var post models.Post
	if err := decode(res, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePostWithFile publishes a post with an attached image, sent as
// multipart form data.
func (c *Client) CreatePostWithFile(ctx context.Context, req models.CreatePostRequest, file transport.FileUpload) (*models.Post, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	fields := map[string]string{"content": req.Content}
	res := c.transport.SendMultipart(ctx, http.MethodPost, "/posts", fields, []transport.FileUpload{file}, nil)
	var post models.Post
	if err := decode(res, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// LikePost marks a post as liked by the current user.
func (c *Client) LikePost(ctx context.Context, postID int64) error {
	res := c.transport.Send(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), nil, nil)
	return decode(res, nil)
}

// UnlikePost removes the current user's like from a post.
func (c *Client) UnlikePost(ctx context.Context, postID int64) error {
	res := c.transport.Send(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d/like", postID), nil, nil)
	return decode(res, nil)
}

// CreateComment adds a comment to a post and returns the server-assigned
// record.
func (c *Client) CreateComment(ctx context.Context, postID int64, req models.CreateCommentRequest) (*models.Comment, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	res := c.transport.Send(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/comment", postID), req, nil)
	var comment models.Comment
	if err := decode(res, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetPostComments fetches all comments of a post.
func (c *Client) GetPostComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	res := c.transport.Send(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/comment", postID), nil, nil)
	var comments []models.Comment
	if err := decode(res, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) decodeAuth(res transport.Result) (*models.AuthResponse, error) {
	var auth models.AuthResponse
	if err := decode(res, &auth); err != nil {
		return nil, err
	}
	if auth.Token != "" {
		if err := c.session.Set(auth.Token); err != nil {
			return nil, &Error{Kind: transport.KindTransport, Message: "Failed to persist session: " + err.Error()}
		}
	}
	return &auth, nil
}

func decode(res transport.Result, v any) error {
	if !res.Success {
		return resultError(res)
	}
	if err := res.Decode(v); err != nil {
		return &Error{Kind: transport.KindTransport, Message: "Unexpected response from server."}
	}
	return nil
}
