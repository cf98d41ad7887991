package models

import "time"

// Comment belongs to a post. A comment created optimistically carries a
// provisional negative id (see internal/localid) until the server-assigned
// record replaces it.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Author    User      `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
