package models

import "time"

// Post is a feed entry. The server owns the canonical copy; the client keeps
// a transient cached one in the feed state.
type Post struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Author        User      `json:"user"`
	Content       string    `json:"content"`
	Image         string    `json:"image,omitempty"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
	Comments      []Comment `json:"comments,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post.
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// PostsPage is one page of the feed as returned by GET /posts.
type PostsPage struct {
	Data        []Post `json:"data"`
	CurrentPage int    `json:"current_page"`
	PerPage     int    `json:"per_page"`
	Total       int    `json:"total"`
	LastPage    int    `json:"last_page"`
}
