package server

import (
	"errors"
	"sync"
	"time"

	"github.com/rulzi/instaapp-go/internal/models"
)

// Store-level sentinel errors; handlers translate them to HTTP responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrAlreadyLiked = errors.New("post already liked")
	ErrNotLiked     = errors.New("post not liked")
)

type userRecord struct {
	models.User
	PasswordHash []byte
}

type postRecord struct {
	models.Post
	likes map[int64]bool
}

// Store is the devserver's in-memory state. It exists so the SDK can be
// exercised end-to-end without the production backend; nothing survives a
// restart, which keeps tests hermetic.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]*userRecord
	byEmail  map[string]int64
	posts    []*postRecord
	comments map[int64][]models.Comment
	nextID   int64
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:    make(map[int64]*userRecord),
		byEmail:  make(map[string]int64),
		comments: make(map[int64][]models.Comment),
	}
}

func (s *Store) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// CreateUser registers a new account. The email must be unused.
func (s *Store) CreateUser(name, email string, passwordHash []byte) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return models.User{}, ErrEmailTaken
	}
	user := &userRecord{
		User: models.User{
			ID:        s.nextIDLocked(),
			Name:      name,
			Email:     email,
			CreatedAt: time.Now(),
		},
		PasswordHash: passwordHash,
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID
	return user.User, nil
}

// UserByEmail returns the account registered under email along with its
// password hash.
func (s *Store) UserByEmail(email string) (models.User, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return models.User{}, nil, ErrNotFound
	}
	user := s.users[id]
	return user.User, user.PasswordHash, nil
}

// UserByID returns the account with the given id.
func (s *Store) UserByID(id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return models.User{}, ErrNotFound
	}
	return user.User, nil
}

// CreatePost stores a new post owned by userID.
func (s *Store) CreatePost(userID int64, content, image string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	author, exists := s.users[userID]
	if !exists {
		return models.Post{}, ErrNotFound
	}
	post := &postRecord{
		Post: models.Post{
			ID:        s.nextIDLocked(),
			UserID:    userID,
			Author:    author.User,
			Content:   content,
			Image:     image,
			CreatedAt: time.Now(),
		},
		likes: make(map[int64]bool),
	}
	s.posts = append(s.posts, post)
	return post.Post, nil
}

// ListPosts returns one page of posts, newest first, with per-viewer like
// flags filled in.
func (s *Store) ListPosts(page, perPage int, viewerID int64) models.PostsPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.posts)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		page = lastPage
	}

	// posts are stored oldest first; walk backwards for a newest-first feed
	start := total - (page-1)*perPage
	end := start - perPage
	if end < 0 {
		end = 0
	}

	out := make([]models.Post, 0, perPage)
	for i := start - 1; i >= end; i-- {
		out = append(out, s.viewLocked(s.posts[i], viewerID))
	}

	return models.PostsPage{
		Data:        out,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// PostByID returns a single post as seen by viewerID.
func (s *Store) PostByID(id, viewerID int64) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, exists := s.findLocked(id)
	if !exists {
		return models.Post{}, ErrNotFound
	}
	return s.viewLocked(post, viewerID), nil
}

// LikePost records userID's like on postID. Liking twice is rejected.
func (s *Store) LikePost(postID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.findLocked(postID)
	if !exists {
		return ErrNotFound
	}
	if post.likes[userID] {
		return ErrAlreadyLiked
	}
	post.likes[userID] = true
	post.LikesCount++
	return nil
}

// UnlikePost removes userID's like from postID.
func (s *Store) UnlikePost(postID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.findLocked(postID)
	if !exists {
		return ErrNotFound
	}
	if !post.likes[userID] {
		return ErrNotLiked
	}
	delete(post.likes, userID)
	if post.LikesCount > 0 {
		post.LikesCount--
	}
	return nil
}

// CreateComment appends a comment by userID to postID.
func (s *Store) CreateComment(postID, userID int64, content string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, exists := s.findLocked(postID)
	if !exists {
		return models.Comment{}, ErrNotFound
	}
	author, exists := s.users[userID]
	if !exists {
		return models.Comment{}, ErrNotFound
	}
	comment := models.Comment{
		ID:        s.nextIDLocked(),
		PostID:    postID,
		UserID:    userID,
		Author:    author.User,
		Content:   content,
		CreatedAt: time.Now(),
	}
	s.comments[postID] = append(s.comments[postID], comment)
	post.CommentsCount++
	return comment, nil
}

// CommentsByPost returns all comments of postID in creation order.
func (s *Store) CommentsByPost(postID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.findLocked(postID); !exists {
		return nil, ErrNotFound
	}
	return append([]models.Comment(nil), s.comments[postID]...), nil
}

func (s *Store) findLocked(postID int64) (*postRecord, bool) {
	for _, p := range s.posts {
		if p.ID == postID {
			return p, true
		}
	}
	return nil, false
}

func (s *Store) viewLocked(p *postRecord, viewerID int64) models.Post {
	view := p.Post
	view.IsLiked = p.likes[viewerID]
	view.Comments = append([]models.Comment(nil), s.comments[p.ID]...)
	return view
}
