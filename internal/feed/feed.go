// Package feed owns the client-side copy of the post list: the pagination
// cursor plus the optimistic like and comment state. Local mutations are
// applied before their network call resolves and reconciled, by entity id,
// once it does.
package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rulzi/instaapp-go/internal/api"
	"github.com/rulzi/instaapp-go/internal/localid"
	"github.com/rulzi/instaapp-go/internal/models"
	"github.com/rulzi/instaapp-go/internal/transport"
)

// Feed accumulates pages of posts and applies optimistic mutations. The
// source app runs single-threaded; here one mutex guards the state and
// network waits happen outside it, which gives the same ordering guarantees.
type Feed struct {
	api *api.Client
	ids *localid.Generator

	mu      sync.Mutex
	posts   []models.Post
	cursor  Cursor
	loading bool
}

// New creates an empty Feed over the given API client.
func New(apiClient *api.Client, perPage int) *Feed {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Feed{
		api:    apiClient,
		ids:    localid.New(),
		cursor: Cursor{PerPage: perPage, LastPage: 1},
	}
}

// Posts returns a snapshot of the current feed state.
func (f *Feed) Posts() []models.Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Post, len(f.posts))
	for i, p := range f.posts {
		out[i] = clonePost(p)
	}
	return out
}

// Post returns a snapshot of a single post by id.
func (f *Feed) Post(id int64) (models.Post, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.posts {
		if p.ID == id {
			return clonePost(p), true
		}
	}
	return models.Post{}, false
}

// Cursor returns the current pagination cursor.
func (f *Feed) Cursor() Cursor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// HasMore reports whether pages beyond the current one exist.
func (f *Feed) HasMore() bool {
	return f.Cursor().HasMore()
}

// Refresh discards accumulated pages and fetches a fresh first page. It is
// ignored while another page fetch is in flight.
func (f *Feed) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	perPage := f.cursor.PerPage
	f.mu.Unlock()

	page, err := f.api.GetPosts(ctx, 1, perPage)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return err
	}
	f.posts = append([]models.Post(nil), page.Data...)
	f.cursor = fromPage(page, perPage)
	return nil
}

// LoadMore fetches the page after the current one and appends it. Triggers
// are ignored while a fetch is already in flight and once the cursor is
// exhausted. A failed fetch leaves the cursor unchanged so a retry
// re-requests the same page.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading || !f.cursor.HasMore() {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	next := f.cursor.CurrentPage + 1
	perPage := f.cursor.PerPage
	f.mu.Unlock()

	page, err := f.api.GetPosts(ctx, next, perPage)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		return err
	}
	f.posts = append(f.posts, page.Data...)
	f.cursor = fromPage(page, perPage)
	return nil
}

// CreatePost publishes a post and replaces the feed with a fresh first page.
// Accumulated pages are discarded, not merged.
func (f *Feed) CreatePost(ctx context.Context, req models.CreatePostRequest) error {
	if _, err := f.api.CreatePost(ctx, req); err != nil {
		return err
	}
	f.invalidateCursor()
	return f.Refresh(ctx)
}

// CreatePostWithFile is CreatePost with an attached image.
func (f *Feed) CreatePostWithFile(ctx context.Context, req models.CreatePostRequest, file transport.FileUpload) error {
	if _, err := f.api.CreatePostWithFile(ctx, req, file); err != nil {
		return err
	}
	f.invalidateCursor()
	return f.Refresh(ctx)
}

func (f *Feed) invalidateCursor() {
	f.mu.Lock()
	f.cursor = Cursor{PerPage: f.cursor.PerPage, LastPage: 1}
	f.mu.Unlock()
}

// ToggleLike flips the like state of a post immediately and reconciles with
// the server. On failure the optimistic change is reverted against whatever
// state is current, keyed by post id, and the envelope's message is returned.
func (f *Feed) ToggleLike(ctx context.Context, postID int64) error {
	f.mu.Lock()
	post, ok := f.findLocked(postID)
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("feed: post %d not loaded", postID)
	}
	liking := !post.IsLiked
	f.applyLocked(postID, setLiked(liking))
	f.mu.Unlock()

	var err error
	if liking {
		err = f.api.LikePost(ctx, postID)
	} else {
		err = f.api.UnlikePost(ctx, postID)
	}
	if err != nil {
		f.mu.Lock()
		f.applyLocked(postID, setLiked(!liking))
		f.mu.Unlock()
		return err
	}
	return nil
}

// AddComment appends a provisional comment and increments the post's comment
// count before the network call resolves. On success the provisional entry,
// matched by its id, is replaced with the server-assigned record; on failure
// it is removed and the count decremented.
func (f *Feed) AddComment(ctx context.Context, postID int64, content string) error {
	provisional := models.Comment{
		ID:        f.ids.Next(),
		PostID:    postID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	f.mu.Lock()
	if !f.applyLocked(postID, addComment(provisional)) {
		f.mu.Unlock()
		return fmt.Errorf("feed: post %d not loaded", postID)
	}
	f.mu.Unlock()

	created, err := f.api.CreateComment(ctx, postID, models.CreateCommentRequest{Content: content})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.applyLocked(postID, removeComment(provisional.ID))
		return err
	}
	f.applyLocked(postID, confirmComment(provisional.ID, *created))
	return nil
}

// LoadComments fetches the full comment thread of a post into the feed state.
func (f *Feed) LoadComments(ctx context.Context, postID int64) error {
	comments, err := f.api.GetPostComments(ctx, postID)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.applyLocked(postID, setComments(comments))
	f.mu.Unlock()
	return nil
}

func (f *Feed) findLocked(postID int64) (models.Post, bool) {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			return f.posts[i], true
		}
	}
	return models.Post{}, false
}

func (f *Feed) applyLocked(postID int64, fn func(*models.Post)) bool {
	for i := range f.posts {
		if f.posts[i].ID == postID {
			fn(&f.posts[i])
			return true
		}
	}
	return false
}

func clonePost(p models.Post) models.Post {
	if p.Comments != nil {
		p.Comments = append([]models.Comment(nil), p.Comments...)
	}
	return p
}
