package feed

import "github.com/rulzi/instaapp-go/internal/models"

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 10

// Cursor tracks the feed's position in the server's paginated post list.
type Cursor struct {
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
}

// HasMore reports whether pages beyond the current one exist.
func (c Cursor) HasMore() bool {
	return c.CurrentPage < c.LastPage
}

// fromPage builds the cursor from the latest server response. perPage falls
// back to the configured size when the server omits it.
func fromPage(p *models.PostsPage, perPage int) Cursor {
	if p.PerPage > 0 {
		perPage = p.PerPage
	}
	last := p.LastPage
	if last < 1 {
		last = 1
	}
	return Cursor{
		CurrentPage: p.CurrentPage,
		PerPage:     perPage,
		Total:       p.Total,
		LastPage:    last,
	}
}
