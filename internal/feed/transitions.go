package feed

import "github.com/rulzi/instaapp-go/internal/models"

// Transitions are pure functions of a post's current state, applied under the
// feed lock and keyed by entity id. Reverts never restore captured snapshots:
// two overlapping optimistic actions on the same post each adjust whatever
// state is current when their turn comes, so no update is lost.

func setLiked(liked bool) func(*models.Post) {
	return func(p *models.Post) {
		p.IsLiked = liked
		if liked {
			p.LikesCount++
		} else if p.LikesCount > 0 {
			p.LikesCount--
		}
	}
}

func addComment(c models.Comment) func(*models.Post) {
	return func(p *models.Post) {
		p.Comments = append(p.Comments, c)
		p.CommentsCount++
	}
}

// confirmComment swaps the provisional entry for the server-assigned record.
// The count stays as is: it was already incremented when the provisional
// entry went in. A missing provisional entry means the feed was replaced in
// the meantime; nothing to do then.
func confirmComment(provisionalID int64, confirmed models.Comment) func(*models.Post) {
	return func(p *models.Post) {
		for i := range p.Comments {
			if p.Comments[i].ID == provisionalID {
				p.Comments[i] = confirmed
				return
			}
		}
	}
}

func removeComment(id int64) func(*models.Post) {
	return func(p *models.Post) {
		for i := range p.Comments {
			if p.Comments[i].ID == id {
				p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
				if p.CommentsCount > 0 {
					p.CommentsCount--
				}
				return
			}
		}
	}
}

func setComments(comments []models.Comment) func(*models.Post) {
	return func(p *models.Post) {
		p.Comments = comments
	}
}
