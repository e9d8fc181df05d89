package models

import "time"

type Post struct {
	ID        int             `json:"id"`
	AuthorID  int             `json:"author_id"`
	Author    *AccountSummary `json:"author,omitempty"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	ImageKey  *string         `json:"-"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Likes     int             `json:"likes"`
	LikedBy   []int           `json:"liked_by"`
	Liked     *bool           `json:"liked,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Comments []Comment `json:"comments,omitempty"`
}

// MarkLikedBy records whether accountID is among the post's likers. Liked
// stays nil for anonymous readers.
func (p *Post) MarkLikedBy(accountID int) {
	liked := false
	for _, id := range p.LikedBy {
		if id == accountID {
			liked = true
			break
		}
	}
	p.Liked = &liked
}

type Comment struct {
	ID        int             `json:"id"`
	PostID    int             `json:"post_id"`
	AuthorID  int             `json:"author_id"`
	Author    *AccountSummary `json:"author,omitempty"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}
