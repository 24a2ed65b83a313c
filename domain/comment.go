package domain

import "time"

// Comment is a reply to a post. Comments are never edited; they live exactly
// as long as their post does.
type Comment struct {
	ID   int    `json:"id"`
	Text string `json:"text" gorm:"notNull"`

	AuthorID int  `json:"author_id" gorm:"notNull;index"`
	Author   User `json:"author"`

	PostID int `json:"post_id" gorm:"notNull;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentService is a set of methods to manipulate and work with the Comment model.
type CommentService interface {
	ByPostID(postID int) ([]Comment, error)
	Create(comment *Comment) error
}
