package domain

import "time"

// MinPostTextLength is the minimum number of characters a post must contain.
const MinPostTextLength = 20

// Post is a text entry published by an author, optionally filed into a group
// and optionally carrying one uploaded image. CreatedAt is assigned by the
// store on insert and never changes afterwards; every feed orders posts by
// it, descending.
type Post struct {
	ID   int    `json:"id"`
	Text string `json:"text" gorm:"notNull"`

	AuthorID int  `json:"author_id" gorm:"notNull;index"`
	Author   User `json:"author"`

	// GroupID is a pointer so that a post without a group (and a post
	// whose group was deleted) stores NULL.
	GroupID *int   `json:"group_id,omitempty" gorm:"index"`
	Group   *Group `json:"group,omitempty"`

	// Image is the blob store path of the post's image, empty if none.
	Image string `json:"image,omitempty"`

	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostService is a set of methods to manipulate and work with the Post model.
// All listing methods return posts in descending CreatedAt order.
type PostService interface {
	ByID(id int) (*Post, error)
	All() ([]Post, error)
	ByGroupID(groupID int) ([]Post, error)
	ByAuthorID(authorID int) ([]Post, error)
	// ByFollowedAuthors returns the posts of every author the given user
	// follows.
	ByFollowedAuthors(userID int) ([]Post, error)
	Create(post *Post) error
	Update(post *Post) error
	// Delete removes the post together with its comments.
	Delete(post *Post) error
}
