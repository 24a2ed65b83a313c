package domain

import "time"

// Follow represents a self-referential many-to-many relationship between two
// users: UserID is the follower, AuthorID the followed author. The composite
// unique index keeps the edge single even under concurrent identical
// requests.
type Follow struct {
	ID        int       `json:"id"`
	UserID    int       `json:"-" gorm:"notNull;index;uniqueIndex:idx_follow_edge"`
	User      User      `json:"user"`
	AuthorID  int       `json:"-" gorm:"notNull;index;uniqueIndex:idx_follow_edge"`
	Author    User      `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow
// model. Create and Delete are idempotent: a duplicate follow, a self
// follow, and an unfollow of a missing edge are silent no-ops. They only
// fail if one of the two users does not exist.
type FollowService interface {
	Create(follow *Follow) error
	Delete(follow *Follow) error
	IsFollowing(userID, authorID int) (bool, error)
	FollowersOf(authorID int) ([]User, error)
}
