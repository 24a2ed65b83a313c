package domain

import "time"

// Group is a topical collection of posts. The slug is the stable external
// key: routes and lookups use it, never the numeric ID.
type Group struct {
	ID          int    `json:"id"`
	Title       string `json:"title" gorm:"notNull"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:200;notNull"`
	Description string `json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupService is a set of methods to manipulate and work with the Group model.
type GroupService interface {
	ByID(id int) (*Group, error)
	BySlug(slug string) (*Group, error)
	All() ([]Group, error)
	Create(group *Group) error
	// Delete removes the group. Posts referencing it survive with their
	// group reference nulled.
	Delete(group *Group) error
}
