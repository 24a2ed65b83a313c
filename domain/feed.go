package domain

// Page is one slice of an ordered post listing, produced by the feed
// service. Number is 1-based and already clamped to the valid range.
type Page struct {
	Items      []Post `json:"items"`
	Number     int    `json:"number"`
	TotalItems int    `json:"total_items"`
	TotalPages int    `json:"total_pages"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
}

// Profile is the feed of a single author together with the follow state the
// profile page displays.
type Profile struct {
	Author *User `json:"author"`
	Page   *Page `json:"page"`
	// Following reports whether the requesting viewer follows the author.
	// Always false for an anonymous viewer.
	Following bool   `json:"following"`
	Followers []User `json:"followers"`
}

// FeedService composes the paginated post feeds. Every feed is ordered by
// descending creation time; ordering comes from the store, slicing from the
// feed service.
type FeedService interface {
	// Global returns the feed of all posts. An empty store yields an
	// empty page, not an error. Results are served from a short-lived
	// cache.
	Global(page int) (*Page, error)
	// Group returns the feed of the group with the given slug.
	Group(slug string, page int) (*Group, *Page, error)
	// Profile returns the feed of the author with the given username.
	// viewerID is 0 for an anonymous viewer.
	Profile(viewerID int, username string, page int) (*Profile, error)
	// Following returns the feed of posts by every author the given user
	// follows.
	Following(userID int, page int) (*Page, error)
	// ClearCache drops the cached global feed pages immediately.
	ClearCache()
}
