// Package feed composes the paginated post feeds: global, per group, per
// author and per follower. Ordering by descending creation time comes from
// the post queries; this package only slices and, for the global feed,
// caches.
package feed

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"groupblog/domain"
)

const (
	// indexCacheKey prefixes the cache key of every global feed page.
	indexCacheKey = "index_page"
	// indexCacheTTL is how long a cached global feed page stays valid.
	// A post created or deleted within the window may be missing from or
	// lingering in the cached page until it expires or the cache is
	// cleared; that staleness is accepted.
	indexCacheTTL = 20 * time.Second
)

// Service composes feeds on top of the crud services.
// It implements the domain.FeedService interface.
type Service struct {
	ps    domain.PostService
	gs    domain.GroupService
	us    domain.UserService
	fs    domain.FollowService
	cache *gocache.Cache
}

// NewService returns an instance of Service with a fresh cache.
func NewService(ps domain.PostService, gs domain.GroupService, us domain.UserService, fs domain.FollowService) *Service {
	return &Service{
		ps:    ps,
		gs:    gs,
		us:    us,
		fs:    fs,
		cache: gocache.New(indexCacheTTL, 2*indexCacheTTL),
	}
}

// Ensure the Service struct properly implements the domain.FeedService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.FeedService = &Service{}

// Global returns one page of the feed of all posts. Pages are served from
// the cache while their TTL lasts; concurrent requests for an uncached page
// may each compute it once, last write wins. An empty store yields an empty
// page.
func (s *Service) Global(page int) (*domain.Page, error) {
	key := fmt.Sprintf("%s:%d", indexCacheKey, page)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*domain.Page), nil
	}

	posts, err := s.ps.All()
	if err != nil {
		return nil, err
	}
	pg := Paginate(posts, page, PageSize)
	s.cache.Set(key, pg, indexCacheTTL)
	return pg, nil
}

// Group returns the group with the given slug and one page of its posts.
func (s *Service) Group(slug string, page int) (*domain.Group, *domain.Page, error) {
	group, err := s.gs.BySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.ps.ByGroupID(group.ID)
	if err != nil {
		return nil, nil, err
	}
	return group, Paginate(posts, page, PageSize), nil
}

// Profile returns the author with the given username, one page of their
// posts, whether the viewer follows them (always false for an anonymous
// viewer, viewerID 0) and their full follower list.
func (s *Service) Profile(viewerID int, username string, page int) (*domain.Profile, error) {
	author, err := s.us.ByUsername(username)
	if err != nil {
		return nil, err
	}
	posts, err := s.ps.ByAuthorID(author.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.fs.IsFollowing(viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	followers, err := s.fs.FollowersOf(author.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Profile{
		Author:    author,
		Page:      Paginate(posts, page, PageSize),
		Following: following,
		Followers: followers,
	}, nil
}

// Following returns one page of the posts authored by everyone the given
// user follows. Whether the user is authenticated at all is decided at the
// request boundary.
func (s *Service) Following(userID int, page int) (*domain.Page, error) {
	posts, err := s.ps.ByFollowedAuthors(userID)
	if err != nil {
		return nil, err
	}
	return Paginate(posts, page, PageSize), nil
}

// ClearCache drops every cached global feed page immediately. Exists for
// administrative use and for tests that must not see stale pages.
func (s *Service) ClearCache() {
	s.cache.Flush()
}
