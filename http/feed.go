package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"groupblog/domain"
	"groupblog/errs"
)

func (s *Server) registerFeedRoutes(r *mux.Router) {
	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/group/{slug}", s.handleGroupFeed).Methods("GET")
	r.HandleFunc("/profile/{username}", s.handleProfile).Methods("GET")
	r.HandleFunc("/follow", s.requireAuth(s.handleFollowingFeed)).Methods("GET")
}

// handleIndex handles the route "GET /".
// It returns one page of the global feed, possibly a cached one.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.feeds.Global(parsePage(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
	}
}

// handleGroupFeed handles the route "GET /group/{slug}".
// It returns the group and one page of its posts.
func (s *Server) handleGroupFeed(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	group, page, err := s.feeds.Group(slug, parsePage(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	response := struct {
		Group *domain.Group `json:"group"`
		Page  *domain.Page  `json:"page"`
	}{group, page}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// handleProfile handles the route "GET /profile/{username}".
// It returns the author, one page of their posts, whether the requesting
// viewer follows them, and their followers. Works for anonymous viewers.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	viewerID := 0
	if viewer := getUserFromContext(r.Context()); viewer != nil {
		viewerID = viewer.ID
	}

	profile, err := s.feeds.Profile(viewerID, username, parsePage(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		errs.LogError(r, err)
	}
}

// handleFollowingFeed handles the route "GET /follow".
// It returns one page of the posts authored by everyone the requesting user
// follows.
func (s *Server) handleFollowingFeed(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r.Context())
	page, err := s.feeds.Following(user.ID, parsePage(r))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
	}
}
