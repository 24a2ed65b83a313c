package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"groupblog/domain"
	"groupblog/errs"
)

func (s *Server) registerFollowRoutes(r *mux.Router) {
	r.HandleFunc("/profile/{username}/follow", s.requireAuth(s.handleCreateFollow)).Methods("POST")
	r.HandleFunc("/profile/{username}/unfollow", s.requireAuth(s.handleDeleteFollow)).Methods("POST")
}

// handleCreateFollow handles the route "POST /profile/{username}/follow".
// Following yourself or someone you already follow is a silent no-op; either
// way the caller lands back on the author's profile.
func (s *Server) handleCreateFollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	author, err := s.us.ByUsername(username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := getUserFromContext(r.Context())
	follow := domain.Follow{
		UserID:   user.ID,
		AuthorID: author.ID,
	}
	if err := s.fs.Create(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+username, http.StatusFound)
}

// handleDeleteFollow handles the route "POST /profile/{username}/unfollow".
// Unfollowing someone you don't follow is a silent no-op.
func (s *Server) handleDeleteFollow(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	author, err := s.us.ByUsername(username)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := getUserFromContext(r.Context())
	follow := domain.Follow{
		UserID:   user.ID,
		AuthorID: author.ID,
	}
	if err := s.fs.Delete(&follow); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+username, http.StatusFound)
}
