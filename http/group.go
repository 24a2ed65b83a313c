package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"groupblog/domain"
	"groupblog/errs"
)

func (s *Server) registerGroupRoutes(r *mux.Router) {
	r.HandleFunc("/groups", s.handleListGroups).Methods("GET")
	r.HandleFunc("/group", s.requireAuth(s.handleCreateGroup)).Methods("POST")
}

// handleListGroups handles the route "GET /groups".
// It returns all groups, newest first.
func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.gs.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(groups); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreateGroup handles the route "POST /group".
// It creates a new topical group with a unique slug.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var group domain.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid group data."))
		return
	}

	if err := s.gs.Create(&group); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&group); err != nil {
		errs.LogError(r, err)
	}
}
