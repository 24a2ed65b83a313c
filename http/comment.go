package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"groupblog/domain"
	"groupblog/errs"
)

func (s *Server) registerCommentRoutes(r *mux.Router) {
	r.HandleFunc("/posts/{post_id:[0-9]+}/comment", s.requireAuth(s.handleCreateComment)).Methods("POST")
}

// handleCreateComment handles the route "POST /posts/{post_id}/comment".
// It persists a comment by the requesting user on the given post and
// redirects to the post's detail view.
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid comment data."))
		return
	}

	user := getUserFromContext(r.Context())
	comment := domain.Comment{
		Text:     input.Text,
		PostID:   id,
		AuthorID: user.ID,
	}

	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/posts/%d", id), http.StatusFound)
}
