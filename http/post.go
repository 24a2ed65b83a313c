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

func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/posts/{post_id:[0-9]+}", s.handlePostDetail).Methods("GET")
	r.HandleFunc("/create", s.requireAuth(s.handleCreatePost)).Methods("POST")
	r.HandleFunc("/posts/{post_id:[0-9]+}/edit", s.requireAuth(s.handleEditPost)).Methods("POST")
	r.HandleFunc("/posts/{post_id:[0-9]+}/delete", s.requireAuth(s.handleDeletePost)).Methods("DELETE")
}

// postInput is the json body of create and edit requests. The author is
// never part of it; it always comes from the authenticated caller.
type postInput struct {
	Text    string `json:"text"`
	GroupID *int   `json:"group_id"`
}

// handlePostDetail handles the route "GET /posts/{post_id}".
// It returns the post with its author, group and comments.
func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreatePost handles the route "POST /create".
// It validates and persists a new post authored by the requesting user and
// redirects to the author's profile.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post data."))
		return
	}

	user := getUserFromContext(r.Context())
	post := domain.Post{
		Text:     input.Text,
		GroupID:  input.GroupID,
		AuthorID: user.ID,
	}

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+user.Username, http.StatusFound)
}

// handleEditPost handles the route "POST /posts/{post_id}/edit".
// Edits by anyone but the post's author are silently refused: the caller is
// redirected to the post's detail view either way, so the response does not
// reveal whose post it is.
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	detail := fmt.Sprintf("/posts/%d", id)
	user := getUserFromContext(r.Context())
	if post.AuthorID != user.ID {
		http.Redirect(w, r, detail, http.StatusFound)
		return
	}

	var input postInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid post data."))
		return
	}
	post.Text = input.Text
	post.GroupID = input.GroupID
	post.Group = nil

	if err := s.ps.Update(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, detail, http.StatusFound)
}

// handleDeletePost handles the route "DELETE /posts/{post_id}/delete".
// Deleting cascades to the post's comments. Like editing, deleting a post
// that is not yours is silently refused with a redirect to the detail view.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user := getUserFromContext(r.Context())
	if post.AuthorID != user.ID {
		http.Redirect(w, r, fmt.Sprintf("/posts/%d", id), http.StatusFound)
		return
	}

	if err := s.ps.Delete(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	http.Redirect(w, r, "/profile/"+user.Username, http.StatusFound)
}
