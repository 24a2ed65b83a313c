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

func (s *Server) registerImageRoutes(r *mux.Router) {
	r.HandleFunc("/posts/{post_id:[0-9]+}/image", s.requireAuth(s.handleUploadPostImage)).Methods("POST")

	// Serve the stored images themselves.
	r.PathPrefix("/" + domain.ImagesBaseDir + "/").
		Handler(http.StripPrefix("/"+domain.ImagesBaseDir+"/", http.FileServer(http.Dir(domain.ImagesBaseDir)))).
		Methods("GET")
}

// handleUploadPostImage handles the route "POST /posts/{post_id}/image".
// It stores the uploaded file in the blob store and records its path on the
// post. Uploading to someone else's post is silently refused with a redirect
// to the post's detail view, same as editing.
func (s *Server) handleUploadPostImage(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(domain.MaxUploadSize); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid upload data."))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "An image file is required."))
		return
	}
	defer file.Close()

	img := &domain.Image{
		PostID:   id,
		File:     file,
		Filename: header.Filename,
	}
	if err := s.is.Create(img); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	post.Image = img.Path
	if err := s.ps.Update(post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}
