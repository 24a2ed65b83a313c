package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"groupblog/crud"
	"groupblog/domain"
	"groupblog/errs"
)

// rememberCookie is the name of the session cookie holding the raw remember
// token. Only its HMAC ever reaches the database.
const rememberCookie = "remember_token"

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods("POST")
}

// handleRegister handles the route "POST /register".
// It creates a new user record and signs the user in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid registration data."))
		return
	}

	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, r, &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&user); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogin handles the route "POST /login".
// It authenticates the submitted credentials and signs the user in. If the
// request carries a ?next= parameter (set by requireAuth when it bounced an
// anonymous request here), the response redirects back to that target.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid login data."))
		return
	}

	user, err := s.us.Authenticate(creds.Email, creds.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, r, user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if next := r.URL.Query().Get("next"); next != "" && next[0] == '/' {
		http.Redirect(w, r, next, http.StatusFound)
		return
	}
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogout handles the route "POST /logout".
// It expires the session cookie and rotates the user's remember token, so
// the old cookie value is dead even if it was copied.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookie,
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
	})

	user := getUserFromContext(r.Context())
	token, err := crud.MakeRememberToken()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	user.Remember = token
	if err := s.us.Update(user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	response := map[string]string{"message": "successfully logged out"}
	if err := json.NewEncoder(w).Encode(&response); err != nil {
		errs.LogError(r, err)
	}
}

// signIn hands the user's remember token to the client as a cookie,
// generating a fresh token first if the user has none.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, user *domain.User) error {
	if user.Remember == "" {
		token, err := crud.MakeRememberToken()
		if err != nil {
			return err
		}
		user.Remember = token
		if err := s.us.Update(user); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     rememberCookie,
		Value:    user.Remember,
		HttpOnly: true,
	})
	return nil
}
