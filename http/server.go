package http

import (
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"groupblog/crud"
	"groupblog/domain"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	gs     domain.GroupService
	ps     domain.PostService
	cs     domain.CommentService
	fs     domain.FollowService
	feeds  domain.FeedService
	is     domain.ImageService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(isProd bool, csrfAuthKey string, services *crud.Services, feeds domain.FeedService, is domain.ImageService) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		gs:     services.Group,
		ps:     services.Post,
		cs:     services.Comment,
		fs:     services.Follow,
		feeds:  feeds,
		is:     is,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the blog itself.
	s.registerFeedRoutes(s.router)
	s.registerPostRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerGroupRoutes(s.router)
	s.registerImageRoutes(s.router)

	// Set up middleware that needs to run on every request. The CSRF
	// cookie is only marked Secure in production, where TLS terminates
	// in front of the app.
	csrfMw := csrf.Protect([]byte(csrfAuthKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.authUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The authUser middleware resolves the remember token cookie to a user and
// puts them into the request context. Requests without a valid cookie pass
// through anonymously.
func (s *Server) authUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(rememberCookie)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByRemember(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(setUserInContext(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth guards handlers that need an authenticated caller. Anonymous
// requests are redirected to the login route, carrying the original target
// so the client can return there after logging in.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// parsePage reads the 1-based ?page= query parameter. Absent or garbage
// values fall back to the first page; clamping to the valid range happens
// in the feed service.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Printf("listening on :%d", port)
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}
