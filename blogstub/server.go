// Package blogstub is an in-memory implementation of the blog HTTP API. It exists so that the API
// suites can be run against something deterministic, both in unit tests and with the -stub flag.
package blogstub

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/blogapp/blog-e2e-harness/servicedef"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Server holds all of the stub's state. It is safe for concurrent use.
type Server struct {
	lock          sync.Mutex
	router        *mux.Router
	now           func() time.Time
	users         map[string]*user
	nextUserID    int
	tokens        map[string]string
	blogs         map[int]*servicedef.Blog
	nextBlogID    int
	comments      map[int]*servicedef.Comment
	nextCommentID int
	uploads       map[string]upload
	seed          bool
}

// Option customizes a Server.
type Option func(*Server)

// WithClock makes the server use the given function for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithoutSeedData starts the server with no blogs. The admin user is always created.
func WithoutSeedData() Option {
	return func(s *Server) { s.seed = false }
}

// New creates a Server with an admin user and a few sample blogs.
func New(adminUsername, adminPassword string, opts ...Option) *Server {
	s := &Server{
		now:        time.Now,
		users:      make(map[string]*user),
		nextUserID: 1,
		tokens:     make(map[string]string),
		blogs:      make(map[int]*servicedef.Blog),
		nextBlogID: 1,
		comments:   make(map[int]*servicedef.Comment),
		uploads:    make(map[string]upload),
		seed:       true,
	}
	for _, o := range opts {
		o(s)
	}
	if s.seed {
		s.seedBlogs()
	}
	if _, err := s.addUser(adminUsername, adminPassword); err != nil {
		panic(err) // only possible if bcrypt rejects the password, which means a broken setup
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods("GET")

	api.HandleFunc("/auth/login", s.login).Methods("POST")
	api.HandleFunc("/auth/register", s.register).Methods("POST")

	api.HandleFunc("/blogs/public", s.listPublicBlogs).Methods("GET")
	api.HandleFunc("/blogs/public/{id:[0-9]+}", s.getPublicBlog).Methods("GET")
	api.HandleFunc("/blogs/search", s.searchBlogs).Methods("GET")
	api.HandleFunc("/blogs/categories", s.listCategories).Methods("GET")
	api.HandleFunc("/blogs/{id:[0-9]+}/like", s.likeBlog).Methods("POST")
	api.HandleFunc("/blogs/admin", s.requireAuth(s.listAllBlogs)).Methods("GET")
	api.HandleFunc("/blogs/admin/{id:[0-9]+}", s.requireAuth(s.getAnyBlog)).Methods("GET")
	api.HandleFunc("/blogs", s.requireAuth(s.createBlog)).Methods("POST")
	api.HandleFunc("/blogs/{id:[0-9]+}", s.requireAuth(s.updateBlog)).Methods("PUT")
	api.HandleFunc("/blogs/{id:[0-9]+}", s.requireAuth(s.deleteBlog)).Methods("DELETE")

	api.HandleFunc("/comments/blog/{blogId:[0-9]+}", s.listComments).Methods("GET")
	api.HandleFunc("/comments", s.createComment).Methods("POST")
	api.HandleFunc("/comments/author", s.requireAuth(s.createAuthorComment)).Methods("POST")
	api.HandleFunc("/comments/{id:[0-9]+}", s.requireAuth(s.deleteComment)).Methods("DELETE")

	api.HandleFunc("/upload", s.requireAuth(s.uploadImage)).Methods("POST")
	r.HandleFunc("/uploads/{name}", s.getUpload).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.Use(corsMiddleware)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, servicedef.HealthResponse{
		Status:    "ok",
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
}

// requireAuth rejects requests that do not carry a bearer token issued by login or register.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}
		s.lock.Lock()
		_, ok := s.tokens[token]
		s.lock.Unlock()
		if !ok {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, r)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, servicedef.ErrorResponse{Error: message})
}

func pathID(r *http.Request, name string) int {
	id, _ := strconv.Atoi(mux.Vars(r)[name])
	return id
}

// pageParams reads page and limit from the query string, falling back to the defaults for
// missing or non-positive values.
func pageParams(r *http.Request) (page, limit int) {
	page, limit = defaultPage, defaultLimit
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}
	return page, limit
}
