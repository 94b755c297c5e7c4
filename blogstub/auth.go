package blogstub

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogapp/blog-e2e-harness/servicedef"
)

const minPasswordLength = 6

var errUserExists = errors.New("username already exists")

type user struct {
	servicedef.User
	passwordHash []byte
}

// addUser must be called with the lock held, or before the server is shared.
func (s *Server) addUser(username, password string) (*user, error) {
	if _, ok := s.users[username]; ok {
		return nil, errUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	u := &user{
		User:         servicedef.User{ID: s.nextUserID, Username: username, CreatedAt: servicedef.NewTimestamp(s.now().UTC())},
		passwordHash: hash,
	}
	s.nextUserID++
	s.users[username] = u
	return u, nil
}

func (s *Server) issueToken(u *user) servicedef.AuthResponse {
	token := uuid.NewString()
	s.tokens[token] = u.Username
	return servicedef.AuthResponse{Token: token, User: u.User}
}

func readCredentials(r *http.Request) (servicedef.Credentials, bool) {
	var creds servicedef.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		return creds, false
	}
	return creds, creds.Username != "" && creds.Password != ""
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	u, found := s.users[creds.Username]
	if !found || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, s.issueToken(u))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if len(creds.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	u, err := s.addUser(creds.Username, creds.Password)
	if errors.Is(err, errUserExists) {
		writeError(w, http.StatusConflict, "Username already exists")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, s.issueToken(u))
}
