package blogstub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/blogapp/blog-e2e-harness/servicedef"
)

const (
	maxCommentLength    = 2000
	maxAuthorNameLength = 100
	defaultAuthorName   = "Author"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	blogID := pathID(r, "blogId")
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.blogs[blogID]; !ok {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	ret := make([]servicedef.Comment, 0)
	for _, c := range s.comments {
		if c.BlogID == blogID {
			ret = append(ret, *c)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })
	writeJSON(w, http.StatusOK, ret)
}

// validateComment returns the error message for an invalid comment, or "" if it is valid.
func validateComment(content, authorName string) string {
	switch {
	case strings.TrimSpace(content) == "":
		return "Comment cannot be empty"
	case len(content) > maxCommentLength:
		return fmt.Sprintf("Comment cannot exceed %d characters", maxCommentLength)
	case strings.TrimSpace(authorName) == "":
		return "Author name cannot be empty"
	case len(authorName) > maxAuthorNameLength:
		return fmt.Sprintf("Author name cannot exceed %d characters", maxAuthorNameLength)
	}
	return ""
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var in servicedef.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.BlogID == nil || in.Content == nil || in.AuthorName == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	s.addComment(w, *in.BlogID, *in.Content, *in.AuthorName, false)
}

// createAuthorComment is the authenticated variant. The author name is optional.
func (s *Server) createAuthorComment(w http.ResponseWriter, r *http.Request) {
	var in servicedef.CommentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.BlogID == nil || in.Content == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	authorName := defaultAuthorName
	if in.AuthorName != nil {
		authorName = *in.AuthorName
	}
	s.addComment(w, *in.BlogID, *in.Content, authorName, true)
}

func (s *Server) addComment(w http.ResponseWriter, blogID int, content, authorName string, isAuthor bool) {
	content = strings.TrimSpace(stripTags(content))
	authorName = strings.TrimSpace(stripTags(authorName))
	if msg := validateComment(content, authorName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.blogs[blogID]; !ok {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	s.nextCommentID++
	c := &servicedef.Comment{
		ID:         s.nextCommentID,
		BlogID:     blogID,
		Content:    content,
		AuthorName: authorName,
		IsAuthor:   isAuthor,
		CreatedAt:  servicedef.NewTimestamp(s.now().UTC()),
	}
	s.comments[c.ID] = c
	writeJSON(w, http.StatusCreated, *c)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.comments[id]; !ok {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	delete(s.comments, id)
	writeJSON(w, http.StatusOK, servicedef.MessageResponse{Message: "Comment deleted successfully"})
}
