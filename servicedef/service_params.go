// Package servicedef contains the request and response shapes of the blog HTTP API.
package servicedef

import (
	"fmt"
	"time"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Timestamp is a date-time as the API sent it. It is kept as text because backends differ in
// the format they use; Time parses it when a test needs the value.
type Timestamp string

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.Format(time.RFC3339))
}

// Time parses the timestamp as RFC 3339, or as a SQL-style "2006-01-02 15:04:05" date-time in UTC.
func (ts Timestamp) Time() (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, string(ts)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", string(ts))
}

type Credentials struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt Timestamp `json:"createdAt"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// BlogInput is the body of a create or update request. Omitted fields are left unchanged by an
// update.
type BlogInput struct {
	Title         string   `json:"title,omitempty"`
	Excerpt       string   `json:"excerpt,omitempty"`
	Content       string   `json:"content,omitempty"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Status        string   `json:"status,omitempty"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
}

type Blog struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	Status        string    `json:"status"`
	FeaturedImage string    `json:"featuredImage,omitempty"`
	Views         int       `json:"views"`
	Likes         int       `json:"likes"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type BlogList struct {
	Data       []Blog     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type LikeResponse struct {
	Likes int `json:"likes"`
}

// CommentInput uses pointers so that a missing field can be told apart from an empty one.
type CommentInput struct {
	BlogID     *int    `json:"blogId,omitempty"`
	Content    *string `json:"content,omitempty"`
	AuthorName *string `json:"authorName,omitempty"`
}

type Comment struct {
	ID         int       `json:"id"`
	BlogID     int       `json:"blogId"`
	Content    string    `json:"content"`
	AuthorName string    `json:"authorName"`
	IsAuthor   bool      `json:"isAuthor"`
	CreatedAt  Timestamp `json:"createdAt"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
