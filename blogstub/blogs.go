package blogstub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/blogapp/blog-e2e-harness/servicedef"
)

// SeedBlogs are the blogs that a new Server starts with, unless WithoutSeedData is used.
var SeedBlogs = []servicedef.BlogInput{
	{
		Title:    "Getting Started with React Hooks",
		Excerpt:  "A practical introduction to useState and useEffect.",
		Content:  "<h2>Why hooks</h2><p>Hooks let function components hold state.</p>",
		Category: "Technology",
		Tags:     []string{"React", "JavaScript"},
		Status:   servicedef.StatusPublished,
	},
	{
		Title:    "Designing for Accessibility",
		Excerpt:  "Small changes that make a big difference.",
		Content:  "<p>Start with contrast and keyboard navigation.</p>",
		Category: "Design",
		Tags:     []string{"Design"},
		Status:   servicedef.StatusPublished,
	},
	{
		Title:    "Python Tips for Testers",
		Excerpt:  "Fixtures, parametrization and a few test helpers.",
		Content:  "<p>Use fixtures to keep tests independent.</p>",
		Category: "Technology",
		Tags:     []string{"Python"},
		Status:   servicedef.StatusPublished,
	},
	{
		Title:    "Upcoming Features",
		Excerpt:  "What we are working on next.",
		Content:  "<p>Not ready yet.</p>",
		Category: "News",
		Tags:     []string{"News"},
		Status:   servicedef.StatusDraft,
	},
}

func (s *Server) seedBlogs() {
	for _, in := range SeedBlogs {
		s.insertBlog(in)
	}
}

// AddBlog stores a blog as if it had been created through the API, and returns it.
func (s *Server) AddBlog(in servicedef.BlogInput) servicedef.Blog {
	s.lock.Lock()
	defer s.lock.Unlock()
	return *s.insertBlog(in)
}

func (s *Server) insertBlog(in servicedef.BlogInput) *servicedef.Blog {
	now := s.now().UTC()
	b := &servicedef.Blog{
		ID:            s.nextBlogID,
		Title:         in.Title,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		Category:      in.Category,
		Tags:          append([]string{}, in.Tags...),
		Status:        in.Status,
		FeaturedImage: in.FeaturedImage,
		CreatedAt:     servicedef.NewTimestamp(now),
		UpdatedAt:     servicedef.NewTimestamp(now),
	}
	if b.Status == "" {
		b.Status = servicedef.StatusDraft
	}
	s.nextBlogID++
	s.blogs[b.ID] = b
	return b
}

// sortedBlogs returns copies of the blogs that match the predicate, newest first. It must be
// called with the lock held.
func (s *Server) sortedBlogs(match func(*servicedef.Blog) bool) []servicedef.Blog {
	ret := make([]servicedef.Blog, 0, len(s.blogs))
	for _, b := range s.blogs {
		if match(b) {
			ret = append(ret, *b)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID > ret[j].ID })
	return ret
}

func paginate(blogs []servicedef.Blog, page, limit int) servicedef.BlogList {
	total := len(blogs)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return servicedef.BlogList{
		Data: blogs[start:end],
		Pagination: servicedef.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
}

func isPublished(b *servicedef.Blog) bool { return b.Status == servicedef.StatusPublished }

func (s *Server) listPublicBlogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	s.lock.Lock()
	blogs := s.sortedBlogs(isPublished)
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, paginate(blogs, page, limit))
}

func (s *Server) listAllBlogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	s.lock.Lock()
	blogs := s.sortedBlogs(func(*servicedef.Blog) bool { return true })
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, paginate(blogs, page, limit))
}

// getPublicBlog counts as a view.
func (s *Server) getPublicBlog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.lock.Lock()
	defer s.lock.Unlock()
	b, ok := s.blogs[id]
	if !ok || !isPublished(b) {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	b.Views++
	writeJSON(w, http.StatusOK, *b)
}

func (s *Server) getAnyBlog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.lock.Lock()
	defer s.lock.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	writeJSON(w, http.StatusOK, *b)
}

// searchBlogs filters published blogs by a free-text query, a category, and a comma-separated
// list of tags of which a blog must have at least one.
func (s *Server) searchBlogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.ToLower(strings.TrimSpace(q.Get("query")))
	category := q.Get("category")
	var tags []string
	for _, t := range strings.Split(q.Get("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	page, limit := pageParams(r)

	s.lock.Lock()
	blogs := s.sortedBlogs(func(b *servicedef.Blog) bool {
		if !isPublished(b) {
			return false
		}
		if category != "" && b.Category != category {
			return false
		}
		if query != "" && !strings.Contains(strings.ToLower(b.Title+" "+b.Excerpt+" "+b.Content), query) {
			return false
		}
		return len(tags) == 0 || hasAnyTag(b, tags)
	})
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, paginate(blogs, page, limit))
}

func hasAnyTag(b *servicedef.Blog, tags []string) bool {
	for _, want := range tags {
		for _, have := range b.Tags {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.lock.Lock()
	seen := make(map[string]bool)
	categories := []string{}
	for _, b := range s.blogs {
		if isPublished(b) && !seen[b.Category] {
			seen[b.Category] = true
			categories = append(categories, b.Category)
		}
	}
	s.lock.Unlock()
	sort.Strings(categories)
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) likeBlog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.lock.Lock()
	defer s.lock.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	b.Likes++
	writeJSON(w, http.StatusOK, servicedef.LikeResponse{Likes: b.Likes})
}

func validStatus(status string) bool {
	return status == "" || status == servicedef.StatusDraft || status == servicedef.StatusPublished
}

func (s *Server) createBlog(w http.ResponseWriter, r *http.Request) {
	var in servicedef.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Title == "" || in.Excerpt == "" || in.Content == "" || in.Category == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !validStatus(in.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	s.lock.Lock()
	b := *s.insertBlog(in)
	s.lock.Unlock()
	writeJSON(w, http.StatusCreated, b)
}

// updateBlog only changes the fields that are present in the request.
func (s *Server) updateBlog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	var in servicedef.BlogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validStatus(in.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	setIfPresent(&b.Title, in.Title)
	setIfPresent(&b.Excerpt, in.Excerpt)
	setIfPresent(&b.Content, in.Content)
	setIfPresent(&b.Category, in.Category)
	setIfPresent(&b.Status, in.Status)
	setIfPresent(&b.FeaturedImage, in.FeaturedImage)
	if in.Tags != nil {
		b.Tags = append([]string{}, in.Tags...)
	}
	b.UpdatedAt = servicedef.NewTimestamp(s.now().UTC())
	writeJSON(w, http.StatusOK, *b)
}

func setIfPresent(field *string, value string) {
	if value != "" {
		*field = value
	}
}

// deleteBlog also removes the blog's comments.
func (s *Server) deleteBlog(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.blogs[id]; !ok {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	delete(s.blogs, id)
	for cid, c := range s.comments {
		if c.BlogID == id {
			delete(s.comments, cid)
		}
	}
	writeJSON(w, http.StatusOK, servicedef.MessageResponse{Message: "Blog deleted successfully"})
}
