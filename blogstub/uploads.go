package blogstub

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/blogapp/blog-e2e-harness/servicedef"
)

const (
	uploadField    = "image"
	maxUploadBytes = 5 << 20
	uploadsPath    = "/uploads/"
)

type upload struct {
	contentType string
	data        []byte
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	ext, ok := imageExtensions[contentType]
	if !ok {
		writeError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	if contentType == "image/jpeg" && strings.EqualFold(path.Ext(header.Filename), ".jpeg") {
		ext = ".jpeg"
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	name := uuid.NewString() + ext
	s.lock.Lock()
	s.uploads[name] = upload{contentType: contentType, data: data}
	s.lock.Unlock()
	writeJSON(w, http.StatusOK, servicedef.UploadResponse{URL: uploadsPath + name})
}

func (s *Server) getUpload(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()
	u, ok := s.uploads[mux.Vars(r)["name"]]
	s.lock.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", u.contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(u.data)
}
