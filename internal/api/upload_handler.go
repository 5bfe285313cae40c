package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/devtalkx/backend/internal/middleware"
	"github.com/devtalkx/backend/internal/storage"
	"github.com/devtalkx/backend/pkg/response"
)

const maxUploadSize = 5 << 20 // 5MB

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".txt": true, ".md": true, ".zip": true,
}

// UploadHandler accepts multipart file uploads and returns the stored
// file's public URL plus the metadata chat clients attach to messages.
type UploadHandler struct {
	files  storage.FileStorage
	logger *zap.Logger
}

func NewUploadHandler(files storage.FileStorage, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{files: files, logger: logger}
}

type uploadResult struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"type"`
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "file exceeds the 5MB limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "missing 'file' form field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		response.BadRequest(w, "unsupported file type")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.files.SaveFile(r.Context(), file, header.Filename, contentType)
	if err != nil {
		h.logger.Error("file upload failed", zap.Error(err))
		response.InternalError(w, "could not store file")
		return
	}

	response.Created(w, uploadResult{
		URL:      url,
		Name:     header.Filename,
		MimeType: contentType,
	})
}
