package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/constants"
	"github.com/kozaktomas/outfit-matcher/internal/picture"
)

// storedName builds a collision-free file name for an upload.
func storedName(original string) string {
	prefix := uuid.NewString()[:constants.UploadNamePrefixLen]
	safe := picture.SafeFilename(original)
	if safe == "" {
		return prefix
	}
	return prefix + "_" + safe
}

// saveUploadedFiles saves multipart files into dir and returns the stored names.
// Parts without a file name are skipped.
func saveUploadedFiles(files []*multipart.FileHeader, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New("failed to create upload directory")
	}

	var names []string
	for _, fileHeader := range files {
		if fileHeader.Filename == "" {
			continue
		}
		if err := func() error {
			file, err := fileHeader.Open()
			if err != nil {
				return fmt.Errorf("failed to open file: %s", fileHeader.Filename)
			}
			defer file.Close()

			name := storedName(fileHeader.Filename)
			out, err := os.Create(filepath.Join(dir, name)) //nolint:gosec // name sanitized via SafeFilename
			if err != nil {
				return errors.New("failed to create file")
			}

			if _, err := io.Copy(out, file); err != nil {
				out.Close()
				return errors.New("failed to save file")
			}
			out.Close()

			names = append(names, name)
			return nil
		}(); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// UploadsHandler serves stored uploads.
type UploadsHandler struct {
	config *config.Config
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(cfg *config.Config) *UploadsHandler {
	return &UploadsHandler{config: cfg}
}

// resolve returns the file path of the upload named in the URL, or "" if the
// name is not a plain file name.
func (h *UploadsHandler) resolve(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ""
	}
	return filepath.Join(h.config.Upload.Dir, name)
}

// Serve returns the original upload.
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	p := h.resolve(r)
	if p == "" {
		respondError(w, http.StatusBadRequest, "invalid file name")
		return
	}
	if _, err := os.Stat(p); err != nil {
		respondError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, p)
}

// Thumbnail returns a JPEG preview of the upload.
func (h *UploadsHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	p := h.resolve(r)
	if p == "" {
		respondError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	img, err := picture.Open(p)
	if err != nil {
		log.Debug().Err(err).Str("file", sanitizeForLog(p)).Msg("thumbnail unavailable")
		respondError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if err := picture.EncodeJPEG(w, picture.Thumbnail(img, constants.ThumbnailSize)); err != nil {
		log.Error().Err(err).Msg("failed to encode thumbnail")
	}
}
