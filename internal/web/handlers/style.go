package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/constants"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
	"github.com/kozaktomas/outfit-matcher/internal/web/middleware"
)

// StyleHandler records the user's face shape and skin tone.
type StyleHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
}

// NewStyleHandler creates a new style handler.
func NewStyleHandler(cfg *config.Config, sm *middleware.SessionManager) *StyleHandler {
	return &StyleHandler{
		config:         cfg,
		sessionManager: sm,
	}
}

// FaceShapeRequest is the body of POST /face-shape.
type FaceShapeRequest struct {
	FaceShape string `json:"face_shape"`
}

// SaveFaceShape stores the chosen face shape. Unrecognised shapes are kept and
// simply produce no advice.
func (h *StyleHandler) SaveFaceShape(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context(), w)
	if id == "" {
		return
	}

	var req FaceShapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	shape := strings.TrimSpace(req.FaceShape)
	if len(shape) > constants.MaxFaceShapeLen {
		respondError(w, http.StatusBadRequest, "face_shape too long")
		return
	}

	_, err := h.sessionManager.Update(r.Context(), id, func(s *wardrobe.Session) error {
		s.FaceShape = outfit.FaceShape(shape)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to save face shape")
		respondError(w, http.StatusInternalServerError, "failed to save face shape")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UploadFace stores a face photo and classifies its skin tone.
func (h *StyleHandler) UploadFace(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context(), w)
	if id == "" {
		return
	}

	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "no file")
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 || files[0].Filename == "" {
		respondError(w, http.StatusBadRequest, "no file")
		return
	}

	names, err := saveUploadedFiles(files[:1], h.config.Upload.Dir)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := names[0]

	tone := wardrobe.DetectSkinToneFile(filepath.Join(h.config.Upload.Dir, name))

	_, err = h.sessionManager.Update(r.Context(), id, func(s *wardrobe.Session) error {
		s.SkinTone = tone
		s.FacePath = name
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to save skin tone")
		respondError(w, http.StatusInternalServerError, "failed to save skin tone")
		return
	}

	log.Info().Str("file", sanitizeForLog(name)).Str("skin_tone", string(tone)).Msg("face analyzed")
	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"skin_tone":   tone,
		"preview_url": uploadURL(name),
	})
}
