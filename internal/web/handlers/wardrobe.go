package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/constants"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
	"github.com/kozaktomas/outfit-matcher/internal/web/middleware"
)

// WardrobeHandler manages the session's tops and bottoms.
type WardrobeHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
}

// NewWardrobeHandler creates a new wardrobe handler.
func NewWardrobeHandler(cfg *config.Config, sm *middleware.SessionManager) *WardrobeHandler {
	return &WardrobeHandler{
		config:         cfg,
		sessionManager: sm,
	}
}

// ItemResponse is a wardrobe item as returned to clients. Hex is the reference
// value of the named colour, empty for Uncertain.
type ItemResponse struct {
	URL      string             `json:"url"`
	Color    classify.ColorName `json:"color"`
	Hex      string             `json:"hex,omitempty"`
	Swatches []string           `json:"swatches,omitempty"`
}

// WardrobeResponse describes the current session.
type WardrobeResponse struct {
	SkinTone  classify.SkinTone `json:"skin_tone"`
	FaceShape outfit.FaceShape  `json:"face_shape"`
	FaceURL   string            `json:"face_url,omitempty"`
	Tops      []ItemResponse    `json:"tops"`
	Bottoms   []ItemResponse    `json:"bottoms"`
}

func itemResponses(items []wardrobe.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = ItemResponse{URL: uploadURL(it.Path), Color: it.Color, Swatches: it.Swatches}
		if nc, ok := classify.LookupColor(it.Color); ok {
			out[i].Hex = nc.Reference.Hex()
		}
	}
	return out
}

// UploadClothes stores and classifies garment photos of one type.
func (h *WardrobeHandler) UploadClothes(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context(), w)
	if id == "" {
		return
	}

	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	kind, err := wardrobe.ParseKind(r.FormValue("type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "type must be tops or bottoms")
		return
	}

	names, err := saveUploadedFiles(r.MultipartForm.File["files"], h.config.Upload.Dir)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(h.config.Upload.Dir, name)
	}
	items := wardrobe.ClassifyFiles(r.Context(), paths, h.config.Classify.Workers, nil)
	for i := range items {
		items[i].Path = names[i]
	}

	_, err = h.sessionManager.Update(r.Context(), id, func(s *wardrobe.Session) error {
		s.Add(kind, items...)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to save wardrobe")
		respondError(w, http.StatusInternalServerError, "failed to save wardrobe")
		return
	}

	log.Info().Str("type", string(kind)).Int("count", len(items)).Msg("clothes classified")
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"count":  len(items),
	})
}

// Get returns the session's analysis and wardrobe.
func (h *WardrobeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context(), w)
	if id == "" {
		return
	}

	s, err := h.sessionManager.Load(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("failed to load wardrobe")
		respondError(w, http.StatusInternalServerError, "failed to load wardrobe")
		return
	}

	resp := WardrobeResponse{
		SkinTone:  s.Tone(),
		FaceShape: s.Shape(),
		Tops:      itemResponses(s.Tops),
		Bottoms:   itemResponses(s.Bottoms),
	}
	if s.FacePath != "" {
		resp.FaceURL = uploadURL(s.FacePath)
	}
	respondJSON(w, http.StatusOK, resp)
}

// Reset clears the tops and bottoms. Skin tone and face shape are kept.
func (h *WardrobeHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context(), w)
	if id == "" {
		return
	}

	_, err := h.sessionManager.Update(r.Context(), id, func(s *wardrobe.Session) error {
		s.Reset()
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to reset wardrobe")
		respondError(w, http.StatusInternalServerError, "failed to reset wardrobe")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
