package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/config"
	"github.com/kozaktomas/outfit-matcher/internal/lookbook"
	"github.com/kozaktomas/outfit-matcher/internal/outfit"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
	"github.com/kozaktomas/outfit-matcher/internal/web/middleware"
)

// PairingsHandler turns the session wardrobe into outfit suggestions.
type PairingsHandler struct {
	config         *config.Config
	sessionManager *middleware.SessionManager
	generator      *outfit.Generator
}

// NewPairingsHandler creates a new pairings handler.
func NewPairingsHandler(cfg *config.Config, sm *middleware.SessionManager, gen *outfit.Generator) *PairingsHandler {
	return &PairingsHandler{
		config:         cfg,
		sessionManager: sm,
		generator:      gen,
	}
}

// GenerateResponse is the body of GET /generate.
type GenerateResponse struct {
	Pairings []outfit.Pairing  `json:"pairings"`
	SkinTone classify.SkinTone `json:"skin_tone"`
}

// FaceShapeResponse is one selectable face shape with its styling advice.
type FaceShapeResponse struct {
	Name   outfit.FaceShape `json:"name"`
	Advice string           `json:"advice"`
}

// FaceShapes lists the face shapes the styling rules give advice for.
func (h *PairingsHandler) FaceShapes(w http.ResponseWriter, r *http.Request) {
	rules := h.generator.Rules()
	names := rules.FaceShapeNames()

	shapes := make([]FaceShapeResponse, len(names))
	for i, name := range names {
		shapes[i] = FaceShapeResponse{Name: name, Advice: rules.Advice(name)}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"face_shapes": shapes,
		"default":     outfit.DefaultFaceShape,
	})
}

func (h *PairingsHandler) pairingsFor(r *http.Request, id string) (*wardrobe.Session, []outfit.Pairing, error) {
	s, err := h.sessionManager.Load(r.Context(), id)
	if err != nil {
		return nil, nil, err
	}
	tops, bottoms := s.Collections()
	return s, h.generator.Generate(s.Tone(), s.Shape(), tops, bottoms), nil
}

// Generate returns every pairing for the session, with image references
// rewritten to upload URLs.
func (h *PairingsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context(), w)
	if id == "" {
		return
	}

	s, pairings, err := h.pairingsFor(r, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to load wardrobe")
		respondError(w, http.StatusInternalServerError, "failed to load wardrobe")
		return
	}

	for i := range pairings {
		pairings[i].TopImage = uploadURL(pairings[i].TopImage)
		pairings[i].BottomImage = uploadURL(pairings[i].BottomImage)
	}

	respondJSON(w, http.StatusOK, GenerateResponse{Pairings: pairings, SkinTone: s.Tone()})
}

// Lookbook renders the session's pairings as a PDF.
func (h *PairingsHandler) Lookbook(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetSessionID(r.Context(), w)
	if id == "" {
		return
	}

	s, pairings, err := h.pairingsFor(r, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to load wardrobe")
		respondError(w, http.StatusInternalServerError, "failed to load wardrobe")
		return
	}

	data, err := lookbook.Render(lookbook.Document{
		SkinTone:  s.Tone(),
		FaceShape: s.Shape(),
		Pairings:  pairings,
		Resolve: func(ref string) string {
			return filepath.Join(h.config.Upload.Dir, filepath.Base(ref))
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to render lookbook")
		respondError(w, http.StatusInternalServerError, "failed to render lookbook")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="lookbook.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
