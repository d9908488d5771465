package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/outfit-matcher/internal/palette"
)

// PalettesHandler exposes the palette catalog.
type PalettesHandler struct {
	catalog *palette.Catalog
}

// NewPalettesHandler creates a new palettes handler.
func NewPalettesHandler(catalog *palette.Catalog) *PalettesHandler {
	return &PalettesHandler{catalog: catalog}
}

// PaletteResponse is a catalog palette with its display label.
type PaletteResponse struct {
	palette.Palette
	Label string `json:"label"`
}

// List returns every palette in ascending identifier order.
func (h *PalettesHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.catalog.All()
	out := make([]PaletteResponse, len(all))
	for i, p := range all {
		out[i] = PaletteResponse{Palette: p, Label: palette.Label(p.ID)}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"palettes": out,
		"count":    len(out),
	})
}

// Get returns one palette.
func (h *PalettesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid palette id")
		return
	}

	p, ok := h.catalog.Lookup(id)
	if !ok {
		respondError(w, http.StatusNotFound, "palette not found")
		return
	}
	respondJSON(w, http.StatusOK, PaletteResponse{Palette: p, Label: palette.Label(p.ID)})
}
