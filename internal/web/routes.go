package web

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/outfit-matcher/internal/web/handlers"
	"github.com/kozaktomas/outfit-matcher/internal/web/middleware"
	"github.com/kozaktomas/outfit-matcher/internal/web/static"
)

func (s *Server) setupRoutes() {
	styleHandler := handlers.NewStyleHandler(s.config, s.sessionManager)
	wardrobeHandler := handlers.NewWardrobeHandler(s.config, s.sessionManager)
	pairingsHandler := handlers.NewPairingsHandler(s.config, s.sessionManager, s.generator)
	uploadsHandler := handlers.NewUploadsHandler(s.config)
	palettesHandler := handlers.NewPalettesHandler(s.catalog)

	// Health check (no session required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Shared, session-independent data
		r.Get("/palettes", palettesHandler.List)
		r.Get("/palettes/{id}", palettesHandler.Get)
		r.Get("/face-shapes", pairingsHandler.FaceShapes)
		r.Get("/uploads/{name}", uploadsHandler.Serve)
		r.Get("/uploads/{name}/thumb", uploadsHandler.Thumbnail)

		r.Group(func(r chi.Router) {
			r.Use(middleware.WithSession(s.sessionManager))

			// Face analysis
			r.Post("/face-shape", styleHandler.SaveFaceShape)
			r.Post("/face", styleHandler.UploadFace)

			// Wardrobe
			r.Post("/clothes", wardrobeHandler.UploadClothes)
			r.Get("/wardrobe", wardrobeHandler.Get)
			r.Delete("/wardrobe", wardrobeHandler.Reset)

			// Pairings
			r.Get("/generate", pairingsHandler.Generate)
			r.Get("/lookbook.pdf", pairingsHandler.Lookbook)
		})
	})

	// Serve the single-page front end
	s.router.Get("/*", s.serveSPA)
}

// serveSPA serves the embedded front end, falling back to index.html for unknown paths.
func (s *Server) serveSPA(w http.ResponseWriter, r *http.Request) {
	f, name, err := static.Open(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if strings.HasPrefix(name, "assets/") {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}

	w.WriteHeader(http.StatusOK)
	io.Copy(w, f)
}
