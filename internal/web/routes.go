package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/faceid/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	enrollHandler := handlers.NewEnrollHandler(s.service)
	recognizeHandler := handlers.NewRecognizeHandler(s.service)
	labelsHandler := handlers.NewLabelsHandler(s.service)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/enroll", enrollHandler.Enroll)
		r.Post("/recognize", recognizeHandler.Recognize)
		r.Get("/labels", labelsHandler.Labels)
	})
}
