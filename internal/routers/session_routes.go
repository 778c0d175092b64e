package routers

import (
	"interviewai/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

func SessionRoutes(r *chi.Mux, sessionHandler *handlers.SessionHandler) {
	r.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/candidate", sessionHandler.CandidateSignInHandler)
	})
}
